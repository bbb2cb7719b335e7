// Package linkmap indexes already existing hardlink groups: every path seen
// for a given device+inode pair.
package linkmap

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/dupesweep/dupesweep/pkg/fsid"
	"github.com/dupesweep/dupesweep/pkg/logger"
)

type entry struct {
	paths []string
	// nlink as reported by the OS, which also counts links outside the
	// indexed tree.
	nlink uint64
	size  int64
}

// LinkMap maps FileID to the slice of indexed paths sharing that inode.
type LinkMap struct {
	m   map[fsid.FileID]*entry
	log *logrus.Entry
}

func New() *LinkMap {
	return &LinkMap{
		m:   make(map[fsid.FileID]*entry),
		log: logger.GetLogger("linkmap"),
	}
}

// Add stats the path and records it under its file identifier. Unreadable
// paths are logged and ignored.
func (l *LinkMap) Add(path string) {
	id, info, err := fsid.Stat(path)
	if err != nil {
		l.log.WithError(err).Warnf("Failed to get file identifier: %q", path)
		return
	}

	e, exists := l.m[id]
	if !exists {
		l.m[id] = &entry{paths: []string{path}, nlink: info.Nlink, size: info.Size}
		return
	}

	for _, existing := range e.paths {
		if existing == path {
			return
		}
	}
	e.paths = append(e.paths, path)
}

// Length returns the number of distinct inodes indexed.
func (l *LinkMap) Length() int {
	return len(l.m)
}

// Group is one inode with more than one indexed path.
type Group struct {
	ID    fsid.FileID
	Paths []string
	// TotalLinks is the OS link count; when it exceeds len(Paths) the inode
	// has links outside the indexed tree.
	TotalLinks uint64
	// Size of the file; every link beyond the first saves this much.
	Size int64
}

// Groups returns all inodes with at least two indexed paths, ordered by
// identity for stable output.
func (l *LinkMap) Groups() []Group {
	groups := make([]Group, 0)
	for id, e := range l.m {
		if len(e.paths) < 2 {
			continue
		}

		paths := make([]string, len(e.paths))
		copy(paths, e.paths)

		groups = append(groups, Group{
			ID:         id,
			Paths:      paths,
			TotalLinks: e.nlink,
			Size:       e.size,
		})
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].ID.Device != groups[j].ID.Device {
			return groups[i].ID.Device < groups[j].ID.Device
		}
		return groups[i].ID.Inode < groups[j].ID.Inode
	})

	return groups
}
