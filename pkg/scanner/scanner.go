// Package scanner finds files with identical content under one or more roots
// and merges duplicates into hardlinks of a single physical copy.
package scanner

import (
	"container/heap"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dupesweep/dupesweep/pkg/fileset"
	"github.com/dupesweep/dupesweep/pkg/fingerprint"
	"github.com/dupesweep/dupesweep/pkg/fsid"
	"github.com/dupesweep/dupesweep/pkg/logger"
)

// Settings controls scan behavior.
type Settings struct {
	// IgnoreSmall skips files smaller than a filesystem block.
	// Deduping such files is unlikely to save space.
	IgnoreSmall bool
	// DryRun reports planned merges without touching the filesystem.
	DryRun bool
}

// Stats are the running counters of a scan. They only grow; constructing a
// new Scanner is the only reset.
type Stats struct {
	Added     uint64
	Skipped   uint64
	Dupes     uint64
	Hardlinks uint64
}

// FileFilter rejects files from classification. Rejected files count as
// skipped.
type FileFilter interface {
	Ignore(path string, size int64) bool
}

// Scanner is the dedup orchestrator. It is not safe for concurrent use;
// traversal, classification and merging run on the calling goroutine.
type Scanner struct {
	// byInode maps device+inode to the FileSet of all its known paths.
	// Hardlinks of the same inode are one logical file.
	byInode map[fsid.FileID]*fileset.FileSet
	// byContent groups FileSets by content fingerprint. A bucket with two or
	// more members is an active duplicate group.
	byContent map[fingerprint.Fingerprint][]*fileset.FileSet
	// toScan holds directories left to scan, ordered by inode locality.
	toScan dirQueue

	listener ScanListener
	filter   FileFilter
	stats    Stats
	log      *logrus.Entry

	Settings Settings
}

// New creates a Scanner with default settings.
func New() *Scanner {
	return &Scanner{
		byInode:   make(map[fsid.FileID]*fileset.FileSet),
		byContent: make(map[fingerprint.Fingerprint][]*fileset.FileSet),
		listener:  NoopListener{},
		log:       logger.GetLogger("scanner"),
		Settings: Settings{
			IgnoreSmall: true,
			DryRun:      false,
		},
	}
}

// SetListener sets the scan listener. Caution: this overrides any previously
// set listener! Use Multi if multiple listeners are required.
func (s *Scanner) SetListener(l ScanListener) {
	s.listener = l
}

// SetFilter sets an optional file filter applied during classification.
func (s *Scanner) SetFilter(f FileFilter) {
	s.filter = f
}

// Stats returns the current counters.
func (s *Scanner) Stats() Stats {
	return s.stats
}

// Scan dedupes any file or directory. Dedup happens within the path as well
// as against all previously scanned paths.
func (s *Scanner) Scan(path string) error {
	if err := s.Enqueue(path); err != nil {
		return err
	}
	return s.Flush()
}

// Enqueue resolves a root path and classifies it exactly like a directory
// child, so roots and children share one code path.
func (s *Scanner) Enqueue(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return fmt.Errorf("canonicalize path: %w", err)
	}

	fi, err := os.Lstat(canonical)
	if err != nil {
		return fmt.Errorf("lstat path: %w", err)
	}

	return s.add(canonical, fi)
}

// Flush drains the queue of directories to scan, then reports completion to
// the listener.
func (s *Scanner) Flush() error {
	start := time.Now()

	for s.toScan.Len() > 0 {
		next := heap.Pop(&s.toScan).(pendingDir)
		if err := s.scanDir(next.path); err != nil {
			return err
		}
	}

	s.listener.ScanComplete(s.stats, time.Since(start))
	return nil
}

// scanDir classifies every child of one directory. Unreadable or vanished
// entries are routine (permission denied, races with other processes), so a
// single bad entry never aborts the directory; it is logged and skipped.
func (s *Scanner) scanDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir: %w", err)
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		fi, err := entry.Info()
		if err != nil {
			s.log.WithError(err).Warnf("Failed reading metadata, skipping: %q", path)
			continue
		}

		if err := s.add(path, fi); err != nil {
			s.log.WithError(err).Warnf("Failed classifying, skipping: %q", path)
		}
	}

	return nil
}

// add classifies one entry: directories are queued, non-dedupable entries are
// skipped, and files are resolved through the inode tier and then the content
// tier.
func (s *Scanner) add(path string, fi os.FileInfo) error {
	s.listener.FileScanned(path, s.stats)

	mode := fi.Mode()
	switch {
	case mode.IsDir():
		id, _, err := s.identify(path, fi)
		if err != nil {
			return err
		}
		heap.Push(&s.toScan, pendingDir{key: orderKey(id.Inode), path: path})
		return nil
	case mode&os.ModeSymlink != 0:
		// Traversing symlinks would require loop prevention.
		s.stats.Skipped++
		return nil
	case !mode.IsRegular():
		// Deduping /dev would be funny.
		s.stats.Skipped++
		return nil
	}

	id, info, err := s.identify(path, fi)
	if err != nil {
		return err
	}

	size := fi.Size()
	if size == 0 || (s.Settings.IgnoreSmall && uint64(size) < info.Blksize) {
		s.stats.Skipped++
		return nil
	}

	if s.filter != nil && s.filter.Ignore(path, size) {
		s.stats.Skipped++
		return nil
	}

	s.stats.Added++

	// Inode tier: hardlinks of a known inode are already byte-identical by
	// construction, no content comparison needed.
	if set, seen := s.byInode[id]; seen {
		s.stats.Hardlinks++
		set.Push(path)
		return nil
	}

	set := fileset.New(path, info.Nlink)
	s.byInode[id] = set

	// Content tier, only reached for newly discovered inodes.
	fp, err := fingerprint.New(path, size)
	if err != nil {
		return err
	}

	bucket, seen := s.byContent[fp]
	if !seen {
		s.byContent[fp] = []*fileset.FileSet{set}
		return nil
	}

	// Found a dupe!
	s.stats.Dupes++
	bucket = append(bucket, set)
	s.byContent[fp] = bucket

	return s.dedupe(bucket)
}

// identify resolves the file identity, preferring the metadata already in
// hand over a second stat call.
func (s *Scanner) identify(path string, fi os.FileInfo) (fsid.FileID, fsid.Info, error) {
	if id, info, ok := fsid.FromFileInfo(fi); ok {
		return id, info, nil
	}

	return fsid.Stat(path)
}

// Dupes returns a snapshot of every known FileSet.
func (s *Scanner) Dupes() []fileset.Snapshot {
	out := make([]fileset.Snapshot, 0, len(s.byInode))
	for _, set := range s.byInode {
		out = append(out, set.Snapshot())
	}
	return out
}
