// Package fileset tracks every known path of one physical file (one inode).
package fileset

import "sync"

// FileSet is the bookkeeping record for a single inode. It is reachable from
// both the scanner's inode index and a content-index bucket, so all path
// mutation goes through the mutex even though scanning is single threaded.
type FileSet struct {
	mu    sync.Mutex
	paths []string
	links uint64
}

// New creates a FileSet seeded with the first discovered path and the
// hardlink count the OS reported at discovery time.
func New(path string, links uint64) *FileSet {
	return &FileSet{
		paths: []string{path},
		links: links,
	}
}

// Push appends a newly observed path for this inode.
func (f *FileSet) Push(path string) {
	f.mu.Lock()
	f.paths = append(f.paths, path)
	f.mu.Unlock()
}

// Front returns the first path without removing it. The first path is the
// canonical source whenever this set acts as a merge anchor.
func (f *FileSet) Front() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.paths) == 0 {
		return "", false
	}
	return f.paths[0], true
}

// PopFront removes and returns the first path.
func (f *FileSet) PopFront() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.paths) == 0 {
		return "", false
	}

	p := f.paths[0]
	f.paths = f.paths[1:]
	return p, true
}

// Links returns the hardlink count recorded when the set was created. It is
// not kept live across merges; it only serves as the anchor tie-break signal.
func (f *FileSet) Links() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.links
}

// Len returns the number of tracked paths.
func (f *FileSet) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.paths)
}

// Paths returns a copy of the tracked paths in insertion order.
func (f *FileSet) Paths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, len(f.paths))
	copy(out, f.paths)
	return out
}

// Snapshot is an immutable copy of a FileSet for reporting.
type Snapshot struct {
	Paths []string
	Links uint64
}

// Snapshot returns a point-in-time copy of the set.
func (f *FileSet) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	paths := make([]string, len(f.paths))
	copy(paths, f.paths)

	return Snapshot{
		Paths: paths,
		Links: f.links,
	}
}
