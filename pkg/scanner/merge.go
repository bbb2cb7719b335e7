package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/dupesweep/dupesweep/pkg/fileset"
)

// tempSeq distinguishes temp names across merge attempts within one process;
// the pid distinguishes concurrent processes over the same tree.
var tempSeq atomic.Uint64

// dedupe merges every member of a content bucket into the anchor member.
//
// The bucket stays registered in the content index, so this must keep making
// sense when called again for the same bucket: merged paths move into the
// anchor's FileSet, drained members stay behind empty, and a later duplicate
// simply merges against the same anchor.
func (s *Scanner) dedupe(sets []*fileset.FileSet) error {
	// Merging a small link group into a large one takes fewer link operations,
	// so the member with the most recorded hardlinks anchors the merge.
	// Earliest-discovered wins ties, which also keeps the anchor stable across
	// repeated merges of one bucket.
	anchorIdx := 0
	for i, set := range sets {
		if set.Links() > sets[anchorIdx].Links() {
			anchorIdx = i
		}
	}
	anchor := sets[anchorIdx]

	src, ok := anchor.Front()
	if !ok {
		return fmt.Errorf("merge anchor has no source path")
	}

	for i, set := range sets {
		if i == anchorIdx {
			continue
		}

		for {
			dst, more := set.Front()
			if !more {
				break
			}

			assertDistinctPaths(src, dst)
			assertDistinctInodes(src, dst)

			if s.Settings.DryRun {
				s.listener.DuplicateFound(dst, src)
			} else if err := replaceWithLink(src, dst); err != nil {
				// The failed path and the undrained remainder stay tracked in
				// their origin set; the files on disk are untouched.
				return err
			} else {
				s.listener.Hardlinked(dst, src)
			}

			// Only a successfully merged path changes ownership: dst now
			// refers to the anchor's inode.
			set.PopFront()
			anchor.Push(dst)
		}
	}

	return nil
}

// replaceWithLink atomically replaces dst with a hardlink to src.
//
// Hardlinking never overwrites an existing name and rename is atomic, so dst
// transitions directly from old content to a link of src with no window where
// it is missing or half written. On any failure the temp artifact is removed
// and dst is left as it was.
func replaceWithLink(src, dst string) error {
	tmp := tempPath(dst)

	if err := os.Link(src, tmp); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("hardlink %q -> %q: %w", src, tmp, err)
	}

	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %q -> %q: %w", tmp, dst, err)
	}

	return nil
}

// tempPath builds a unique temporary name in dst's own directory, so the
// rename never crosses a filesystem boundary.
func tempPath(dst string) string {
	name := fmt.Sprintf(".dupesweep-%d-%d.tmp", os.Getpid(), tempSeq.Add(1))
	return filepath.Join(filepath.Dir(dst), name)
}
