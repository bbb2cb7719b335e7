//go:build debug

package scanner

import (
	"fmt"

	"github.com/dupesweep/dupesweep/pkg/fsid"
)

// Merge invariant checks, active only under the debug build tag. Violations
// are logic errors in the scanner, not user-facing failures.

func assertDistinctPaths(src, dst string) {
	if src == dst {
		panic(fmt.Sprintf("merge source and destination are the same path: %q", src))
	}
}

func assertDistinctInodes(src, dst string) {
	srcID, _, err := fsid.Stat(src)
	if err != nil {
		return
	}
	dstID, _, err := fsid.Stat(dst)
	if err != nil {
		return
	}
	if srcID.Equal(dstID) {
		panic(fmt.Sprintf("merge source %q and destination %q share inode %s", src, dst, srcID))
	}
}
