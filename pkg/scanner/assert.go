//go:build !debug

package scanner

// Merge invariant checks are compiled only into debug builds.

func assertDistinctPaths(src, dst string) {}

func assertDistinctInodes(src, dst string) {}
