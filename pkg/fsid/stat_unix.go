//go:build !windows

package fsid

import (
	"fmt"
	"os"
	"syscall"
)

// FromFileInfo extracts the file identifier and link info from an already
// obtained FileInfo, avoiding a second stat call.
func FromFileInfo(fi os.FileInfo) (FileID, Info, bool) {
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok || st == nil {
		return FileID{}, Info{}, false
	}

	id := FileID{
		Device: uint64(st.Dev),
		Inode:  uint64(st.Ino),
	}

	return id, Info{
		Nlink:   uint64(st.Nlink),
		Blksize: uint64(st.Blksize),
		Size:    fi.Size(),
	}, true
}

// Stat returns the unique file identifier and link info for a path.
// Symlinks are not followed.
func Stat(path string) (FileID, Info, error) {
	fi, err := os.Lstat(path)
	if err != nil {
		return FileID{}, Info{}, fmt.Errorf("lstat file: %w", err)
	}

	id, info, ok := FromFileInfo(fi)
	if !ok {
		return FileID{}, Info{}, fmt.Errorf("no stat info for %s", path)
	}

	return id, info, nil
}
