package fsid

import (
	"fmt"
	"os"
	"syscall"
)

// defaultBlksize stands in for the preferred block size, which Windows does
// not report per file.
const defaultBlksize = 4096

// FromFileInfo cannot resolve identity from a FileInfo alone on Windows;
// callers fall back to Stat.
func FromFileInfo(_ os.FileInfo) (FileID, Info, bool) {
	return FileID{}, Info{}, false
}

// Stat returns the unique file identifier and link info for a path on Windows,
// using the volume serial number and file index as the identity pair.
func Stat(path string) (FileID, Info, error) {
	pathp, err := syscall.UTF16PtrFromString(path)
	if err != nil {
		return FileID{}, Info{}, fmt.Errorf("convert path to UTF16: %w", err)
	}

	fi, err := os.Lstat(path)
	if err != nil {
		return FileID{}, Info{}, fmt.Errorf("lstat file: %w", err)
	}

	attrs := uint32(syscall.FILE_FLAG_BACKUP_SEMANTICS)
	if fi.Mode()&os.ModeSymlink != 0 {
		// Use FILE_FLAG_OPEN_REPARSE_POINT, otherwise CreateFile will follow the symlink.
		attrs |= syscall.FILE_FLAG_OPEN_REPARSE_POINT
	}

	h, err := syscall.CreateFile(pathp, 0, 0, nil, syscall.OPEN_EXISTING, attrs, 0)
	if err != nil {
		return FileID{}, Info{}, fmt.Errorf("open file: %w", err)
	}
	defer syscall.CloseHandle(h)

	var info syscall.ByHandleFileInformation
	if err := syscall.GetFileInformationByHandle(h, &info); err != nil {
		return FileID{}, Info{}, fmt.Errorf("get file info: %w", err)
	}

	id := FileID{
		Device: uint64(info.VolumeSerialNumber),
		Inode:  (uint64(info.FileIndexHigh) << 32) | uint64(info.FileIndexLow),
	}

	return id, Info{
		Nlink:   uint64(info.NumberOfLinks),
		Blksize: defaultBlksize,
		Size:    fi.Size(),
	}, nil
}
