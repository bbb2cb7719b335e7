// Package fsid resolves filesystem identity: the (device, inode) pair that
// makes every hardlink of a file the same file.
package fsid

import "fmt"

// FileID represents a unique file identifier (device ID + inode number).
type FileID struct {
	Device uint64 // Device ID
	Inode  uint64 // Inode number
}

// String returns a string representation of the FileID.
func (f FileID) String() string {
	return fmt.Sprintf("%d:%d", f.Device, f.Inode)
}

// Equal checks if two FileIDs are equal.
func (f FileID) Equal(other FileID) bool {
	return f.Device == other.Device && f.Inode == other.Inode
}

// Info carries the per-inode metadata the scanner needs beyond identity.
type Info struct {
	Nlink   uint64 // hardlink count
	Blksize uint64 // preferred I/O block size
	Size    int64
}
