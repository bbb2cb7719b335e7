package paths

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charlievieth/fastwalk"

	"github.com/dupesweep/dupesweep/pkg/logger"
)

/* Structs */

type Path struct {
	Path         string
	FileName     string
	Directory    string
	IsDir        bool
	Size         int64
	ModifiedTime time.Time
}

/* Vars */

var (
	log = logger.GetLogger("paths")
)

/* Public */

// InFolder walks a folder concurrently and returns the contained paths and
// their total size. Symlinks are not followed. Unreadable entries are logged
// and skipped.
func InFolder(folder string, includeFiles bool, includeFolders bool) ([]Path, uint64) {
	var (
		paths []Path
		size  uint64
		mu    sync.Mutex
	)

	conf := fastwalk.Config{
		Follow: false,
	}

	err := fastwalk.Walk(&conf, folder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.WithError(err).Warnf("Failed walking %q", path)
			return nil
		}

		if path == folder {
			return nil
		}

		if d.IsDir() && !includeFolders {
			return nil
		}
		if !d.IsDir() && !includeFiles {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			log.WithError(err).Warnf("Failed to get file info for %q", path)
			return nil
		}

		found := Path{
			Path:         path,
			FileName:     info.Name(),
			Directory:    filepath.Dir(path),
			IsDir:        d.IsDir(),
			Size:         info.Size(),
			ModifiedTime: info.ModTime(),
		}

		mu.Lock()
		paths = append(paths, found)
		if !d.IsDir() {
			size += uint64(info.Size())
		}
		mu.Unlock()

		return nil
	})
	if err != nil {
		log.WithError(err).Errorf("Failed to retrieve paths from %q", folder)
	}

	return paths, size
}

// IsIgnored checks whether path sits under any of the ignore prefixes.
func IsIgnored(path string, ignorePaths []string) bool {
	for _, prefix := range ignorePaths {
		if prefix == "" {
			continue
		}
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// IsDirEmpty reports whether a directory has no entries.
func IsDirEmpty(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	_, err = f.Readdirnames(1)
	if errors.Is(err, io.EOF) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}
