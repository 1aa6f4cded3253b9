package local

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/amirbrooks/nextaction/internal/fileutil"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrOutOfRange = errors.New("line out of range")
	ErrInvalid    = errors.New("invalid")
)

// FileSystem is the whole-file I/O the parser, scanner and mutator need.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
	Exists(path string) bool
}

// OSFileSystem reads and writes the real file system. Writes go through a
// temp file and rename onto the symlink target, keeping the target's mode.
type OSFileSystem struct{}

func (OSFileSystem) ReadFile(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return nil, err
	}
	return b, nil
}

func (OSFileSystem) WriteFile(path string, data []byte) error {
	perm := fs.FileMode(0o644)
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
		if info, err := os.Stat(path); err == nil {
			perm = info.Mode().Perm()
		}
	}
	return fileutil.AtomicWriteFile(path, data, perm)
}

func (OSFileSystem) Exists(path string) bool {
	return fileutil.Exists(path)
}
