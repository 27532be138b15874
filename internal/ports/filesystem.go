package ports

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DirEntry is a single child returned by FileSystem.ReadDir.
type DirEntry struct {
	Name  string
	IsDir bool
}

// FileSystem provides the file system operations used by placement,
// deployment and sync. Every write performed by plm goes through it.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm os.FileMode) error
	Exists(path string) bool
	IsDir(path string) bool
	// ReadDir lists the direct children of path sorted by name.
	ReadDir(path string) ([]DirEntry, error)
	MkdirAll(path string, perm os.FileMode) error
	// CopyFile copies src to dest, creating dest's parent directories and
	// overwriting an existing file.
	CopyFile(src, dest string) error
	// CopyDir copies the tree rooted at src into dest, merging directories
	// and overwriting files.
	CopyDir(src, dest string) error
	Remove(path string) error
	RemoveAll(path string) error
	Rename(oldPath, newPath string) error
	// FileHash returns the hex SHA-256 digest of a file's contents.
	FileHash(path string) (string, error)
}

// IOError wraps a failed file system call with the operation and path.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates an IOError.
func NewIOError(op, path string, err error) *IOError {
	return &IOError{Op: op, Path: path, Err: err}
}

// IsIOError reports whether err is an IOError.
func IsIOError(err error) bool {
	var e *IOError
	return errors.As(err, &e)
}

// ExpandPath expands ~ to the given home directory.
func ExpandPath(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
