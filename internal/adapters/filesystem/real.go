// Package filesystem provides file system adapters.
package filesystem

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/plm/internal/ports"
)

// maxCopyDepth bounds CopyDir recursion.
const maxCopyDepth = 64

// RealFileSystem implements ports.FileSystem using actual file system operations.
type RealFileSystem struct{}

// NewRealFileSystem creates a new RealFileSystem.
func NewRealFileSystem() *RealFileSystem {
	return &RealFileSystem{}
}

// ReadFile reads a file and returns its contents.
func (fs *RealFileSystem) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ports.NewIOError("read", path, err)
	}
	return data, nil
}

// WriteFile writes data to a file.
func (fs *RealFileSystem) WriteFile(path string, data []byte, perm os.FileMode) error {
	if err := os.WriteFile(path, data, perm); err != nil {
		return ports.NewIOError("write", path, err)
	}
	return nil
}

// Exists checks if a file, directory or link exists.
func (fs *RealFileSystem) Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// IsDir checks if a path is a directory.
func (fs *RealFileSystem) IsDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// ReadDir lists the direct children of a directory.
func (fs *RealFileSystem) ReadDir(path string) ([]ports.DirEntry, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, ports.NewIOError("readdir", path, err)
	}

	result := make([]ports.DirEntry, 0, len(entries))
	for _, e := range entries {
		isDir := e.IsDir()
		if e.Type()&os.ModeSymlink != 0 {
			isDir = fs.IsDir(filepath.Join(path, e.Name()))
		}
		result = append(result, ports.DirEntry{Name: e.Name(), IsDir: isDir})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// MkdirAll creates a directory and all necessary parents.
func (fs *RealFileSystem) MkdirAll(path string, perm os.FileMode) error {
	if err := os.MkdirAll(path, perm); err != nil {
		return ports.NewIOError("mkdir", path, err)
	}
	return nil
}

// CopyFile copies a file from src to dest, keeping the source permissions
// plus owner write. The content is written to a hidden sibling and renamed
// over dest, so a read-only destination can still be replaced.
func (fs *RealFileSystem) CopyFile(src, dest string) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ports.NewIOError("mkdir", dir, err)
	}

	in, err := os.Open(src)
	if err != nil {
		return ports.NewIOError("open", src, err)
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return ports.NewIOError("stat", src, err)
	}
	if info.IsDir() {
		return ports.NewIOError("copy", src, fmt.Errorf("is a directory"))
	}

	perm := info.Mode().Perm() | 0o200
	tmp := filepath.Join(dir, "."+filepath.Base(dest)+".tmp-"+uuid.NewString())
	out, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return ports.NewIOError("create", dest, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return ports.NewIOError("copy", dest, err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return ports.NewIOError("close", dest, err)
	}
	// The umask may have dropped bits from the create mode.
	if err := os.Chmod(tmp, perm); err != nil {
		_ = os.Remove(tmp)
		return ports.NewIOError("chmod", dest, err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp)
		return ports.NewIOError("rename", dest, err)
	}
	return nil
}

// CopyDir copies the tree rooted at src into dest.
func (fs *RealFileSystem) CopyDir(src, dest string) error {
	return fs.copyDir(src, dest, 0)
}

func (fs *RealFileSystem) copyDir(src, dest string, depth int) error {
	if depth > maxCopyDepth {
		return ports.NewIOError("copy", src, fmt.Errorf("directory nesting exceeds %d levels", maxCopyDepth))
	}

	info, err := os.Stat(src)
	if err != nil {
		return ports.NewIOError("stat", src, err)
	}
	if !info.IsDir() {
		return ports.NewIOError("copy", src, fmt.Errorf("not a directory"))
	}
	if err := os.MkdirAll(dest, info.Mode().Perm()|0o700); err != nil {
		return ports.NewIOError("mkdir", dest, err)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return ports.NewIOError("readdir", src, err)
	}

	for _, e := range entries {
		from := filepath.Join(src, e.Name())
		to := filepath.Join(dest, e.Name())

		switch {
		case e.IsDir():
			if err := fs.copyDir(from, to, depth+1); err != nil {
				return err
			}
		case e.Type()&os.ModeSymlink != 0:
			// Linked directories are not followed.
			if fs.IsDir(from) {
				continue
			}
			if err := fs.CopyFile(from, to); err != nil {
				return err
			}
		default:
			if err := fs.CopyFile(from, to); err != nil {
				return err
			}
		}
	}
	return nil
}

// Remove removes a file or empty directory.
func (fs *RealFileSystem) Remove(path string) error {
	if err := os.Remove(path); err != nil {
		return ports.NewIOError("remove", path, err)
	}
	return nil
}

// RemoveAll removes path and everything below it.
func (fs *RealFileSystem) RemoveAll(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return ports.NewIOError("remove", path, err)
	}
	return nil
}

// Rename renames (moves) a file or directory.
func (fs *RealFileSystem) Rename(oldPath, newPath string) error {
	if err := os.Rename(oldPath, newPath); err != nil {
		return ports.NewIOError("rename", oldPath, err)
	}
	return nil
}

// FileHash returns a SHA256 hash of a file's contents.
func (fs *RealFileSystem) FileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", ports.NewIOError("open", path, err)
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", ports.NewIOError("hash", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Ensure RealFileSystem implements ports.FileSystem.
var _ ports.FileSystem = (*RealFileSystem)(nil)
