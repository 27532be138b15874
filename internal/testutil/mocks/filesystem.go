package mocks

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/felixgeelhaar/plm/internal/ports"
)

// FileSystem is a thread-safe, memory-backed test double for ports.FileSystem.
// Adding a file implicitly creates all of its parent directories.
type FileSystem struct {
	mu       sync.RWMutex
	files    map[string][]byte
	dirs     map[string]bool
	failures map[string]error
	calls    []string
}

// NewFileSystem creates a new FileSystem mock.
func NewFileSystem() *FileSystem {
	return &FileSystem{
		files:    make(map[string][]byte),
		dirs:     map[string]bool{string(filepath.Separator): true},
		failures: make(map[string]error),
	}
}

// AddFile adds a file to the mock filesystem.
func (m *FileSystem) AddFile(path string, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putFile(filepath.Clean(path), []byte(content))
}

// AddDir adds a directory and its parents to the mock filesystem.
func (m *FileSystem) AddDir(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putDir(filepath.Clean(path))
}

// FailOn makes the operation op on path return err. Operations are named
// copy, copydir, write, remove, rename, mkdir, read and hash.
func (m *FileSystem) FailOn(op, path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[op+":"+filepath.Clean(path)] = err
}

// Calls returns the mutating operations performed so far as "op path".
func (m *FileSystem) Calls() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.calls...)
}

// Content returns the content of a file, or "" when absent.
func (m *FileSystem) Content(path string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return string(m.files[filepath.Clean(path)])
}

// Paths returns every file and directory path in sorted order.
func (m *FileSystem) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	paths := make([]string, 0, len(m.files)+len(m.dirs))
	for p := range m.files {
		paths = append(paths, p)
	}
	for p := range m.dirs {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Files returns every file path in sorted order.
func (m *FileSystem) Files() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Reset clears all files, directories and injected failures.
func (m *FileSystem) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files = make(map[string][]byte)
	m.dirs = map[string]bool{string(filepath.Separator): true}
	m.failures = make(map[string]error)
	m.calls = nil
}

// ReadFile reads a file from the mock filesystem.
func (m *FileSystem) ReadFile(path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	path = filepath.Clean(path)
	if err := m.failure("read", path); err != nil {
		return nil, err
	}
	content, ok := m.files[path]
	if !ok {
		return nil, ports.NewIOError("read", path, fs.ErrNotExist)
	}
	return append([]byte(nil), content...), nil
}

// WriteFile writes a file to the mock filesystem.
func (m *FileSystem) WriteFile(path string, data []byte, _ os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	m.record("write", path)
	if err := m.failure("write", path); err != nil {
		return err
	}
	m.putFile(path, append([]byte(nil), data...))
	return nil
}

// Exists checks if a file or directory exists in the mock filesystem.
func (m *FileSystem) Exists(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	path = filepath.Clean(path)
	_, isFile := m.files[path]
	return isFile || m.dirs[path]
}

// IsDir checks if a path is a directory in the mock filesystem.
func (m *FileSystem) IsDir(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dirs[filepath.Clean(path)]
}

// ReadDir lists the direct children of a directory.
func (m *FileSystem) ReadDir(path string) ([]ports.DirEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	path = filepath.Clean(path)
	if !m.dirs[path] {
		return nil, ports.NewIOError("readdir", path, fs.ErrNotExist)
	}

	var entries []ports.DirEntry
	for p := range m.files {
		if filepath.Dir(p) == path && p != path {
			entries = append(entries, ports.DirEntry{Name: filepath.Base(p)})
		}
	}
	for p := range m.dirs {
		if filepath.Dir(p) == path && p != path {
			entries = append(entries, ports.DirEntry{Name: filepath.Base(p), IsDir: true})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// MkdirAll creates a directory in the mock filesystem.
func (m *FileSystem) MkdirAll(path string, _ os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	if err := m.failure("mkdir", path); err != nil {
		return err
	}
	m.putDir(path)
	return nil
}

// CopyFile copies a file in the mock filesystem, creating parents.
func (m *FileSystem) CopyFile(src, dest string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	src, dest = filepath.Clean(src), filepath.Clean(dest)
	m.record("copy", dest)
	if err := m.failure("copy", dest); err != nil {
		return err
	}
	content, ok := m.files[src]
	if !ok {
		return ports.NewIOError("copy", src, fs.ErrNotExist)
	}
	if m.dirs[dest] {
		return ports.NewIOError("copy", dest, fmt.Errorf("is a directory"))
	}
	m.putFile(dest, append([]byte(nil), content...))
	return nil
}

// CopyDir copies a directory tree in the mock filesystem.
func (m *FileSystem) CopyDir(src, dest string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	src, dest = filepath.Clean(src), filepath.Clean(dest)
	m.record("copydir", dest)
	if err := m.failure("copydir", dest); err != nil {
		return err
	}
	if !m.dirs[src] {
		return ports.NewIOError("copy", src, fs.ErrNotExist)
	}

	m.putDir(dest)
	for p := range m.dirs {
		if rel, ok := under(p, src); ok {
			m.putDir(filepath.Join(dest, rel))
		}
	}
	for p, content := range m.files {
		if rel, ok := under(p, src); ok {
			m.putFile(filepath.Join(dest, rel), append([]byte(nil), content...))
		}
	}
	return nil
}

// Remove removes a file or empty directory.
func (m *FileSystem) Remove(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	m.record("remove", path)
	if err := m.failure("remove", path); err != nil {
		return err
	}
	if _, ok := m.files[path]; ok {
		delete(m.files, path)
		return nil
	}
	if !m.dirs[path] {
		return ports.NewIOError("remove", path, fs.ErrNotExist)
	}
	for p := range m.files {
		if _, ok := under(p, path); ok {
			return ports.NewIOError("remove", path, fmt.Errorf("directory not empty"))
		}
	}
	for p := range m.dirs {
		if _, ok := under(p, path); ok {
			return ports.NewIOError("remove", path, fmt.Errorf("directory not empty"))
		}
	}
	delete(m.dirs, path)
	return nil
}

// RemoveAll removes a path and everything below it.
func (m *FileSystem) RemoveAll(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	m.record("remove", path)
	if err := m.failure("remove", path); err != nil {
		return err
	}
	m.removeTree(path)
	return nil
}

// Rename moves a file or directory tree in the mock filesystem.
func (m *FileSystem) Rename(oldPath, newPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	oldPath, newPath = filepath.Clean(oldPath), filepath.Clean(newPath)
	m.record("rename", newPath)
	if err := m.failure("rename", newPath); err != nil {
		return err
	}

	if content, ok := m.files[oldPath]; ok {
		m.removeTree(newPath)
		delete(m.files, oldPath)
		m.putFile(newPath, content)
		return nil
	}
	if !m.dirs[oldPath] {
		return ports.NewIOError("rename", oldPath, fs.ErrNotExist)
	}

	m.removeTree(newPath)
	files := make(map[string][]byte)
	dirs := []string{newPath}
	for p, content := range m.files {
		if rel, ok := under(p, oldPath); ok {
			files[filepath.Join(newPath, rel)] = content
		}
	}
	for p := range m.dirs {
		if rel, ok := under(p, oldPath); ok {
			dirs = append(dirs, filepath.Join(newPath, rel))
		}
	}
	m.removeTree(oldPath)
	for _, d := range dirs {
		m.putDir(d)
	}
	for p, content := range files {
		m.putFile(p, content)
	}
	return nil
}

// FileHash returns the SHA-256 hash of a file in the mock filesystem.
func (m *FileSystem) FileHash(path string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	path = filepath.Clean(path)
	if err := m.failure("hash", path); err != nil {
		return "", err
	}
	content, ok := m.files[path]
	if !ok {
		return "", ports.NewIOError("hash", path, fs.ErrNotExist)
	}
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:]), nil
}

func (m *FileSystem) putFile(path string, content []byte) {
	m.putDir(filepath.Dir(path))
	m.files[path] = content
}

func (m *FileSystem) putDir(path string) {
	for {
		m.dirs[path] = true
		parent := filepath.Dir(path)
		if parent == path {
			return
		}
		path = parent
	}
}

func (m *FileSystem) removeTree(path string) {
	delete(m.files, path)
	delete(m.dirs, path)
	for p := range m.files {
		if _, ok := under(p, path); ok {
			delete(m.files, p)
		}
	}
	for p := range m.dirs {
		if _, ok := under(p, path); ok {
			delete(m.dirs, p)
		}
	}
}

func (m *FileSystem) failure(op, path string) error {
	if err, ok := m.failures[op+":"+path]; ok {
		return ports.NewIOError(op, path, err)
	}
	return nil
}

func (m *FileSystem) record(op, path string) {
	m.calls = append(m.calls, op+" "+path)
}

// under reports whether p lies strictly below root and returns the relative path.
func under(p, root string) (string, bool) {
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	if !strings.HasPrefix(p, prefix) {
		return "", false
	}
	return p[len(prefix):], true
}

// Ensure FileSystem implements ports.FileSystem.
var _ ports.FileSystem = (*FileSystem)(nil)
