package placement

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/plm/internal/ports"
)

// ScopedPath is an absolute path known to live under its root. The zero
// value is not valid; use NewScopedPath.
type ScopedPath struct {
	path string
	root string
}

// NewScopedPath validates candidate against root. Relative candidates are
// resolved against root. The path is normalized lexically and must stay
// under root; when it or one of its ancestors exists, symbolic links are
// resolved and containment is checked again against the resolved root.
func NewScopedPath(candidate, root string) (ScopedPath, error) {
	root = filepath.Clean(root)
	if !filepath.IsAbs(root) {
		abs, err := filepath.Abs(root)
		if err != nil {
			return ScopedPath{}, ports.NewIOError("abs", root, err)
		}
		root = abs
	}

	joined := candidate
	if !filepath.IsAbs(joined) {
		joined = filepath.Join(root, joined)
	}
	normalized := filepath.Clean(joined)

	if !within(normalized, root) {
		return ScopedPath{}, &PathEscapeError{Path: candidate, Root: root}
	}

	resolvedRoot, err := resolveExisting(root)
	if err != nil {
		return ScopedPath{}, err
	}
	resolved, err := resolveExisting(normalized)
	if err != nil {
		return ScopedPath{}, err
	}
	if !within(resolved, resolvedRoot) {
		return ScopedPath{}, &PathEscapeError{Path: candidate, Root: root, Resolved: resolved}
	}

	return ScopedPath{path: normalized, root: root}, nil
}

// Path returns the normalized path.
func (p ScopedPath) Path() string { return p.path }

// Root returns the root the path was validated against.
func (p ScopedPath) Root() string { return p.root }

func (p ScopedPath) String() string { return p.path }

// maxLinkHops bounds how many dangling links resolveExisting follows.
const maxLinkHops = 40

// resolveExisting resolves symbolic links in the longest existing prefix of
// path and re-appends the components that do not exist yet.
func resolveExisting(path string) (string, error) {
	return resolveHops(path, 0)
}

func resolveHops(path string, hops int) (string, error) {
	existing := path
	var tail []string
	for {
		if _, err := os.Lstat(existing); err == nil {
			break
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			return path, nil
		}
		tail = append(tail, filepath.Base(existing))
		existing = parent
	}

	resolved, err := filepath.EvalSymlinks(existing)
	if err != nil {
		// A dangling leaf link resolves to wherever it points.
		link, lerr := danglingTarget(existing)
		if lerr != nil || hops >= maxLinkHops {
			return "", ports.NewIOError("resolve", existing, err)
		}
		resolved, err = resolveHops(link, hops+1)
		if err != nil {
			return "", err
		}
	}
	for i := len(tail) - 1; i >= 0; i-- {
		resolved = filepath.Join(resolved, tail[i])
	}
	return resolved, nil
}

// danglingTarget returns the absolute target of the symbolic link at path.
func danglingTarget(path string) (string, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return "", err
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return "", os.ErrInvalid
	}
	target, err := os.Readlink(path)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(path), target)
	}
	return filepath.Clean(target), nil
}

func within(path, root string) bool {
	if path == root {
		return true
	}
	if filepath.Dir(root) == root {
		return strings.HasPrefix(path, root)
	}
	return strings.HasPrefix(path, root+string(filepath.Separator))
}
