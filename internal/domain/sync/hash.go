package sync

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/felixgeelhaar/plm/internal/ports"
)

// maxHashDepth bounds directory recursion while hashing.
const maxHashDepth = 64

// Hasher computes content digests for placed components.
type Hasher struct {
	fs ports.FileSystem
}

// NewHasher creates a Hasher reading through fs.
func NewHasher(fs ports.FileSystem) *Hasher {
	return &Hasher{fs: fs}
}

// Hash returns the SHA-256 of a file's bytes. For a directory it returns
// the SHA-256 of a manifest listing "relative/path\x00filehash\n" for
// every file, sorted by path, so two trees are equal iff their manifests
// are.
func (h *Hasher) Hash(p string) (string, error) {
	if !h.fs.IsDir(p) {
		return h.fs.FileHash(p)
	}

	var lines []string
	if err := h.walk(p, "", 0, &lines); err != nil {
		return "", err
	}
	sort.Strings(lines)

	sum := sha256.Sum256([]byte(strings.Join(lines, "")))
	return hex.EncodeToString(sum[:]), nil
}

func (h *Hasher) walk(dir, rel string, depth int, lines *[]string) error {
	if depth > maxHashDepth {
		return ports.NewIOError("hash", dir, fmt.Errorf("directory nesting exceeds %d levels", maxHashDepth))
	}
	entries, err := h.fs.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		childRel := path.Join(rel, e.Name)
		child := filepath.Join(dir, e.Name)
		if e.IsDir {
			if err := h.walk(child, childRel, depth+1, lines); err != nil {
				return err
			}
			continue
		}
		sum, err := h.fs.FileHash(child)
		if err != nil {
			return err
		}
		*lines = append(*lines, childRel+"\x00"+sum+"\n")
	}
	return nil
}

// Equal reports whether a and b have the same content hash. Any read
// error counts as a difference.
func (h *Hasher) Equal(a, b string) bool {
	ha, err := h.Hash(a)
	if err != nil {
		return false
	}
	hb, err := h.Hash(b)
	if err != nil {
		return false
	}
	return ha == hb
}
