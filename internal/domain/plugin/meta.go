package plugin

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	"github.com/felixgeelhaar/plm/internal/ports"
)

// MetaFile holds plm's own bookkeeping next to an unmodified plugin.json.
const MetaFile = ".plm-meta.json"

// Meta is plm's per-plugin metadata.
type Meta struct {
	// InstalledAt is an RFC 3339 timestamp.
	InstalledAt string `json:"installedAt,omitempty"`
}

// WriteMeta stores meta in dir.
func WriteMeta(fs ports.FileSystem, dir string, meta Meta) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return fs.WriteFile(filepath.Join(dir, MetaFile), append(data, '\n'), 0o644)
}

// ReadMeta loads the metadata of dir. A missing or corrupt file yields
// false.
func ReadMeta(fs ports.FileSystem, dir string) (Meta, bool) {
	data, err := fs.ReadFile(filepath.Join(dir, MetaFile))
	if err != nil {
		return Meta{}, false
	}
	var meta Meta
	if err := json.Unmarshal(data, &meta); err != nil {
		return Meta{}, false
	}
	meta.InstalledAt = strings.TrimSpace(meta.InstalledAt)
	return meta, true
}

func installedNow(now time.Time) Meta {
	return Meta{InstalledAt: now.UTC().Format(time.RFC3339)}
}
