package plugin

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/plm/internal/domain/component"
	"github.com/felixgeelhaar/plm/internal/domain/placement"
	"github.com/felixgeelhaar/plm/internal/ports"
)

// stagingDir holds partially copied plugins; hidden so List skips it.
const stagingDir = ".temp"

// Cache stores plugins as <dir>/<marketplace>/<name>. Plugins installed
// from GitHub live under the "github" marketplace directory.
type Cache struct {
	fs  ports.FileSystem
	dir string
	now func() time.Time
}

// NewCache creates a Cache rooted at dir.
func NewCache(fs ports.FileSystem, dir string) *Cache {
	return &Cache{fs: fs, dir: dir, now: time.Now}
}

// Dir returns the cache root.
func (c *Cache) Dir() string {
	return c.dir
}

// PluginPath returns where a plugin is cached.
func (c *Cache) PluginPath(marketplace, name string) string {
	if marketplace == "" {
		marketplace = placement.GitHubMarketplace
	}
	return filepath.Join(c.dir, marketplace, name)
}

// IsCached reports whether the plugin directory exists.
func (c *Cache) IsCached(marketplace, name string) bool {
	return c.fs.IsDir(c.PluginPath(marketplace, name))
}

// List returns every cached plugin sorted by marketplace then name.
// Hidden entries are skipped.
func (c *Cache) List() ([]Ref, error) {
	if !c.fs.IsDir(c.dir) {
		return nil, nil
	}
	marketplaces, err := c.fs.ReadDir(c.dir)
	if err != nil {
		return nil, err
	}

	var refs []Ref
	for _, mp := range marketplaces {
		if !mp.IsDir || strings.HasPrefix(mp.Name, ".") {
			continue
		}
		plugins, err := c.fs.ReadDir(filepath.Join(c.dir, mp.Name))
		if err != nil {
			return nil, err
		}
		marketplace := mp.Name
		if marketplace == placement.GitHubMarketplace {
			marketplace = ""
		}
		for _, p := range plugins {
			if !p.IsDir || strings.HasPrefix(p.Name, ".") {
				continue
			}
			refs = append(refs, Ref{Marketplace: marketplace, Name: p.Name})
		}
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Marketplace != refs[j].Marketplace {
			return refs[i].Marketplace < refs[j].Marketplace
		}
		return refs[i].Name < refs[j].Name
	})
	return refs, nil
}

// LoadManifest reads the manifest of a cached plugin.
func (c *Cache) LoadManifest(marketplace, name string) (*Manifest, error) {
	dir := c.PluginPath(marketplace, name)
	if !c.fs.IsDir(dir) {
		return nil, &NotFoundError{Name: name, Marketplace: marketplace, Path: dir}
	}
	return LoadManifest(c.fs, dir)
}

// Load reads a cached plugin and scans its components.
func (c *Cache) Load(marketplace, name string) (*Plugin, error) {
	m, err := c.LoadManifest(marketplace, name)
	if err != nil {
		return nil, err
	}
	dir := c.PluginPath(marketplace, name)
	comps, err := component.NewScanner(c.fs).Scan(m.Layout(dir))
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}

	p := &Plugin{
		Ref:        Ref{Marketplace: marketplace, Name: name},
		Path:       dir,
		Manifest:   m,
		Components: comps,
	}
	if meta, ok := ReadMeta(c.fs, dir); ok {
		p.InstalledAt = meta.InstalledAt
	}
	return p, nil
}

// Store copies the plugin at src into the cache, replacing any previous
// copy. The copy is staged under a hidden directory and renamed into place.
func (c *Cache) Store(marketplace, name, src string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	if marketplace != "" {
		if err := ValidateName(marketplace); err != nil {
			return "", err
		}
	}

	staging := filepath.Join(c.dir, stagingDir, uuid.NewString())
	if err := c.fs.CopyDir(src, staging); err != nil {
		_ = c.fs.RemoveAll(staging)
		return "", err
	}
	if err := WriteMeta(c.fs, staging, installedNow(c.now())); err != nil {
		_ = c.fs.RemoveAll(staging)
		return "", err
	}

	dest := c.PluginPath(marketplace, name)
	if err := c.fs.RemoveAll(dest); err != nil {
		_ = c.fs.RemoveAll(staging)
		return "", err
	}
	if err := c.fs.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		_ = c.fs.RemoveAll(staging)
		return "", err
	}
	if err := c.fs.Rename(staging, dest); err != nil {
		_ = c.fs.RemoveAll(staging)
		return "", err
	}
	return dest, nil
}

// Remove deletes a cached plugin. Removing an absent plugin is a no-op.
func (c *Cache) Remove(marketplace, name string) error {
	dir := c.PluginPath(marketplace, name)
	if !c.fs.Exists(dir) {
		return nil
	}
	return c.fs.RemoveAll(dir)
}
