// Package plugin loads plugin manifests and manages the local plugin cache.
package plugin

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/felixgeelhaar/plm/internal/domain/component"
	"github.com/felixgeelhaar/plm/internal/ports"
)

// maxManifestSize limits plugin.json to 256KB.
const maxManifestSize = 256 * 1024

// ManifestFile is the manifest file name.
const ManifestFile = "plugin.json"

// ManifestPaths are the manifest locations inside a plugin directory, in
// lookup order.
var ManifestPaths = []string{
	filepath.Join(".claude-plugin", ManifestFile),
	ManifestFile,
}

// Author identifies a plugin author.
type Author struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	URL   string `json:"url,omitempty"`
}

// Manifest is the content of plugin.json. Component paths are relative to
// the plugin directory and replace the conventional locations when set.
type Manifest struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description,omitempty"`
	Author      *Author  `json:"author,omitempty"`
	Homepage    string   `json:"homepage,omitempty"`
	Repository  string   `json:"repository,omitempty"`
	License     string   `json:"license,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`

	Commands     string `json:"commands,omitempty"`
	Agents       string `json:"agents,omitempty"`
	Skills       string `json:"skills,omitempty"`
	Instructions string `json:"instructions,omitempty"`
	Hooks        string `json:"hooks,omitempty"`
}

// ParseManifest decodes and validates plugin.json content.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ManifestFile, err)
	}
	if err := ValidateManifest(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ValidateManifest checks required fields and component path overrides.
func ValidateManifest(m *Manifest) error {
	ve := &ValidationError{}

	if m.Name == "" {
		ve.Add(`name is required. Example: "name": "my-plugin"`)
	} else if err := ValidateName(m.Name); err != nil {
		ve.Add(err.Error())
	}

	if m.Version == "" {
		ve.Add(`version is required. Example: "version": "1.0.0"`)
	} else if !semver.IsValid(CanonicalVersion(m.Version)) {
		ve.Addf("version %q is not valid semantic versioning. Examples: 1.0.0, 1.2.3-beta.1", m.Version)
	}

	overrides := []struct{ field, path string }{
		{"skills", m.Skills},
		{"agents", m.Agents},
		{"commands", m.Commands},
		{"instructions", m.Instructions},
		{"hooks", m.Hooks},
	}
	for _, o := range overrides {
		if o.path != "" && !filepath.IsLocal(filepath.FromSlash(strings.TrimPrefix(o.path, "./"))) {
			ve.Addf("%s path %q must stay inside the plugin directory", o.field, o.path)
		}
	}

	if ve.HasErrors() {
		return ve
	}
	return nil
}

// ValidateName checks that name is usable as a single directory name.
func ValidateName(name string) error {
	if name == "" {
		return ErrEmptyPluginName
	}
	if len(name) > 64 {
		return fmt.Errorf("plugin name %q is too long (maximum 64 characters)", name)
	}
	if name == "." || name == ".." || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "-") {
		return &PathTraversalError{Path: name}
	}
	for i, c := range name {
		isLetter := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		isDigit := c >= '0' && c <= '9'
		isAllowedSpecial := c == '-' || c == '_' || c == '.'
		if !isLetter && !isDigit && !isAllowedSpecial {
			return fmt.Errorf("plugin name %q contains invalid character %q at position %d (only letters, numbers, dots, hyphens, and underscores allowed)", name, c, i)
		}
	}
	return nil
}

// CanonicalVersion adds the "v" prefix x/mod/semver expects.
func CanonicalVersion(v string) string {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, "v") || strings.HasPrefix(v, "V") {
		return "v" + v[1:]
	}
	return "v" + v
}

// CompareVersions returns -1, 0 or +1 as a is older, equal or newer than b.
// Invalid versions sort before valid ones.
func CompareVersions(a, b string) int {
	return semver.Compare(CanonicalVersion(a), CanonicalVersion(b))
}

// Layout returns the component layout of a plugin rooted at dir, applying
// the manifest's path overrides.
func (m *Manifest) Layout(dir string) component.Layout {
	layout := component.DefaultLayout(dir)
	override := func(p string, fallback *string) {
		if p != "" {
			*fallback = filepath.Join(dir, filepath.FromSlash(p))
		}
	}
	override(m.Skills, &layout.Skills)
	override(m.Agents, &layout.Agents)
	override(m.Commands, &layout.Commands)
	override(m.Hooks, &layout.Hooks)
	override(m.Instructions, &layout.InstructionsFile)
	return layout
}

// FindManifest returns the manifest path inside dir, or false when none of
// ManifestPaths exists.
func FindManifest(fs ports.FileSystem, dir string) (string, bool) {
	for _, candidate := range ManifestPaths {
		p := filepath.Join(dir, candidate)
		if fs.Exists(p) && !fs.IsDir(p) {
			return p, true
		}
	}
	return "", false
}

// LoadManifest reads and validates the manifest of the plugin at dir.
func LoadManifest(fs ports.FileSystem, dir string) (*Manifest, error) {
	path, ok := FindManifest(fs, dir)
	if !ok {
		return nil, &ManifestError{Path: filepath.Join(dir, ManifestPaths[0]), Err: fmt.Errorf("%s not found", ManifestFile)}
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, &ManifestError{Path: path, Err: err}
	}
	if len(data) > maxManifestSize {
		return nil, &ManifestError{Path: path, Err: fmt.Errorf("manifest size %d bytes exceeds limit of %d bytes", len(data), maxManifestSize)}
	}

	m, err := ParseManifest(data)
	if err != nil {
		return nil, &ManifestError{Path: path, Err: err}
	}
	return m, nil
}
