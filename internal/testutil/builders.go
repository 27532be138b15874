package testutil

import (
	"encoding/json"
	"path"
	"sort"
	"testing"

	"github.com/felixgeelhaar/plm/internal/testutil/mocks"
)

// PluginBuilder builds a plugin directory: a manifest plus component files.
type PluginBuilder struct {
	manifest map[string]any
	files    map[string]string
}

// NewPluginBuilder creates a builder for a plugin at version 1.0.0 whose
// manifest lives at .claude-plugin/plugin.json.
func NewPluginBuilder(name string) *PluginBuilder {
	return &PluginBuilder{
		manifest: map[string]any{"name": name, "version": "1.0.0"},
		files:    make(map[string]string),
	}
}

// WithVersion sets the manifest version.
func (b *PluginBuilder) WithVersion(version string) *PluginBuilder {
	b.manifest["version"] = version
	return b
}

// WithDescription sets the manifest description.
func (b *PluginBuilder) WithDescription(description string) *PluginBuilder {
	b.manifest["description"] = description
	return b
}

// WithManifestField sets an arbitrary manifest field, such as a
// component path override.
func (b *PluginBuilder) WithManifestField(key string, value any) *PluginBuilder {
	b.manifest[key] = value
	return b
}

// WithSkill adds skills/<name>/SKILL.md.
func (b *PluginBuilder) WithSkill(name, body string) *PluginBuilder {
	return b.WithFile(path.Join("skills", name, "SKILL.md"), body)
}

// WithAgent adds agents/<name>.agent.md.
func (b *PluginBuilder) WithAgent(name, body string) *PluginBuilder {
	return b.WithFile(path.Join("agents", name+".agent.md"), body)
}

// WithCommand adds commands/<name>.prompt.md.
func (b *PluginBuilder) WithCommand(name, body string) *PluginBuilder {
	return b.WithFile(path.Join("commands", name+".prompt.md"), body)
}

// WithInstructions adds instructions.md.
func (b *PluginBuilder) WithInstructions(body string) *PluginBuilder {
	return b.WithFile("instructions.md", body)
}

// WithHook adds hooks/<name>.md.
func (b *PluginBuilder) WithHook(name, body string) *PluginBuilder {
	return b.WithFile(path.Join("hooks", name+".md"), body)
}

// WithFile adds a file at a slash-separated path relative to the plugin.
func (b *PluginBuilder) WithFile(rel, content string) *PluginBuilder {
	b.files[rel] = content
	return b
}

// Manifest returns the plugin.json content.
func (b *PluginBuilder) Manifest() string {
	data, err := json.MarshalIndent(b.manifest, "", "  ")
	if err != nil {
		panic(err)
	}
	return string(data)
}

// Files returns every file of the plugin keyed by relative path, sorted.
func (b *PluginBuilder) Files() [][2]string {
	out := [][2]string{{".claude-plugin/plugin.json", b.Manifest()}}
	rels := make([]string, 0, len(b.files))
	for rel := range b.files {
		rels = append(rels, rel)
	}
	sort.Strings(rels)
	for _, rel := range rels {
		out = append(out, [2]string{rel, b.files[rel]})
	}
	return out
}

// AddTo writes the plugin into a mock filesystem at dir and returns dir.
func (b *PluginBuilder) AddTo(m *mocks.FileSystem, dir string) string {
	for _, f := range b.Files() {
		m.AddFile(path.Join(dir, f[0]), f[1])
	}
	return dir
}

// WriteDir writes the plugin to dir on disk and returns dir.
func (b *PluginBuilder) WriteDir(t testing.TB, dir string) string {
	t.Helper()
	for _, f := range b.Files() {
		WriteTempFile(t, dir, f[0], f[1])
	}
	return dir
}
