package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/plm/internal/domain/component"
	"github.com/felixgeelhaar/plm/internal/domain/plugin"
	"github.com/felixgeelhaar/plm/internal/testutil/mocks"
)

func TestPluginBuilder_AddTo(t *testing.T) {
	t.Parallel()

	mfs := mocks.NewFileSystem()
	dir := NewPluginBuilder("demo").
		WithVersion("2.1.0").
		WithDescription("Demo").
		WithSkill("greet", "hi").
		WithAgent("review", "r").
		WithCommand("deploy", "d").
		WithInstructions("rules").
		WithHook("pre", "h").
		AddTo(mfs, "/src/demo")

	m, err := plugin.LoadManifest(mfs, dir)
	require.NoError(t, err)
	assert.Equal(t, "demo", m.Name)
	assert.Equal(t, "2.1.0", m.Version)
	assert.Equal(t, "Demo", m.Description)

	comps, err := component.NewScanner(mfs).Scan(m.Layout(dir))
	require.NoError(t, err)
	assert.Len(t, comps, 5)
	assert.Equal(t, "hi", mfs.Content("/src/demo/skills/greet/SKILL.md"))
}

func TestPluginBuilder_WriteDir(t *testing.T) {
	t.Parallel()

	dir := NewPluginBuilder("demo").
		WithManifestField("skills", "./custom").
		WithFile("custom/s/SKILL.md", "x").
		WriteDir(t, t.TempDir())

	AssertFileExists(t, filepath.Join(dir, ".claude-plugin", "plugin.json"))
	AssertFileEquals(t, filepath.Join(dir, "custom", "s", "SKILL.md"), "x")
	AssertDirExists(t, filepath.Join(dir, "custom"))
	AssertNotExists(t, filepath.Join(dir, "skills"))
}

func TestAssertYAMLEquals(t *testing.T) {
	t.Parallel()

	AssertYAMLEquals(t, "targets: [codex, copilot]\n", "targets:\n  - codex\n  - copilot\n")
}
