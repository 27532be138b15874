package placement

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePlacement(t *testing.T) {
	t.Parallel()

	tests := []struct {
		entry  string
		mp     string
		plugin string
		ok     bool
	}{
		{entry: "github/demo/review", mp: "github", plugin: "demo", ok: true},
		{entry: "team/demo/nested/name", mp: "team", plugin: "demo", ok: true},
		{entry: "team/demo", mp: "team", plugin: "demo", ok: true},
		{entry: "AGENTS.md"},
		{entry: "/demo/review"},
		{entry: "github//review"},
		{entry: ""},
	}

	for _, tt := range tests {
		t.Run(tt.entry, func(t *testing.T) {
			t.Parallel()

			mp, plugin, ok := ParsePlacement(tt.entry)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.mp, mp)
			assert.Equal(t, tt.plugin, plugin)
		})
	}
}

func TestParsePlacedEntry(t *testing.T) {
	t.Parallel()

	origin, name, ok := ParsePlacedEntry("github/demo/my-skill")
	assert.True(t, ok)
	assert.Equal(t, MarketplaceOrigin("github", "demo"), origin)
	assert.Equal(t, "my-skill", name)

	origin, name, ok = ParsePlacedEntry("copilot-instructions.md")
	assert.False(t, ok)
	assert.True(t, origin.IsZero())
	assert.Equal(t, "copilot-instructions.md", name)

	_, name, ok = ParsePlacedEntry("github/demo")
	assert.False(t, ok)
	assert.Equal(t, "github/demo", name)
}

func TestLocation(t *testing.T) {
	t.Parallel()

	assert.True(t, Dir("/a").IsDir())
	assert.False(t, File("/a").IsDir())
	assert.Equal(t, "file:/a", File("/a").String())
}
