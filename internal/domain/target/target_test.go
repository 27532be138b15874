package target

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/plm/internal/domain/component"
	"github.com/felixgeelhaar/plm/internal/domain/placement"
	"github.com/felixgeelhaar/plm/internal/testutil/mocks"
)

var testRoots = placement.Roots{Home: "/home/dev", Project: "/proj"}

func ctxFor(kind component.Kind, scope component.Scope, name string) placement.Context {
	return placement.Context{
		Component: placement.ComponentRef{Kind: kind, Name: name},
		Origin:    placement.MarketplaceOrigin("github", "demo"),
		Scope:     scope,
		Roots:     testRoots,
	}
}

func mustTarget(t *testing.T, id ID) Target {
	t.Helper()
	tg, err := New(id, mocks.NewFileSystem())
	require.NoError(t, err)
	return tg
}

func TestPlacementLocation_Matrix(t *testing.T) {
	t.Parallel()

	const (
		personal = component.ScopePersonal
		project  = component.ScopeProject
	)

	tests := []struct {
		target ID
		kind   component.Kind
		scope  component.Scope
		want   placement.Location
		ok     bool
	}{
		{Codex, component.KindSkill, project, placement.Dir("/proj/.codex/skills/github/demo/x"), true},
		{Codex, component.KindSkill, personal, placement.Dir("/home/dev/.codex/skills/github/demo/x"), true},
		{Codex, component.KindAgent, project, placement.File("/proj/.codex/agents/github/demo/x.agent.md"), true},
		{Codex, component.KindAgent, personal, placement.File("/home/dev/.codex/agents/github/demo/x.agent.md"), true},
		{Codex, component.KindInstruction, project, placement.File("/proj/AGENTS.md"), true},
		{Codex, component.KindInstruction, personal, placement.File("/home/dev/.codex/AGENTS.md"), true},
		{Codex, component.KindCommand, project, placement.Location{}, false},
		{Codex, component.KindHook, project, placement.Location{}, false},

		{Copilot, component.KindSkill, personal, placement.Location{}, false},
		{Copilot, component.KindSkill, project, placement.Dir("/proj/.github/skills/github/demo/x"), true},
		{Copilot, component.KindAgent, personal, placement.File("/home/dev/.copilot/agents/github/demo/x.agent.md"), true},
		{Copilot, component.KindAgent, project, placement.File("/proj/.github/agents/github/demo/x.agent.md"), true},
		{Copilot, component.KindCommand, project, placement.File("/proj/.github/prompts/github/demo/x.prompt.md"), true},
		{Copilot, component.KindCommand, personal, placement.Location{}, false},
		{Copilot, component.KindInstruction, project, placement.File("/proj/.github/copilot-instructions.md"), true},
		{Copilot, component.KindInstruction, personal, placement.Location{}, false},
		{Copilot, component.KindHook, project, placement.Location{}, false},

		{Antigravity, component.KindSkill, personal, placement.Dir("/home/dev/.gemini/antigravity/skills/github/demo/x"), true},
		{Antigravity, component.KindSkill, project, placement.Dir("/proj/.agent/skills/github/demo/x"), true},
		{Antigravity, component.KindAgent, project, placement.Location{}, false},
		{Antigravity, component.KindInstruction, project, placement.Location{}, false},

		{Gemini, component.KindSkill, project, placement.Dir("/proj/.gemini/skills/github/demo/x"), true},
		{Gemini, component.KindSkill, personal, placement.Dir("/home/dev/.gemini/skills/github/demo/x"), true},
		{Gemini, component.KindInstruction, project, placement.File("/proj/GEMINI.md"), true},
		{Gemini, component.KindInstruction, personal, placement.File("/home/dev/.gemini/GEMINI.md"), true},
		{Gemini, component.KindAgent, project, placement.Location{}, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.target)+"/"+tt.kind.String()+"/"+tt.scope.String(), func(t *testing.T) {
			t.Parallel()

			got, ok := mustTarget(t, tt.target).PlacementLocation(ctxFor(tt.kind, tt.scope, "x"))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlacementLocation_GitHubOrigin(t *testing.T) {
	t.Parallel()

	ctx := ctxFor(component.KindSkill, component.ScopeProject, "lint")
	ctx.Origin = placement.GitHubOrigin("acme", "tools")

	got, ok := mustTarget(t, Codex).PlacementLocation(ctx)
	require.True(t, ok)
	assert.Equal(t, "/proj/.codex/skills/github/acme--tools/lint", got.Path)
}

func TestPlacementLocation_SomeIffSupported(t *testing.T) {
	t.Parallel()

	for _, tg := range All(mocks.NewFileSystem()) {
		for _, kind := range component.Kinds {
			for _, scope := range component.Scopes {
				_, ok := tg.PlacementLocation(ctxFor(kind, scope, "n"))
				assert.Equal(t, tg.Supports(kind) && tg.SupportsScope(kind, scope), ok,
					"%s %s %s", tg.Name(), kind, scope)
			}
		}
	}
}

func TestNames(t *testing.T) {
	t.Parallel()

	want := map[ID]string{
		Codex:       "OpenAI Codex",
		Copilot:     "GitHub Copilot",
		Antigravity: "Google Antigravity",
		Gemini:      "Gemini CLI",
	}
	for id, display := range want {
		tg := mustTarget(t, id)
		assert.Equal(t, string(id), tg.Name())
		assert.Equal(t, id, tg.ID())
		assert.Equal(t, display, tg.DisplayName())
	}
}

func TestParseIDAndResolve(t *testing.T) {
	t.Parallel()

	id, err := ParseID(" Codex ")
	require.NoError(t, err)
	assert.Equal(t, Codex, id)

	_, err = ParseID("cursor")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownTarget))

	targets, err := Resolve(mocks.NewFileSystem(), []string{"copilot", "codex", "copilot"})
	require.NoError(t, err)
	require.Len(t, targets, 2)
	assert.Equal(t, Codex, targets[0].ID())
	assert.Equal(t, Copilot, targets[1].ID())

	_, err = Resolve(mocks.NewFileSystem(), []string{"codex", "nope"})
	require.Error(t, err)
}
