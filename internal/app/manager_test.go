package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/plm/internal/domain/component"
	"github.com/felixgeelhaar/plm/internal/domain/placement"
	"github.com/felixgeelhaar/plm/internal/domain/plugin"
	"github.com/felixgeelhaar/plm/internal/domain/sync"
	"github.com/felixgeelhaar/plm/internal/domain/target"
	"github.com/felixgeelhaar/plm/internal/testutil"
	"github.com/felixgeelhaar/plm/internal/testutil/mocks"
)

var roots = placement.Roots{Home: "/home/dev", Project: "/proj"}

func newTestManager(t *testing.T, mfs *mocks.FileSystem) *Manager {
	t.Helper()
	targets, err := target.Resolve(mfs, []string{"codex", "copilot"})
	require.NoError(t, err)
	return NewManager(mfs, plugin.NewCache(mfs, "/cache"), roots, targets)
}

func addSource(mfs *mocks.FileSystem, dir, version string) {
	testutil.NewPluginBuilder("demo").
		WithVersion(version).
		WithDescription("Demo plugin").
		WithSkill("greet", "# greet "+version).
		WithAgent("review", "review").
		WithCommand("deploy", "deploy").
		AddTo(mfs, dir)
}

func TestManager_InstallPlugin(t *testing.T) {
	t.Parallel()

	mfs := mocks.NewFileSystem()
	addSource(mfs, "/src/demo", "1.0.0")
	m := newTestManager(t, mfs)

	result := m.InstallPlugin(context.Background(), "/src/demo", "local", false)

	require.True(t, result.Success, result.Error)
	assert.Equal(t, []target.ID{target.Codex, target.Copilot}, result.Affected.Targets())
	assert.Equal(t, 5, result.Affected.TotalComponents())

	assert.True(t, mfs.Exists("/cache/local/demo/.claude-plugin/plugin.json"))
	assert.True(t, mfs.Exists("/cache/local/demo/"+plugin.MetaFile))
	assert.Equal(t, "# greet 1.0.0", mfs.Content("/proj/.codex/skills/local/demo/greet/SKILL.md"))
	assert.Equal(t, "review", mfs.Content("/proj/.codex/agents/local/demo/review.agent.md"))
	assert.Equal(t, "# greet 1.0.0", mfs.Content("/proj/.github/skills/local/demo/greet/SKILL.md"))
	assert.Equal(t, "review", mfs.Content("/proj/.github/agents/local/demo/review.agent.md"))
	assert.Equal(t, "deploy", mfs.Content("/proj/.github/prompts/local/demo/deploy.prompt.md"))
	assert.False(t, mfs.Exists("/proj/.codex/prompts"), "codex has no commands")
}

func TestManager_InstallPlugin_Downgrade(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		force    bool
		wantOK   bool
		wantBody string
	}{
		{name: "refused", force: false, wantOK: false, wantBody: "# greet 2.0.0"},
		{name: "forced", force: true, wantOK: true, wantBody: "# greet 1.0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mfs := mocks.NewFileSystem()
			addSource(mfs, "/src/new", "2.0.0")
			addSource(mfs, "/src/old", "1.0.0")
			m := newTestManager(t, mfs)

			require.True(t, m.InstallPlugin(context.Background(), "/src/new", "local", false).Success)
			result := m.InstallPlugin(context.Background(), "/src/old", "local", tt.force)

			assert.Equal(t, tt.wantOK, result.Success)
			if !tt.wantOK {
				assert.Contains(t, result.Error, plugin.ErrDowngrade.Error())
			}
			assert.Equal(t, tt.wantBody, mfs.Content("/cache/local/demo/skills/greet/SKILL.md"))
		})
	}
}

func TestManager_InstallPlugin_InvalidManifest(t *testing.T) {
	t.Parallel()

	mfs := mocks.NewFileSystem()
	mfs.AddFile("/src/bad/plugin.json", `{"name": "bad"}`)
	m := newTestManager(t, mfs)

	result := m.InstallPlugin(context.Background(), "/src/bad", "local", false)

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "version is required")
	assert.False(t, mfs.Exists("/cache/local/bad"))
}

func TestManager_DisableEnable(t *testing.T) {
	t.Parallel()

	mfs := mocks.NewFileSystem()
	addSource(mfs, "/src/demo", "1.0.0")
	m := newTestManager(t, mfs)
	ctx := context.Background()
	require.True(t, m.InstallPlugin(ctx, "/src/demo", "local", false).Success)

	disabled := m.DisablePlugin(ctx, "demo", "local")
	require.True(t, disabled.Success, disabled.Error)
	assert.Equal(t, 5, disabled.Affected.TotalComponents())
	assert.False(t, mfs.Exists("/proj/.codex/skills/local"), "emptied parents are pruned")
	assert.False(t, mfs.Exists("/proj/.github/prompts/local"))
	assert.False(t, mfs.Exists("/proj/.codex"))
	assert.True(t, mfs.Exists("/cache/local/demo"), "disable keeps the cache")

	enabled := m.EnablePlugin(ctx, "demo", "local")
	require.True(t, enabled.Success, enabled.Error)
	assert.True(t, mfs.Exists("/proj/.codex/skills/local/demo/greet/SKILL.md"))

	again := m.EnablePlugin(ctx, "demo", "local")
	require.True(t, again.Success)
	assert.Equal(t, enabled.Affected, again.Affected)
}

func TestManager_NotCached(t *testing.T) {
	t.Parallel()

	mfs := mocks.NewFileSystem()
	m := newTestManager(t, mfs)
	ctx := context.Background()

	for name, result := range map[string]target.OperationResult{
		"enable":    m.EnablePlugin(ctx, "ghost", "mp"),
		"disable":   m.DisablePlugin(ctx, "ghost", "mp"),
		"uninstall": m.UninstallPlugin(ctx, "ghost", "mp", true),
	} {
		assert.False(t, result.Success, name)
		assert.Contains(t, result.Error, "not found", name)
	}
	assert.Empty(t, mfs.Calls())
}

func TestManager_UninstallPlugin(t *testing.T) {
	t.Parallel()

	mfs := mocks.NewFileSystem()
	addSource(mfs, "/src/demo", "1.0.0")
	m := newTestManager(t, mfs)
	ctx := context.Background()
	require.True(t, m.InstallPlugin(ctx, "/src/demo", "local", false).Success)

	result := m.UninstallPlugin(ctx, "demo", "local", false)

	require.True(t, result.Success, result.Error)
	assert.False(t, mfs.Exists("/cache/local/demo"))
	assert.False(t, mfs.Exists("/proj/.codex/skills/local/demo"))
	assert.False(t, mfs.Exists("/proj/.github/agents/local/demo"))
	assert.False(t, mfs.Exists("/proj/.codex"), "project is back to its pre-install state")
	assert.False(t, mfs.Exists("/proj/.github"))
}

func TestManager_UninstallPlugin_TargetFailureKeepsCache(t *testing.T) {
	t.Parallel()

	mfs := mocks.NewFileSystem()
	addSource(mfs, "/src/demo", "1.0.0")
	m := newTestManager(t, mfs)
	ctx := context.Background()
	require.True(t, m.InstallPlugin(ctx, "/src/demo", "local", false).Success)
	mfs.FailOn("remove", "/proj/.codex/skills/local/demo/greet", errors.New("permission denied"))

	result := m.UninstallPlugin(ctx, "demo", "local", true)

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "codex: ")
	assert.Contains(t, result.Error, "permission denied")
	assert.Equal(t, []target.ID{target.Copilot}, result.Affected.Targets())
	assert.True(t, mfs.Exists("/cache/local/demo"))
}

func TestManager_ListInstalledPlugins(t *testing.T) {
	t.Parallel()

	mfs := mocks.NewFileSystem()
	addSource(mfs, "/src/demo", "1.0.0")
	mfs.AddDir("/cache/mp/broken")
	m := newTestManager(t, mfs)
	ctx := context.Background()
	require.True(t, m.InstallPlugin(ctx, "/src/demo", "local", false).Success)

	plugins, err := m.ListInstalledPlugins(ctx)
	require.NoError(t, err)
	require.Len(t, plugins, 1)

	got := plugins[0]
	assert.Equal(t, "demo", got.Name)
	assert.Equal(t, "local", got.Marketplace)
	assert.Equal(t, "1.0.0", got.Version)
	assert.Equal(t, "Demo plugin", got.Description)
	assert.Equal(t, []string{"greet"}, got.Skills)
	assert.Equal(t, []string{"review"}, got.Agents)
	assert.Equal(t, []string{"deploy"}, got.Commands)
	assert.Empty(t, got.Instructions)
	assert.Equal(t, 3, got.ComponentCount())
	assert.True(t, got.Enabled)
	assert.NotEmpty(t, got.InstalledAt)

	require.True(t, m.DisablePlugin(ctx, "demo", "local").Success)
	plugins, err = m.ListInstalledPlugins(ctx)
	require.NoError(t, err)
	require.Len(t, plugins, 1)
	assert.False(t, plugins[0].Enabled)
}

func TestManager_ListInstalledPlugins_Empty(t *testing.T) {
	t.Parallel()

	plugins, err := newTestManager(t, mocks.NewFileSystem()).ListInstalledPlugins(context.Background())
	require.NoError(t, err)
	assert.Empty(t, plugins)
}

func TestPluginSummary_Source(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "github", PluginSummary{}.Source())
	assert.Equal(t, "mp", PluginSummary{Marketplace: "mp"}.Source())
}

func TestManager_Sync(t *testing.T) {
	t.Parallel()

	mfs := mocks.NewFileSystem()
	mfs.AddFile("/proj/.codex/skills/mp/p/s/SKILL.md", "skill")
	mfs.AddFile("/proj/.codex/agents/mp/p/a.agent.md", "agent")
	m := newTestManager(t, mfs)

	result, err := m.Sync(context.Background(), target.Codex, target.Copilot, sync.Options{})
	require.NoError(t, err)
	require.True(t, result.IsSuccess())
	assert.Len(t, result.Created, 2)
	assert.Equal(t, "skill", mfs.Content("/proj/.github/skills/mp/p/s/SKILL.md"))
	assert.Equal(t, "agent", mfs.Content("/proj/.github/agents/mp/p/a.agent.md"))

	plan, err := m.PlanSync(target.Codex, target.Copilot, sync.Options{})
	require.NoError(t, err)
	assert.False(t, plan.HasChanges())
}

func TestManager_Sync_Errors(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, mocks.NewFileSystem())
	ctx := context.Background()

	_, err := m.Sync(ctx, target.Codex, target.Codex, sync.Options{})
	assert.ErrorIs(t, err, sync.ErrSameTarget)

	_, err = m.Sync(ctx, target.ID("cursor"), target.Codex, sync.Options{})
	assert.ErrorIs(t, err, target.ErrUnknownTarget)

	_, err = m.PlanSync(target.Codex, target.ID("cursor"), sync.Options{Kinds: []component.Kind{component.KindSkill}})
	assert.ErrorIs(t, err, target.ErrUnknownTarget)
}
