package sync

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/plm/internal/adapters/logging"
	"github.com/felixgeelhaar/plm/internal/domain/component"
	"github.com/felixgeelhaar/plm/internal/domain/placement"
	"github.com/felixgeelhaar/plm/internal/domain/target"
	"github.com/felixgeelhaar/plm/internal/testutil/mocks"
)

func syncOnce(t *testing.T, mfs *mocks.FileSystem, from, to target.ID, opts Options) *Result {
	t.Helper()
	plan, err := NewPlanner(mfs).Plan(newTarget(t, mfs, from), newTarget(t, mfs, to), roots, opts)
	require.NoError(t, err)
	return NewExecutor(mfs, logging.NewNop()).Execute(context.Background(), plan)
}

func noTempFiles(t *testing.T, mfs *mocks.FileSystem) {
	t.Helper()
	for _, p := range mfs.Paths() {
		assert.NotContains(t, p, ".tmp-")
		assert.NotContains(t, p, ".bak-")
	}
}

func TestExecute_CreateThenConverge(t *testing.T) {
	t.Parallel()

	mfs := mocks.NewFileSystem()
	mfs.AddFile("/proj/.codex/skills/github/demo/my-skill/SKILL.md", "skill")
	mfs.AddFile("/proj/.codex/skills/github/demo/my-skill/ref/guide.md", "guide")

	res := syncOnce(t, mfs, target.Codex, target.Copilot, Options{})
	require.True(t, res.IsSuccess(), res.Err())
	require.Len(t, res.Created, 1)
	assert.Equal(t, "github/demo/my-skill", res.Created[0].Entry)
	assert.Equal(t, "skill", mfs.Content("/proj/.github/skills/github/demo/my-skill/SKILL.md"))
	assert.Equal(t, "guide", mfs.Content("/proj/.github/skills/github/demo/my-skill/ref/guide.md"))
	noTempFiles(t, mfs)

	res = syncOnce(t, mfs, target.Codex, target.Copilot, Options{})
	require.True(t, res.IsSuccess())
	assert.Zero(t, res.Changed())
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, ReasonUnchanged, res.Skipped[0].Reason)
}

func TestExecute_UnsupportedWritesNothing(t *testing.T) {
	t.Parallel()

	mfs := mocks.NewFileSystem()
	mfs.AddFile("/proj/.github/prompts/github/demo/fix.prompt.md", "fix")

	res := syncOnce(t, mfs, target.Copilot, target.Codex, Options{})
	assert.True(t, res.IsSuccess())
	assert.Len(t, res.Unsupported, 1)
	assert.Empty(t, res.Failed)
	assert.Empty(t, mfs.Calls())
}

func TestExecute_UpdateReplacesContent(t *testing.T) {
	t.Parallel()

	mfs := mocks.NewFileSystem()
	mfs.AddFile("/proj/.codex/skills/mp/p/s/SKILL.md", "new")
	mfs.AddFile("/proj/.github/skills/mp/p/s/SKILL.md", "old")
	mfs.AddFile("/proj/.github/skills/mp/p/s/leftover.md", "gone after replace")

	res := syncOnce(t, mfs, target.Codex, target.Copilot, Options{})
	require.True(t, res.IsSuccess(), res.Err())
	require.Len(t, res.Updated, 1)
	assert.Equal(t, "new", mfs.Content("/proj/.github/skills/mp/p/s/SKILL.md"))
	assert.False(t, mfs.Exists("/proj/.github/skills/mp/p/s/leftover.md"))
	noTempFiles(t, mfs)
}

func TestExecute_DryRun(t *testing.T) {
	t.Parallel()

	mfs := mocks.NewFileSystem()
	mfs.AddFile("/proj/.codex/agents/mp/p/a.agent.md", "a")
	mfs.AddFile("/proj/.github/agents/mp/p/stale.agent.md", "stale")

	res := syncOnce(t, mfs, target.Codex, target.Copilot, Options{DryRun: true, Delete: true})
	assert.True(t, res.DryRun)
	assert.Len(t, res.Created, 1)
	assert.Len(t, res.Deleted, 1)
	assert.Empty(t, mfs.Calls())
	assert.False(t, mfs.Exists("/proj/.github/agents/mp/p/a.agent.md"))
}

func TestExecute_Delete(t *testing.T) {
	t.Parallel()

	mfs := mocks.NewFileSystem()
	mfs.AddFile("/proj/.codex/agents/mp/p/a.agent.md", "a")
	mfs.AddFile("/proj/.github/agents/mp/p/stale.agent.md", "stale")
	mfs.AddFile("/proj/.github/skills/mp/p/old/SKILL.md", "old")

	res := syncOnce(t, mfs, target.Codex, target.Copilot, Options{Delete: true})
	require.True(t, res.IsSuccess(), res.Err())
	assert.Len(t, res.Created, 1)
	assert.Len(t, res.Deleted, 2)
	assert.False(t, mfs.Exists("/proj/.github/agents/mp/p/stale.agent.md"))
	assert.False(t, mfs.Exists("/proj/.github/skills/mp/p/old"))
	assert.Equal(t, "a", mfs.Content("/proj/.github/agents/mp/p/a.agent.md"))
}

func TestExecute_PersonalScope(t *testing.T) {
	t.Parallel()

	mfs := mocks.NewFileSystem()
	mfs.AddFile("/home/dev/.codex/agents/mp/p/a.agent.md", "a")

	res := syncOnce(t, mfs, target.Codex, target.Copilot, Options{})
	require.True(t, res.IsSuccess(), res.Err())
	require.Len(t, res.Created, 1)
	assert.Equal(t, component.ScopePersonal, res.Created[0].Scope)
	assert.Equal(t, "a", mfs.Content("/home/dev/.copilot/agents/mp/p/a.agent.md"))
}

func TestExecute_FailureContinues(t *testing.T) {
	t.Parallel()

	mfs := mocks.NewFileSystem()
	mfs.AddFile("/proj/.codex/agents/mp/p/a.agent.md", "a")
	mfs.AddFile("/proj/.codex/agents/mp/p/b.agent.md", "b")
	mfs.FailOn("rename", "/proj/.github/agents/mp/p/a.agent.md", assert.AnError)

	res := syncOnce(t, mfs, target.Codex, target.Copilot, Options{})
	assert.False(t, res.IsSuccess())
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "mp/p/a", res.Failed[0].Component.Entry)
	assert.Equal(t, ActionCreate, res.Failed[0].Action)
	assert.Contains(t, res.Failed[0].Error, assert.AnError.Error())
	require.Len(t, res.Created, 1)
	assert.Equal(t, "b", mfs.Content("/proj/.github/agents/mp/p/b.agent.md"))
	assert.False(t, mfs.Exists("/proj/.github/agents/mp/p/a.agent.md"))
	noTempFiles(t, mfs)
	require.Error(t, res.Err())
	assert.True(t, strings.HasPrefix(res.Err().Error(), "sync codex -> copilot: 1 failed"))
}

func TestExecute_RejectsEscapingDestination(t *testing.T) {
	t.Parallel()

	mfs := mocks.NewFileSystem()
	mfs.AddFile("/proj/src.md", "x")
	plan := &Plan{
		From:  target.Codex,
		To:    target.Copilot,
		Roots: roots,
		Items: []Item{{
			Kind:       component.KindAgent,
			Scope:      component.ScopeProject,
			Origin:     placement.MarketplaceOrigin("mp", "p"),
			Name:       "evil",
			SourcePath: "/proj/src.md",
			TargetPath: "/proj/../etc/evil.md",
			Action:     ActionCreate,
		}},
	}

	res := NewExecutor(mfs, logging.NewNop()).Execute(context.Background(), plan)
	require.Len(t, res.Failed, 1)
	assert.Empty(t, mfs.Calls())
	assert.False(t, mfs.Exists("/etc/evil.md"))
}
