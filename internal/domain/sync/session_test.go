package sync

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/plm/internal/adapters/logging"
	"github.com/felixgeelhaar/plm/internal/domain/target"
	"github.com/felixgeelhaar/plm/internal/testutil/mocks"
)

func TestSession_Lifecycle(t *testing.T) {
	t.Parallel()

	mfs := mocks.NewFileSystem()
	mfs.AddFile("/proj/.codex/agents/mp/p/a.agent.md", "a")
	codex, copilot := newTarget(t, mfs, target.Codex), newTarget(t, mfs, target.Copilot)

	s, err := NewSession(mfs, logging.NewNop())
	require.NoError(t, err)
	defer s.Stop()
	assert.Equal(t, StateIdle, s.State())

	_, err = s.Execute(context.Background())
	assert.ErrorIs(t, err, ErrInvalidTransition)

	plan, err := s.Plan(codex, copilot, roots, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, plan.Count(ActionCreate))
	assert.Equal(t, StatePlanned, s.State())

	res, err := s.Execute(context.Background())
	require.NoError(t, err)
	assert.True(t, res.IsSuccess())
	assert.Equal(t, StateCompleted, s.State())
	assert.NoError(t, s.Err())

	require.NoError(t, s.Reset())
	assert.Equal(t, StateIdle, s.State())
}

func TestSession_PlanFailure(t *testing.T) {
	t.Parallel()

	mfs := mocks.NewFileSystem()
	codex := newTarget(t, mfs, target.Codex)

	s, err := NewSession(mfs, logging.NewNop())
	require.NoError(t, err)
	defer s.Stop()

	_, err = s.Run(context.Background(), codex, codex, roots, Options{})
	assert.ErrorIs(t, err, ErrSameTarget)
	assert.Equal(t, StateFailed, s.State())
	assert.ErrorIs(t, s.Err(), ErrSameTarget)

	_, err = s.Plan(codex, codex, roots, Options{})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSession_ItemFailureFailsSession(t *testing.T) {
	t.Parallel()

	mfs := mocks.NewFileSystem()
	mfs.AddFile("/proj/.codex/agents/mp/p/a.agent.md", "a")
	mfs.FailOn("rename", "/proj/.github/agents/mp/p/a.agent.md", assert.AnError)

	s, err := NewSession(mfs, logging.NewNop())
	require.NoError(t, err)
	defer s.Stop()

	res, err := s.Run(context.Background(), newTarget(t, mfs, target.Codex), newTarget(t, mfs, target.Copilot), roots, Options{})
	require.NoError(t, err)
	assert.False(t, res.IsSuccess())
	assert.Equal(t, StateFailed, s.State())
	assert.Error(t, s.Err())
}
