package target

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAffectedTargets_Result(t *testing.T) {
	t.Parallel()

	var a AffectedTargets
	a.RecordSuccess(Codex, 2)
	a.RecordSuccess(Antigravity, 0)
	a.RecordError(Copilot, "copy failed")
	a.RecordError(Gemini, "permission denied")

	res := a.Result()
	assert.False(t, res.Success)
	assert.Equal(t, "copilot: copy failed; gemini: permission denied", res.Error)
	assert.Equal(t, []Effect{{Target: Codex, ComponentCount: 2}}, res.Affected.Effects)
	assert.Equal(t, []ID{Codex}, res.Affected.Targets())
	assert.Equal(t, 2, res.Affected.TotalComponents())

	err := res.Err()
	require.Error(t, err)
	var agg *AggregateError
	assert.True(t, errors.As(err, &agg))
}

func TestAffectedTargets_Empty(t *testing.T) {
	t.Parallel()

	var a AffectedTargets
	res := a.Result()
	assert.True(t, res.Success)
	assert.Empty(t, res.Error)
	assert.NoError(t, res.Err())
}

func TestFailed(t *testing.T) {
	t.Parallel()

	res := Failed(errors.New("plugin not found"))
	assert.False(t, res.Success)
	assert.Equal(t, "plugin not found", res.Error)
}
