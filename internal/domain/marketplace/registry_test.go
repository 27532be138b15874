package marketplace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistration(t *testing.T) {
	t.Parallel()

	reg, err := NewRegistration("octo/Tools", "", "/plugins/")
	require.NoError(t, err)
	assert.Equal(t, Registration{Name: "tools", Source: "github:octo/Tools", SourcePath: "plugins"}, reg)
	assert.Equal(t, "octo/Tools", reg.DisplaySource())

	reg, err = NewRegistration("github:octo/tools", "Team", "")
	require.NoError(t, err)
	assert.Equal(t, "team", reg.Name)

	_, err = NewRegistration("not-a-repo", "", "")
	assert.ErrorIs(t, err, ErrInvalidSource)
	_, err = NewRegistration("octo/tools", "bad name", "")
	assert.True(t, IsNameError(err))
	_, err = NewRegistration("octo/tools", "", "../x")
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := NewRegistry([]Registration{{Name: "zeta", Source: "github:a/zeta"}})
	require.NoError(t, r.Add(Registration{Name: "alpha", Source: "github:a/alpha"}))

	err := r.Add(Registration{Name: "alpha", Source: "github:b/alpha"})
	assert.ErrorIs(t, err, ErrExists)

	names := func() []string {
		var out []string
		for _, e := range r.List() {
			out = append(out, e.Name)
		}
		return out
	}
	assert.Equal(t, []string{"alpha", "zeta"}, names())

	got, ok := r.Get("zeta")
	require.True(t, ok)
	assert.Equal(t, "github:a/zeta", got.Source)

	require.NoError(t, r.Remove("zeta"))
	assert.False(t, r.Exists("zeta"))
	assert.ErrorIs(t, r.Remove("zeta"), ErrNotFound)
	assert.Equal(t, []string{"alpha"}, names())
}
