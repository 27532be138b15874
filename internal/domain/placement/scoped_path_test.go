package placement

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScopedPath_Lexical(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		candidate string
		root      string
		want      string
		escape    bool
	}{
		{name: "parent above root", candidate: "/proj/../etc/passwd", root: "/proj", escape: true},
		{name: "interior parent", candidate: "/proj/sub/../file.txt", root: "/proj", want: "/proj/file.txt"},
		{name: "interior dot", candidate: "/proj/./a/./b", root: "/proj", want: "/proj/a/b"},
		{name: "root itself", candidate: "/proj", root: "/proj", want: "/proj"},
		{name: "relative inside", candidate: "sub/../agents/x.md", root: "/proj", want: "/proj/agents/x.md"},
		{name: "relative leading parent", candidate: "../outside", root: "/proj", escape: true},
		{name: "sibling prefix", candidate: "/project-other/file", root: "/proj", escape: true},
		{name: "clamped at filesystem root", candidate: "/../../proj/x", root: "/proj", want: "/proj/x"},
		{name: "unclean root", candidate: "/proj/a", root: "/proj/", want: "/proj/a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := NewScopedPath(tt.candidate, tt.root)
			if tt.escape {
				require.Error(t, err)
				assert.True(t, IsPathEscape(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Path())
			assert.Equal(t, filepath.Clean(tt.root), got.Root())
			assert.NotContains(t, strings.Split(got.Path(), "/"), "..")
		})
	}
}

func TestNewScopedPath_LeafMissingAncestorsExist(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".codex"), 0o755))

	got, err := NewScopedPath(filepath.Join(root, ".codex", "agents", "github", "demo", "x.agent.md"), root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, ".codex", "agents", "github", "demo", "x.agent.md"), got.Path())
}

func TestNewScopedPath_SymlinkEscape(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	root := filepath.Join(base, "proj")
	outside := filepath.Join(base, "outside")
	require.NoError(t, os.MkdirAll(root, 0o755))
	require.NoError(t, os.MkdirAll(outside, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(outside, "secret"), []byte("x"), 0o644))
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "link")))

	t.Run("existing leaf through link", func(t *testing.T) {
		_, err := NewScopedPath(filepath.Join(root, "link", "secret"), root)
		require.Error(t, err)
		assert.True(t, IsPathEscape(err))
	})

	t.Run("missing leaf through link", func(t *testing.T) {
		_, err := NewScopedPath(filepath.Join(root, "link", "new", "file.md"), root)
		require.Error(t, err)
		assert.True(t, IsPathEscape(err))
	})

	t.Run("the link itself", func(t *testing.T) {
		_, err := NewScopedPath(filepath.Join(root, "link"), root)
		require.Error(t, err)
		assert.True(t, IsPathEscape(err))
	})
}

func TestNewScopedPath_SymlinkInsideRoot(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "real"), 0o755))
	require.NoError(t, os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "alias")))

	got, err := NewScopedPath(filepath.Join(root, "alias", "file.md"), root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "alias", "file.md"), got.Path(), "stores the normalized path, not the resolved one")
}

func TestNewScopedPath_SymlinkedRoot(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	realDir := filepath.Join(base, "real")
	require.NoError(t, os.MkdirAll(realDir, 0o755))
	root := filepath.Join(base, "root-link")
	require.NoError(t, os.Symlink(realDir, root))

	got, err := NewScopedPath(filepath.Join(root, "AGENTS.md"), root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "AGENTS.md"), got.Path())
}

func TestNewScopedPath_DanglingLinks(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	root := filepath.Join(base, "proj")
	require.NoError(t, os.MkdirAll(root, 0o755))
	require.NoError(t, os.Symlink("missing.md", filepath.Join(root, "inside.md")))
	require.NoError(t, os.Symlink(filepath.Join(base, "outside", "gone.md"), filepath.Join(root, "outside.md")))
	require.NoError(t, os.Symlink("chain.md", filepath.Join(root, "hop.md")))
	require.NoError(t, os.Symlink(filepath.Join(base, "elsewhere"), filepath.Join(root, "chain.md")))
	require.NoError(t, os.Symlink("loop-b", filepath.Join(root, "loop-a")))
	require.NoError(t, os.Symlink("loop-a", filepath.Join(root, "loop-b")))

	t.Run("target inside root", func(t *testing.T) {
		got, err := NewScopedPath(filepath.Join(root, "inside.md"), root)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "inside.md"), got.Path())
	})

	t.Run("target outside root", func(t *testing.T) {
		_, err := NewScopedPath(filepath.Join(root, "outside.md"), root)
		require.Error(t, err)
		assert.True(t, IsPathEscape(err))
	})

	t.Run("chained to outside root", func(t *testing.T) {
		_, err := NewScopedPath(filepath.Join(root, "hop.md"), root)
		require.Error(t, err)
		assert.True(t, IsPathEscape(err))
	})

	t.Run("cycle", func(t *testing.T) {
		_, err := NewScopedPath(filepath.Join(root, "loop-a"), root)
		require.Error(t, err)
		assert.False(t, IsPathEscape(err))
	})
}
