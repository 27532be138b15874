package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/plm/internal/adapters/filesystem"
	"github.com/felixgeelhaar/plm/internal/domain/marketplace"
	"github.com/felixgeelhaar/plm/internal/domain/target"
	"github.com/felixgeelhaar/plm/internal/testutil/mocks"
)

func TestFormatOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{path: "/c/config.yaml", want: FormatYAML},
		{path: "/c/config.YML", want: FormatYAML},
		{path: "/c/config.toml", want: FormatTOML},
		{path: "/c/config.json", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatOf(tt.path)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, &UserError{Code: ErrCodeUnsupportedFormat}))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStore_LoadMissingReturnsDefault(t *testing.T) {
	t.Parallel()

	cfg, err := NewStore(mocks.NewFileSystem()).Load("/c/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestStore_LoadYAML(t *testing.T) {
	t.Parallel()

	mfs := mocks.NewFileSystem()
	mfs.AddFile("/c/config.yaml", `targets: [Copilot, codex, codex]
cache_dir: ~/plm-cache
log:
  level: debug
  format: json
marketplaces:
  - name: tools
    source: github:octo/tools
`)

	cfg, err := NewStore(mfs).Load("/c/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"codex", "copilot"}, cfg.Targets)
	assert.Equal(t, "~/plm-cache", cfg.CacheDir)
	assert.Equal(t, LogConfig{Level: "debug", Format: "json"}, cfg.Log)
	assert.Equal(t, []marketplace.Registration{{Name: "tools", Source: "github:octo/tools"}}, cfg.Marketplaces)
}

func TestStore_LoadTOML(t *testing.T) {
	t.Parallel()

	mfs := mocks.NewFileSystem()
	mfs.AddFile("/c/config.toml", `targets = ["gemini"]

[log]
level = "warn"
`)

	cfg, err := NewStore(mfs).Load("/c/config.toml")
	require.NoError(t, err)
	assert.Equal(t, []string{"gemini"}, cfg.Targets)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestStore_LoadErrors(t *testing.T) {
	t.Parallel()

	mfs := mocks.NewFileSystem()
	mfs.AddFile("/c/broken.yaml", "targets: [codex\n")
	mfs.AddFile("/c/invalid.yaml", "targets: [cursor]\n")

	_, err := NewStore(mfs).Load("/c/broken.yaml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, &UserError{Code: ErrCodeConfigParse}))

	_, err = NewStore(mfs).Load("/c/invalid.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown target")
}

func TestStore_SaveRoundTrip(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"config.yaml", "config.toml"} {
		t.Run(name, func(t *testing.T) {
			mfs := mocks.NewFileSystem()
			store := NewStore(mfs)
			path := "/c/plm/" + name

			cfg := Default()
			cfg.AddTarget(target.Gemini)
			cfg.Log.Format = LogFormatJSON
			cfg.Marketplaces = []marketplace.Registration{{Name: "tools", Source: "github:octo/tools", SourcePath: "plugins"}}
			require.NoError(t, store.Save(path, cfg))

			for _, p := range mfs.Files() {
				assert.False(t, strings.Contains(p, ".tmp-"), p)
			}

			loaded, err := store.Load(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestStore_SaveRenameFailureLeavesOriginal(t *testing.T) {
	t.Parallel()

	mfs := mocks.NewFileSystem()
	mfs.AddFile("/c/config.yaml", "targets: [codex]\n")
	mfs.FailOn("rename", "/c/config.yaml", errors.New("denied"))

	err := NewStore(mfs).Save("/c/config.yaml", Default())
	require.Error(t, err)
	assert.Equal(t, "targets: [codex]\n", mfs.Content("/c/config.yaml"))
	assert.Equal(t, []string{"/c/config.yaml"}, mfs.Files())
}

func TestStore_RealFileSystem(t *testing.T) {
	t.Parallel()

	path := t.TempDir() + "/nested/config.yaml"
	store := NewStore(filesystem.NewRealFileSystem())

	cfg := Default()
	cfg.AddTarget(target.Antigravity)
	require.NoError(t, store.Save(path, cfg))

	loaded, err := store.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"antigravity", "codex", "copilot"}, loaded.Targets)
}
