// Package testutil provides test helpers shared by plm's package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteTempFile writes content to dir/rel, creating parent directories.
func WriteTempFile(t testing.TB, dir, rel, content string) string {
	t.Helper()

	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755), "failed to create parent of %s", rel)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "failed to write temp file: %s", rel)

	return path
}

// WriteTempDir creates a subdirectory in dir.
func WriteTempDir(t testing.TB, dir, rel string) string {
	t.Helper()

	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(path, 0o755), "failed to create temp subdirectory: %s", rel)

	return path
}
