package testutil

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// AssertFileExists asserts that a regular file exists at path.
func AssertFileExists(t testing.TB, path string) {
	t.Helper()

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		assert.Fail(t, "file does not exist", "expected file to exist: %s", path)
		return
	}
	require.NoError(t, err)
	assert.False(t, info.IsDir(), "expected file but got directory: %s", path)
}

// AssertNotExists asserts that nothing exists at path.
func AssertNotExists(t testing.TB, path string) {
	t.Helper()

	_, err := os.Lstat(path)
	assert.True(t, os.IsNotExist(err), "expected path to not exist: %s", path)
}

// AssertDirExists asserts that a directory exists at path.
func AssertDirExists(t testing.TB, path string) {
	t.Helper()

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		assert.Fail(t, "directory does not exist", "expected directory to exist: %s", path)
		return
	}
	require.NoError(t, err)
	assert.True(t, info.IsDir(), "expected directory but got file: %s", path)
}

// AssertFileEquals asserts that a file contains exactly the expected content.
func AssertFileEquals(t testing.TB, path, expected string) {
	t.Helper()

	content, err := os.ReadFile(path)
	require.NoError(t, err, "failed to read file: %s", path)

	// Normalize line endings
	actual := strings.ReplaceAll(string(content), "\r\n", "\n")
	expected = strings.ReplaceAll(expected, "\r\n", "\n")

	assert.Equal(t, expected, actual)
}

// AssertYAMLEquals asserts that two YAML documents are semantically equal.
func AssertYAMLEquals(t testing.TB, expected, actual string) {
	t.Helper()

	var expectedMap, actualMap interface{}
	require.NoError(t, yaml.Unmarshal([]byte(expected), &expectedMap), "failed to parse expected YAML")
	require.NoError(t, yaml.Unmarshal([]byte(actual), &actualMap), "failed to parse actual YAML")

	assert.Equal(t, expectedMap, actualMap)
}
