package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("OPENQA_ENV_TEST_KEY=from-file\n"), 0o600))

	t.Setenv("ENV_PATH", "")
	require.NoError(t, LoadDotEnv("local", path))
	t.Cleanup(func() { _ = os.Unsetenv("OPENQA_ENV_TEST_KEY") })

	assert.Equal(t, "from-file", os.Getenv("OPENQA_ENV_TEST_KEY"))
}

func TestLoadDotEnv_MissingFiles(t *testing.T) {
	t.Setenv("ENV_PATH", "")
	assert.NoError(t, LoadDotEnv("local", filepath.Join(t.TempDir(), "nope.env")))
	assert.NoError(t, LoadDotEnv("prod"))
}

func TestLoadDotEnv_EnvPathOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.env")
	require.NoError(t, os.WriteFile(path, []byte("OPENQA_ENV_PATH_KEY=custom\n"), 0o600))

	t.Setenv("ENV_PATH", path)
	require.NoError(t, LoadDotEnv("local", filepath.Join(dir, "ignored.env")))
	t.Cleanup(func() { _ = os.Unsetenv("OPENQA_ENV_PATH_KEY") })

	assert.Equal(t, "custom", os.Getenv("OPENQA_ENV_PATH_KEY"))
}
