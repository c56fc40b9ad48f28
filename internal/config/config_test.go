package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefaults(t *testing.T) {
	t.Setenv("LMS_URL", "")
	t.Setenv("DEREX_USER_EMAIL", "")
	t.Setenv("DEREX_USER_PASSWORD", "")
	t.Setenv("HEADLESS", "")
	t.Chdir(t.TempDir()) // no derex.config.yaml anywhere above

	cfg := Get()
	assert.Equal(t, "http://localhost:8000", cfg.LMSURL)
	assert.Empty(t, cfg.UserEmail)
	assert.True(t, cfg.Headless)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.True(t, cfg.Screenshots)
	assert.Equal(t, "./test-results", cfg.ArtifactsDir)
}

func TestGetReadsEnvironment(t *testing.T) {
	t.Setenv("LMS_URL", "http://lms.example.com:8000/")
	t.Setenv("DEREX_USER_EMAIL", "staff@example.com")
	t.Setenv("DEREX_USER_PASSWORD", "hunter2")
	t.Setenv("HEADLESS", "false")
	t.Setenv("SLOW_MO", "100")
	t.Setenv("SCREENSHOTS", "false")
	t.Chdir(t.TempDir())

	cfg := Get()
	assert.Equal(t, "http://lms.example.com:8000", cfg.LMSURL, "trailing slash should be stripped")
	assert.Equal(t, "staff@example.com", cfg.UserEmail)
	assert.Equal(t, "hunter2", cfg.UserPassword)
	assert.False(t, cfg.Headless)
	assert.Equal(t, 100*time.Millisecond, cfg.SlowMo)
	assert.False(t, cfg.Screenshots)
}

func TestGetReadsProjectConfigFile(t *testing.T) {
	t.Setenv("LMS_URL", "")
	t.Setenv("DEREX_USER_EMAIL", "")
	root := t.TempDir()
	yaml := "lms_url: http://project.localhost\nuser_email: learner@example.com\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfFilename), []byte(yaml), 0o644))

	nested := filepath.Join(root, "themes", "default")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	t.Chdir(nested)

	cfg := Get()
	assert.Equal(t, "http://project.localhost", cfg.LMSURL)
	assert.Equal(t, "learner@example.com", cfg.UserEmail)
}

func TestEnvironmentWinsOverProjectConfig(t *testing.T) {
	t.Setenv("LMS_URL", "http://from-env.localhost")
	root := t.TempDir()
	yaml := "lms_url: http://from-file.localhost\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfFilename), []byte(yaml), 0o644))
	t.Chdir(root)

	cfg := Get()
	assert.Equal(t, "http://from-env.localhost", cfg.LMSURL)
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfFilename), []byte("{}\n"), 0o644))
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	found, ok := FindProjectRoot(nested)
	require.True(t, ok)
	assert.Equal(t, root, found)

	_, ok = FindProjectRoot(t.TempDir())
	assert.False(t, ok)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	dotenv := filepath.Join(dir, ".env")
	content := "# comment\n" +
		"DEREX_TEST_FROM_FILE=file-value\n" +
		"DEREX_TEST_EXISTING=file-value\n" +
		"DEREX_TEST_QUOTED=\"quoted value\"\n" +
		"NOT_A_PAIR\n"
	require.NoError(t, os.WriteFile(dotenv, []byte(content), 0o644))

	t.Setenv("DEREX_TEST_FROM_FILE", "")
	t.Setenv("DEREX_TEST_QUOTED", "")
	t.Setenv("DEREX_TEST_EXISTING", "env-value")

	loadDotEnv(dotenv)

	assert.Equal(t, "file-value", os.Getenv("DEREX_TEST_FROM_FILE"))
	assert.Equal(t, "quoted value", os.Getenv("DEREX_TEST_QUOTED"))
	assert.Equal(t, "env-value", os.Getenv("DEREX_TEST_EXISTING"), "existing env must not be overwritten")
}
