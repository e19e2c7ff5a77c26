package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/code-editor/internal/apperror"
)

// chdirTemp moves into an empty directory so a developer's .env can't leak in.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, BackendDocker, cfg.Executor.Backend)
	assert.Equal(t, 5*time.Second, cfg.Executor.Timeout)
	assert.Equal(t, "node:22-alpine", cfg.Docker.Image)
	assert.Equal(t, int64(128*1024*1024), cfg.Docker.MemoryLimit)
	assert.Equal(t, time.Second, cfg.Advisor.Delay)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("PORT", "9090")
	t.Setenv("EXECUTOR_BACKEND", "local")
	t.Setenv("EXECUTOR_TIMEOUT", "750ms")
	t.Setenv("ADVISOR_DELAY", "0s")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, BackendLocal, cfg.Executor.Backend)
	assert.Equal(t, 750*time.Millisecond, cfg.Executor.Timeout)
	assert.Equal(t, time.Duration(0), cfg.Advisor.Delay)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DOCKER_POOL_SIZE=7\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("DOCKER_POOL_SIZE") })

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Docker.PoolSize)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "editor.yaml")
	yaml := "port: 7000\nexecutor:\n  backend: none\nlog:\n  format: json\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, BackendNone, cfg.Executor.Backend)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	chdirTemp(t)
	_, err := Load(viper.New(), "does-not-exist.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	chdirTemp(t)
	base, err := Load(viper.New(), "")
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"port out of range", func(c *Config) { c.Port = 70000 }, "port"},
		{"unknown backend", func(c *Config) { c.Executor.Backend = "firecracker" }, "executor.backend"},
		{"zero timeout", func(c *Config) { c.Executor.Timeout = 0 }, "executor.timeout"},
		{"negative delay", func(c *Config) { c.Advisor.Delay = -time.Second }, "advisor.delay"},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)

			err := cfg.Validate()
			var appErr *apperror.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.field, appErr.Field)
		})
	}
}
