// Package config loads server configuration.
//
// LAYERING (lowest to highest precedence):
//  1. Defaults below
//  2. Optional YAML file (--config)
//  3. .env file in the working directory (loaded into the process environment)
//  4. Environment variables: nested keys use underscores, e.g. executor.backend → EXECUTOR_BACKEND
//  5. Command line flags bound by the caller
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/sakif/code-editor/internal/apperror"
)

// Execution backends.
const (
	BackendDocker = "docker"
	BackendLocal  = "local"
	BackendNone   = "none"
)

// Config holds the whole application configuration.
type Config struct {
	Port     int            `mapstructure:"port"`
	Log      LogConfig      `mapstructure:"log"`
	Executor ExecutorConfig `mapstructure:"executor"`
	Docker   DockerConfig   `mapstructure:"docker"`
	Advisor  AdvisorConfig  `mapstructure:"advisor"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// LogConfig selects the slog handler and its minimum level.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // text or json
}

// ExecutorConfig picks the execution backend and bounds each run.
// NodeBinary and MaxConcurrent only apply to the local backend.
type ExecutorConfig struct {
	Backend       string        `mapstructure:"backend"`
	Timeout       time.Duration `mapstructure:"timeout"`
	NodeBinary    string        `mapstructure:"node_binary"`
	MaxConcurrent int64         `mapstructure:"max_concurrent"`
}

// DockerConfig sizes the pre-warmed container pool and its resource limits.
type DockerConfig struct {
	Image       string        `mapstructure:"image"`
	MemoryLimit int64         `mapstructure:"memory_limit"`
	CPULimit    float64       `mapstructure:"cpu_limit"`
	PoolSize    int           `mapstructure:"pool_size"`
	PullTimeout time.Duration `mapstructure:"pull_timeout"`
}

// AdvisorConfig holds the nominal delay before an advisory response.
type AdvisorConfig struct {
	Delay time.Duration `mapstructure:"delay"`
}

// MetricsConfig controls the Prometheus /metrics endpoint.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// SetDefaults registers every key with its default. Keys must be known to viper
// for AutomaticEnv to resolve them during Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("executor.backend", BackendDocker)
	v.SetDefault("executor.timeout", 5*time.Second)
	v.SetDefault("executor.node_binary", "node")
	v.SetDefault("executor.max_concurrent", 4)

	v.SetDefault("docker.image", "node:22-alpine")
	v.SetDefault("docker.memory_limit", 128*1024*1024)
	v.SetDefault("docker.cpu_limit", 0.5)
	v.SetDefault("docker.pool_size", 3)
	v.SetDefault("docker.pull_timeout", 2*time.Minute)

	v.SetDefault("advisor.delay", time.Second)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", "code_editor")
}

// Load reads configuration into a Config. configFile may be empty.
func Load(v *viper.Viper, configFile string) (Config, error) {
	// A missing .env is normal; a malformed one is not
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	SetDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail far from where they were set.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return apperror.ValidationFailed("port", fmt.Sprintf("port %d is out of range", c.Port))
	}
	switch c.Executor.Backend {
	case BackendDocker, BackendLocal, BackendNone:
	default:
		return apperror.ValidationFailed("executor.backend",
			fmt.Sprintf("unknown executor backend %q (want docker, local or none)", c.Executor.Backend))
	}
	if c.Executor.Timeout <= 0 {
		return apperror.ValidationFailed("executor.timeout", "executor timeout must be positive")
	}
	if c.Advisor.Delay < 0 {
		return apperror.ValidationFailed("advisor.delay", "advisor delay can't be negative")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return apperror.ValidationFailed("log.format", fmt.Sprintf("unknown log format %q", c.Log.Format))
	}
	return nil
}
