package docker_test

import (
	"context"
	"testing"
	"time"

	"log/slog"
	"os"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/code-editor/internal/executor"
	"github.com/sakif/code-editor/internal/executor/docker"
)

func TestDockerRunner(t *testing.T) {
	// Skip in CI environments if docker is not available
	if os.Getenv("CI") != "" {
		t.Skip("Skipping docker test in CI environment")
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cfg := docker.DefaultConfig()
	// reduce pool size for local test speed
	cfg.PoolSize = 1

	runner, err := docker.New(cfg, logger)
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	defer runner.Close()

	assert.Equal(t, "docker", runner.Name())

	t.Run("successful execution", func(t *testing.T) {
		out, err := runner.Run(context.Background(), `console.log("Hello from test sandbox!"); return 42;`, "@")
		require.NoError(t, err)
		assert.Equal(t, 0, out.ExitCode)
		assert.Empty(t, out.Stderr)

		tr := executor.DecodeTranscript(out.Stdout, "@")
		assert.True(t, tr.Complete)
		assert.Equal(t, []executor.OutputEvent{
			{Kind: executor.KindLog, Text: "Hello from test sandbox!"},
			{Kind: executor.KindResult, Text: "Result: 42"},
		}, tr.Events)
	})

	t.Run("thrown error", func(t *testing.T) {
		out, err := runner.Run(context.Background(), `throw new Error('boom');`, "@")
		require.NoError(t, err)

		tr := executor.DecodeTranscript(out.Stdout, "@")
		assert.True(t, tr.Complete)
		assert.Equal(t, []executor.OutputEvent{{Kind: executor.KindError, Text: "boom"}}, tr.Events)
	})

	t.Run("infinite loop timeout", func(t *testing.T) {
		// Override timeout for this test to be fast
		fastCfg := cfg
		fastCfg.Timeout = 2 * time.Second
		fastRunner, err := docker.New(fastCfg, logger)
		require.NoError(t, err)
		defer fastRunner.Close()

		out, err := fastRunner.Run(context.Background(), `while (true) {}`, "@")
		require.NoError(t, err)
		assert.True(t, out.TimedOut)
		assert.Equal(t, 124, out.ExitCode)
	})
}
