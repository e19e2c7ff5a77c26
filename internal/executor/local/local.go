// Package local runs the harness in a node subprocess on the host.
//
// There is no container boundary here: the evaluated code runs with the
// server's user, filesystem and network. Use it for development and tests;
// production deployments use the docker backend.
package local

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/sakif/code-editor/internal/apperror"
	"github.com/sakif/code-editor/internal/executor"
)

// Config holds the configuration for subprocess execution.
type Config struct {
	// NodeBinary is the node executable, looked up in PATH when not absolute.
	NodeBinary string
	// Timeout is the maximum amount of time one evaluation can take.
	Timeout time.Duration
	// MaxConcurrent bounds the number of node processes alive at once.
	MaxConcurrent int64
}

// DefaultConfig returns the development defaults.
func DefaultConfig() Config {
	return Config{
		NodeBinary:    "node",
		Timeout:       5 * time.Second,
		MaxConcurrent: 4,
	}
}

// Runner implements executor.Runner with os/exec.
type Runner struct {
	node   string
	config Config
	sem    *semaphore.Weighted
	logger *slog.Logger
}

var _ executor.Runner = (*Runner)(nil)

// New resolves the node binary and returns a ready Runner.
func New(cfg Config, logger *slog.Logger) (*Runner, error) {
	node, err := exec.LookPath(cfg.NodeBinary)
	if err != nil {
		return nil, apperror.Unavailable("node", err)
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 1
	}

	logger.Info("local executor ready",
		slog.String("node", node),
		slog.Int64("maxConcurrent", cfg.MaxConcurrent),
	)

	return &Runner{
		node:   node,
		config: cfg,
		sem:    semaphore.NewWeighted(cfg.MaxConcurrent),
		logger: logger,
	}, nil
}

// Timeout is the per-run limit.
func (r *Runner) Timeout() time.Duration { return r.config.Timeout }

// Name identifies the backend in logs and health output.
func (r *Runner) Name() string { return "local" }

// Run evaluates source in a fresh node process.
func (r *Runner) Run(ctx context.Context, source, mark string) (*executor.RunOutput, error) {
	// Waiting for a slot counts against the caller's context, not the execution timeout
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("waiting for a node slot: %w", err)
	}
	defer r.sem.Release(1)

	runCtx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, r.node, "-e", executor.HarnessScript())
	cmd.Env = append([]string{
		"PATH=" + os.Getenv("PATH"),
		"HOME=" + os.TempDir(),
	}, executor.HarnessEnv(source, mark)...)
	cmd.Dir = os.TempDir()
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	out := &executor.RunOutput{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	switch {
	case err == nil:
	case errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
		out.TimedOut = true
		out.ExitCode = 124
	case ctx.Err() != nil:
		return nil, ctx.Err()
	default:
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, apperror.Unavailable("node", err)
		}
		out.ExitCode = exitErr.ExitCode()
	}

	r.logger.Debug("node process finished",
		slog.Int("exitCode", out.ExitCode),
		slog.Bool("timedOut", out.TimedOut),
	)

	return out, nil
}
