package docker

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/sakif/code-editor/internal/apperror"
	"github.com/sakif/code-editor/internal/executor"
)

// Runner implements the executor.Runner interface using Docker.
type Runner struct {
	cli    *client.Client
	config Config
	logger *slog.Logger
	pool   *Pool
}

var _ executor.Runner = (*Runner)(nil)

// New creates a new Docker Runner, pulls the image and starts the container pool.
func New(cfg Config, logger *slog.Logger) (*Runner, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, apperror.Unavailable("docker", fmt.Errorf("creating client: %w", err))
	}

	// Make sure the image is pulled
	ctx, cancel := context.WithTimeout(context.Background(), cfg.PullTimeout)
	defer cancel()

	logger.Info("ensuring docker image is available", slog.String("image", cfg.Image))
	reader, err := cli.ImagePull(ctx, cfg.Image, image.PullOptions{})
	if err != nil {
		cli.Close()
		return nil, apperror.Unavailable("docker", fmt.Errorf("pulling image %s: %w", cfg.Image, err))
	}
	defer reader.Close()
	// Read everything to block until the pull is complete
	if _, err := io.Copy(io.Discard, reader); err != nil {
		cli.Close()
		return nil, apperror.Unavailable("docker", fmt.Errorf("reading pull progress: %w", err))
	}
	logger.Info("docker image is ready", slog.String("image", cfg.Image))

	r := &Runner{
		cli:    cli,
		config: cfg,
		logger: logger,
	}

	r.pool = NewPool(cli, cfg, logger)
	r.pool.Start()

	return r, nil
}

// Timeout is the per-run limit.
func (r *Runner) Timeout() time.Duration { return r.config.Timeout }

// Name identifies the backend in logs and health output.
func (r *Runner) Name() string { return "docker" }

// Close shuts down the container pool and docker client.
func (r *Runner) Close() error {
	r.pool.Stop()
	return r.cli.Close()
}

// Run evaluates source with the harness inside a pre-warmed container.
// Each container is used for exactly one run and then removed.
func (r *Runner) Run(ctx context.Context, source, mark string) (*executor.RunOutput, error) {
	containerID, err := r.pool.GetContainer(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting container from pool: %w", err)
	}

	// Always ensure we clean up the container that we acquired
	defer r.pool.removeContainer(containerID)

	executeCtx, executeCancel := context.WithTimeout(ctx, r.config.Timeout)
	defer executeCancel()

	execResp, err := r.cli.ContainerExecCreate(executeCtx, containerID, container.ExecOptions{
		AttachStdout: true,
		AttachStderr: true,
		Env:          executor.HarnessEnv(source, mark),
		WorkingDir:   "/tmp",
		Cmd:          []string{"node", "-e", executor.HarnessScript()},
	})
	if err != nil {
		return nil, apperror.Unavailable("docker", fmt.Errorf("creating exec: %w", err))
	}

	attachResp, err := r.cli.ContainerExecAttach(executeCtx, execResp.ID, container.ExecStartOptions{})
	if err != nil {
		return nil, apperror.Unavailable("docker", fmt.Errorf("attaching to exec: %w", err))
	}
	defer attachResp.Close()

	var stdout, stderr bytes.Buffer

	done := make(chan struct{})
	go func() {
		// Use stdcopy to demultiplex stdout from stderr
		_, _ = stdcopy.StdCopy(&stdout, &stderr, attachResp.Reader)
		close(done)
	}()

	out := &executor.RunOutput{}

	select {
	case <-done:
		inspectResp, err := r.cli.ContainerExecInspect(ctx, execResp.ID)
		if err == nil {
			out.ExitCode = inspectResp.ExitCode
		}
	case <-executeCtx.Done():
		// Unblock the copier before touching the buffers; the deferred removal kills node
		attachResp.Close()
		<-done
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		out.TimedOut = true
		out.ExitCode = 124 // same as the unix timeout command
	}

	out.Stdout = stdout.String()
	out.Stderr = stderr.String()

	r.logger.Debug("container exec finished",
		slog.String("container", shortID(containerID)),
		slog.Int("exitCode", out.ExitCode),
		slog.Bool("timedOut", out.TimedOut),
		slog.Duration("limit", r.config.Timeout),
	)

	return out, nil
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
