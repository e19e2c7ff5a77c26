// Package main is the entry point for the code editor backend.
//
// MAIN PACKAGE IN GO:
// The main package is the composition root. Its job is to:
// 1. Read configuration (defaults, YAML file, .env, env vars, flags)
// 2. Create dependencies (logger, execution backend, services)
// 3. Hand them to the server or run a one-off command
//
// COMMANDS:
//   code-editor serve                       HTTP API on :8080
//   code-editor run [file|-]                execute a file (or stdin) and print its output
//   code-editor advise <action> [file|-]    print a canned advisory response
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sakif/code-editor/internal/config"
	"github.com/sakif/code-editor/internal/executor"
	"github.com/sakif/code-editor/internal/executor/docker"
	"github.com/sakif/code-editor/internal/executor/local"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries what every subcommand needs once flags are parsed.
type app struct {
	v          *viper.Viper
	configFile string
	cfg        config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "code-editor",
		Short:         "Backend for the browser code editor: code execution and AI actions",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.v, a.configFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "path to a YAML config file")
	root.PersistentFlags().String("backend", config.BackendDocker, "execution backend: docker, local or none")
	root.PersistentFlags().Duration("timeout", 0, "per-execution time limit (default 5s)")
	root.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	_ = a.v.BindPFlag("executor.backend", root.PersistentFlags().Lookup("backend"))
	_ = a.v.BindPFlag("executor.timeout", root.PersistentFlags().Lookup("timeout"))
	_ = a.v.BindPFlag("log.level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(newServeCmd(a), newRunCmd(a), newAdviseCmd(a))
	return root
}

// newLogger builds the slog logger described by cfg.
func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// newRunner creates the configured execution backend.
//
// A backend that fails to start is not fatal: the server still comes up and
// executions report "unavailable" as an event. The returned close func is
// always safe to call.
func newRunner(cfg config.Config, logger *slog.Logger) (executor.Runner, func()) {
	switch cfg.Executor.Backend {
	case config.BackendDocker:
		r, err := docker.New(docker.Config{
			Image:       cfg.Docker.Image,
			MemoryLimit: cfg.Docker.MemoryLimit,
			CPULimit:    cfg.Docker.CPULimit,
			Timeout:     cfg.Executor.Timeout,
			PoolSize:    cfg.Docker.PoolSize,
			PullTimeout: cfg.Docker.PullTimeout,
		}, logger)
		if err != nil {
			logger.Warn("docker executor unavailable, executions will report errors",
				slog.String("error", err.Error()),
			)
			return nil, func() {}
		}
		return r, func() {
			if err := r.Close(); err != nil {
				logger.Warn("closing docker executor", slog.String("error", err.Error()))
			}
		}

	case config.BackendLocal:
		r, err := local.New(local.Config{
			NodeBinary:    cfg.Executor.NodeBinary,
			Timeout:       cfg.Executor.Timeout,
			MaxConcurrent: cfg.Executor.MaxConcurrent,
		}, logger)
		if err != nil {
			logger.Warn("local executor unavailable, executions will report errors",
				slog.String("error", err.Error()),
			)
			return nil, func() {}
		}
		return r, func() {}

	default:
		logger.Info("no execution backend configured")
		return nil, func() {}
	}
}

// readSource reads the file named by args[0], or stdin for "-" or no argument.
func readSource(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", args[0], err)
	}
	return string(b), nil
}
