package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/sakif/code-editor/internal/advisor"
	"github.com/sakif/code-editor/internal/metrics"
	"github.com/sakif/code-editor/internal/server"
	"github.com/sakif/code-editor/internal/service"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(a)
		},
	}
	cmd.Flags().Int("port", 8080, "port to listen on")
	_ = a.v.BindPFlag("port", cmd.Flags().Lookup("port"))
	return cmd
}

func serve(a *app) error {
	cfg := a.cfg
	logger := newLogger(cfg.Log, os.Stdout)

	// === METRICS ===
	// A private registry keeps /metrics limited to what we register here.
	var (
		observer metrics.Observer = metrics.Nop{}
		gatherer prometheus.Gatherer
	)
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		obs, err := metrics.NewPrometheusObserver(cfg.Metrics.Namespace, reg)
		if err != nil {
			return fmt.Errorf("registering metrics: %w", err)
		}
		observer, gatherer = obs, reg
	}

	// === EXECUTION BACKEND ===
	runner, closeRunner := newRunner(cfg, logger)
	defer closeRunner()

	execSvc := service.NewExecutionService(runner, observer, logger)
	advSvc := service.NewAdvisoryService(advisor.Canned{}, cfg.Advisor.Delay, observer, logger)

	srv := server.New(server.Config{
		Port:    cfg.Port,
		Backend: execSvc.Backend(),
		// Leave room for pool waits and container start on top of the run itself
		WriteTimeout: cfg.Executor.Timeout + cfg.Advisor.Delay + 30*time.Second,
	}, server.Services{
		Executor: execSvc,
		Advisor:  advSvc,
		Metrics:  gatherer,
	}, logger)

	// Start() blocks until the server is shut down (via Ctrl+C or SIGTERM)
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		return err
	}
	return nil
}
