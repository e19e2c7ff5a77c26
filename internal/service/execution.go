// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
// In a well-structured Go web app, code is organised into layers:
//
//   Handler (HTTP layer)     → parses requests, writes responses
//   Service (Business layer) → validates, enforces rules, orchestrates
//   Backend (Runner/Responder) → does the actual work out of process
//
// The services here accept primitives (source, language, action) and return
// plain structs, so the same code serves the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/code-editor/internal/apperror"
	"github.com/sakif/code-editor/internal/executor"
	"github.com/sakif/code-editor/internal/metrics"
	"github.com/sakif/code-editor/internal/model"
)

// MaxSourceLength caps the source size. The harness receives the source base64
// encoded in a single environment variable, and Linux limits one env string to 128 KiB.
const MaxSourceLength = 64 * 1024

// User-facing messages for failures that never reach the evaluated code.
const (
	msgUnavailable = "Code execution is currently unavailable."
	msgCanceled    = "Execution was canceled."
)

// ExecutionService runs code and reports what happened.
//
// THE "NEVER THROW, ALWAYS REPORT" CONTRACT:
// Once a request passes validation, Execute always returns a result. Thrown
// exceptions, timeouts, a dead docker daemon: every failure becomes a single
// trailing `error` event. Callers render events; they never need an error branch
// for problems with the evaluated code or the sandbox.
type ExecutionService struct {
	runner   executor.Runner // nil when no backend is configured
	observer metrics.Observer
	logger   *slog.Logger
}

// NewExecutionService creates a new ExecutionService.
// runner may be nil: every supported-language execution then reports the
// "unavailable" error event instead of running.
func NewExecutionService(runner executor.Runner, observer metrics.Observer, logger *slog.Logger) *ExecutionService {
	if observer == nil {
		observer = metrics.Nop{}
	}
	return &ExecutionService{
		runner:   runner,
		observer: observer,
		logger:   logger,
	}
}

// Backend names the configured runner, or "none".
func (s *ExecutionService) Backend() string {
	if s.runner == nil {
		return "none"
	}
	return s.runner.Name()
}

// Execute evaluates source as the body of a parameterless JavaScript function.
//
// The only error it returns is apperror.ErrValidation for an over-long source.
// Everything else, including unsupported languages, is reported as events.
func (s *ExecutionService) Execute(ctx context.Context, source, language string) (*executor.ExecutionResult, error) {
	if len(source) > MaxSourceLength {
		return nil, apperror.ValidationFailed("code",
			fmt.Sprintf("code must be %d characters or less", MaxSourceLength))
	}

	result := &executor.ExecutionResult{
		ID:     xid.New().String(),
		Events: []executor.OutputEvent{},
	}

	// === LANGUAGE GATE ===
	// No evaluation attempt, no timing: elapsedMs stays 0.
	if language != model.JavaScript {
		result.Events = append(result.Events, executor.OutputEvent{
			Kind: executor.KindError,
			Text: fmt.Sprintf("Language '%s' execution is not supported in this demo. Only JavaScript is supported.", language),
		})
		s.observer.RecordExecution(s.Backend(), metrics.OutcomeUnsupported, 0)
		s.logger.Info("execution rejected",
			slog.String("id", result.ID),
			slog.String("language", language),
			slog.String("outcome", metrics.OutcomeUnsupported),
		)
		return result, nil
	}

	start := time.Now()
	outcome, measured := s.run(ctx, source, result)
	wall := time.Since(start)

	// The harness times the evaluation alone; fall back to wall time when it never finished
	if !measured {
		result.ElapsedMs = float64(wall.Microseconds()) / 1000
	}

	s.observer.RecordExecution(s.Backend(), outcome, wall)
	s.logger.Info("code executed",
		slog.String("id", result.ID),
		slog.String("backend", s.Backend()),
		slog.Int("events", len(result.Events)),
		slog.Float64("elapsedMs", result.ElapsedMs),
		slog.Duration("wall", wall),
		slog.String("outcome", outcome),
	)

	return result, nil
}

// run calls the runner and fills result. It returns the metrics outcome label and
// whether result.ElapsedMs was measured by the harness.
func (s *ExecutionService) run(ctx context.Context, source string, result *executor.ExecutionResult) (string, bool) {
	if s.runner == nil {
		appendError(result, msgUnavailable)
		return metrics.OutcomeUnavailable, false
	}

	// The execution ID doubles as the protocol mark: xids are alphanumeric and
	// can't collide with JSON or anything a reasonable program prints.
	mark := result.ID + ":"

	out, err := s.runner.Run(ctx, source, mark)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			appendError(result, msgCanceled)
			return metrics.OutcomeError, false
		default:
			s.logger.Error("execution backend failed",
				slog.String("id", result.ID),
				slog.String("backend", s.runner.Name()),
				slog.String("error", err.Error()),
			)
			appendError(result, msgUnavailable)
			return metrics.OutcomeUnavailable, false
		}
	}

	transcript := executor.DecodeTranscript(out.Stdout, mark)
	result.Events = append(result.Events, transcript.Events...)
	if len(transcript.Stray) > 0 {
		s.logger.Debug("ignored unmarked stdout",
			slog.String("id", result.ID),
			slog.Int("lines", len(transcript.Stray)),
		)
	}

	switch {
	case transcript.Complete:
		result.ElapsedMs = transcript.ElapsedMs
	case out.TimedOut:
		appendError(result, timeoutMessage(s.runner))
		return metrics.OutcomeTimeout, false
	default:
		appendError(result, abnormalExit(out))
		return metrics.OutcomeError, false
	}

	for _, ev := range result.Events {
		if ev.Kind == executor.KindError {
			return metrics.OutcomeError, true
		}
	}
	return metrics.OutcomeOK, true
}

func appendError(result *executor.ExecutionResult, text string) {
	result.Events = append(result.Events, executor.OutputEvent{Kind: executor.KindError, Text: text})
}

// timeoutMessage names the limit when the runner exposes it.
func timeoutMessage(r executor.Runner) string {
	if lr, ok := r.(interface{ Timeout() time.Duration }); ok {
		return apperror.Timeout("Execution", lr.Timeout()).Error() + "."
	}
	return "Execution timed out."
}

// abnormalExit describes a harness that never wrote its done line, typically
// because the code called process.exit or node crashed.
func abnormalExit(out *executor.RunOutput) string {
	lines := strings.Split(strings.TrimSpace(out.Stderr), "\n")
	if last := strings.TrimSpace(lines[len(lines)-1]); last != "" {
		return last
	}
	return fmt.Sprintf("Execution ended unexpectedly (exit code %d).", out.ExitCode)
}
