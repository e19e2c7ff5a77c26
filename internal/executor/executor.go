package executor

import (
	"context"
)

// EventKind classifies a line of execution output.
type EventKind string

const (
	// KindLog is a line captured from console.log.
	KindLog EventKind = "log"
	// KindError carries the message of a thrown value or an execution failure.
	KindError EventKind = "error"
	// KindResult carries the formatted return value, prefixed with "Result: ".
	KindResult EventKind = "result"
)

// ExecutionRequest represents a request to execute code.
type ExecutionRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

// OutputEvent is one line of output, in emission order.
type OutputEvent struct {
	Kind EventKind `json:"kind"`
	Text string    `json:"text"`
}

// ExecutionResult represents the output of a single execution.
// Events holds the captured logs in order, followed by at most one result or error event.
type ExecutionResult struct {
	ID        string        `json:"id"`
	Events    []OutputEvent `json:"events"`
	ElapsedMs float64       `json:"elapsedMs"`
}

// RunOutput is the raw output of one harness run inside a backend.
type RunOutput struct {
	Stdout   string
	Stderr   string
	ExitCode int
	TimedOut bool
}

// Runner evaluates JavaScript source with the embedded harness in an isolated process.
// mark prefixes every protocol line the harness writes (see HarnessEnv).
// Implementations return an error only when the backend itself fails; failures of the
// evaluated code are reported through RunOutput.
type Runner interface {
	Run(ctx context.Context, source, mark string) (*RunOutput, error)
	Name() string
}
