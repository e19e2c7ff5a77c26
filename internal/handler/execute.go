package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/code-editor/internal/executor"
)

// Executor is the slice of the execution service the handler needs.
// Declaring it here (where it's used) lets tests pass a fake without docker or node.
type Executor interface {
	Execute(ctx context.Context, source, language string) (*executor.ExecutionResult, error)
}

// ExecuteHandler handles code execution requests.
type ExecuteHandler struct {
	exec   Executor
	logger *slog.Logger
}

// NewExecuteHandler creates a new ExecuteHandler.
func NewExecuteHandler(exec Executor, logger *slog.Logger) *ExecuteHandler {
	return &ExecuteHandler{
		exec:   exec,
		logger: logger,
	}
}

// HandleExecute runs the submitted code.
//
// HTTP: POST /api/execute
// REQUEST BODY: {"code": "console.log(1)", "language": "javascript"}
//
// The response is always 200 with an ExecutionResult once the body is valid:
// thrown errors, timeouts and unsupported languages are events, not HTTP errors.
func (h *ExecuteHandler) HandleExecute(w http.ResponseWriter, r *http.Request) {
	var req executor.ExecutionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid execution request body", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid JSON body",
		})
		return
	}

	result, err := h.exec.Execute(r.Context(), req.Code, req.Language)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
