package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/code-editor/internal/advisor"
	"github.com/sakif/code-editor/internal/render"
	"github.com/sakif/code-editor/internal/service"
)

// Advisor is the slice of the advisory service the handler needs.
type Advisor interface {
	Respond(ctx context.Context, source string, action advisor.Action, language string) (*service.Advice, error)
}

// AdviseRequest is the body of POST /api/advise.
type AdviseRequest struct {
	Code     string `json:"code"`
	Action   string `json:"action"`
	Language string `json:"language"`
}

// AdviseHandler serves the AI action buttons.
type AdviseHandler struct {
	advisor Advisor
	logger  *slog.Logger
}

// NewAdviseHandler creates a new AdviseHandler.
func NewAdviseHandler(a Advisor, logger *slog.Logger) *AdviseHandler {
	return &AdviseHandler{advisor: a, logger: logger}
}

// HandleAdvise returns a recommendation for the submitted code.
//
// HTTP: POST /api/advise[?format=html]
// REQUEST BODY: {"code": "...", "action": "explain", "language": "javascript"}
//
// QUERY PARAMETERS:
// format=html additionally returns the text rendered to the panel's markup
// (<pre>, <code>, <br />), so thin clients don't need their own formatter.
func (h *AdviseHandler) HandleAdvise(w http.ResponseWriter, r *http.Request) {
	var req AdviseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid advise request body", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid JSON body",
		})
		return
	}

	advice, err := h.advisor.Respond(r.Context(), req.Code, advisor.Action(req.Action), req.Language)
	if err != nil {
		// The client disconnected during the delay; nobody is left to read a response
		if errors.Is(err, context.Canceled) {
			h.logger.Debug("advise request canceled", slog.String("action", req.Action))
			return
		}
		h.logger.Error("advise failed", slog.String("action", req.Action), slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "html" {
		advice.HTML = render.HTML(advice.Text)
	}

	writeJSON(w, http.StatusOK, advice)
}
