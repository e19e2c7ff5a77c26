package handler

import "net/http"

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
}

// HandleHealth reports liveness and which execution backend is wired.
// A server without a backend is still healthy; executions report it as an event.
func HandleHealth(backend string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Backend: backend})
	}
}
