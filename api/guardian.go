package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/socialproof/socialproof/internal/guardian"
)

// GuardianHandler handles Digital Guardian question answering.
type GuardianHandler struct {
	engine Engine
	logger *slog.Logger
}

// NewGuardianHandler creates a guardian handler.
func NewGuardianHandler(e Engine, logger *slog.Logger) *GuardianHandler {
	return &GuardianHandler{engine: e, logger: logger}
}

// RegisterRoutes registers guardian routes on the mux.
func (h *GuardianHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/guardian/query", h.handleQuery)
}

// QueryRequest is the request body for a guardian question.
type QueryRequest struct {
	Question string `json:"question"`
}

func (h *GuardianHandler) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "request body must be valid JSON")
		return
	}

	answer, err := h.engine.AskGuardian(r.Context(), req.Question)
	if err != nil {
		switch {
		case errors.Is(err, guardian.ErrEmptyQuestion):
			writeError(w, http.StatusBadRequest, "invalid_request", "question is required")
		case errors.Is(err, guardian.ErrUnavailable):
			writeError(w, http.StatusServiceUnavailable, "guardian_unavailable",
				"the Digital Guardian is not available right now")
		default:
			h.logger.Error("guardian query failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "")
		}
		return
	}

	writeJSON(w, http.StatusOK, answer)
}
