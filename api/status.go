package api

import (
	"log/slog"
	"net/http"
)

// StatusHandler serves provider status, configuration validation and
// corpus reload.
type StatusHandler struct {
	engine Engine
	logger *slog.Logger
}

// NewStatusHandler creates a status handler.
func NewStatusHandler(e Engine, logger *slog.Logger) *StatusHandler {
	return &StatusHandler{engine: e, logger: logger}
}

// RegisterRoutes registers status routes on the mux.
func (h *StatusHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/ai/provider", h.handleProvider)
	mux.HandleFunc("GET /api/ai/validate", h.handleValidate)
	mux.HandleFunc("POST /api/corpus/reload", h.handleReload)
}

func (h *StatusHandler) handleProvider(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.ProviderStatus())
}

func (h *StatusHandler) handleValidate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.Validate())
}

func (h *StatusHandler) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.ReloadCorpus(r.Context()); err != nil {
		h.logger.Error("corpus reload failed", "error", err)
		writeError(w, http.StatusInternalServerError, "reload_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.engine.ProviderStatus())
}
