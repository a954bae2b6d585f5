package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ScenarioHandler handles scenario generation requests.
type ScenarioHandler struct {
	engine Engine
	logger *slog.Logger
}

// NewScenarioHandler creates a scenario handler.
func NewScenarioHandler(e Engine, logger *slog.Logger) *ScenarioHandler {
	return &ScenarioHandler{engine: e, logger: logger}
}

// RegisterRoutes registers scenario routes on the mux.
func (h *ScenarioHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/scenarios/generate", h.handleGenerate)
}

// GenerateRequest is the request body for scenario generation.
type GenerateRequest struct {
	PlayerID     string  `json:"player_id"`
	SkillRating  float64 `json:"skill_rating"`
	ScenarioType string  `json:"scenario_type"`
}

// GenerateResponse is the response body for scenario generation.
// RecordID is empty when persistence is disabled or the save failed.
type GenerateResponse struct {
	Content         string  `json:"content"`
	ScenarioType    string  `json:"scenario_type"`
	DifficultyLabel string  `json:"difficulty_label"`
	DifficultyLevel float64 `json:"difficulty_level"`
	Provider        string  `json:"provider"`
	RecordID        string  `json:"record_id,omitempty"`
}

func (h *ScenarioHandler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "request body must be valid JSON")
		return
	}
	if req.ScenarioType == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "scenario_type is required")
		return
	}

	result, recordID := h.engine.GenerateScenario(r.Context(), req.PlayerID, req.SkillRating, req.ScenarioType)

	writeJSON(w, http.StatusOK, GenerateResponse{
		Content:         result.Content,
		ScenarioType:    result.ScenarioType,
		DifficultyLabel: result.DifficultyLabel,
		DifficultyLevel: result.DifficultyLevel,
		Provider:        result.Provider,
		RecordID:        recordID,
	})
}
