package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Gennadyy7/rssi-analyzer/internal/core/domain"
	"github.com/Gennadyy7/rssi-analyzer/internal/core/ports"
	"github.com/Gennadyy7/rssi-analyzer/internal/core/services/analysis"
)

// StateHandler serves the latest published engine state.
type StateHandler struct {
	Source   ports.StateSource
	Settings *domain.SettingsStore
}

// NewStateHandler creates a new StateHandler
func NewStateHandler(source ports.StateSource, settings *domain.SettingsStore) *StateHandler {
	return &StateHandler{
		Source:   source,
		Settings: settings,
	}
}

// HandleNetworks returns one report per tracked network.
func (h *StateHandler) HandleNetworks(w http.ResponseWriter, r *http.Request) {
	v := h.Source.Latest()
	writeJSON(w, http.StatusOK, analysis.Analyze(v, h.Settings.Get()))
}

// HandleState returns the raw histories and the latest snapshot.
func (h *StateHandler) HandleState(w http.ResponseWriter, r *http.Request) {
	v := h.Source.Latest()
	if v.Adapters == nil {
		v.Adapters = []string{}
	}
	if v.Histories == nil {
		v.Histories = map[domain.NetworkID][]float64{}
	}
	writeJSON(w, http.StatusOK, v)
}

// HandleHealth reports liveness. A degraded engine is still healthy.
func (h *StateHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	v := h.Source.Latest()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"degraded": v.Degraded,
		"round":    v.Round,
		"adapters": len(v.Adapters),
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
