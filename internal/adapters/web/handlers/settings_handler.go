package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/Gennadyy7/rssi-analyzer/internal/core/domain"
	"github.com/Gennadyy7/rssi-analyzer/internal/telemetry"
)

const maxSettingsBody = 4 << 10

// SettingsHandler handles analysis settings
type SettingsHandler struct {
	Settings *domain.SettingsStore
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settings *domain.SettingsStore) *SettingsHandler {
	return &SettingsHandler{
		Settings: settings,
	}
}

// HandleGetSettings returns current settings
func (h *SettingsHandler) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Settings.Get())
}

// HandleUpdateSettings applies a partial update. Nothing changes unless every
// supplied field is valid.
func (h *SettingsHandler) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch domain.SettingsPatch
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSettingsBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&patch); err != nil {
		h.reject(w, "invalid request body: "+err.Error())
		return
	}

	if err := h.Settings.Apply(patch); err != nil {
		log.Printf("Settings update rejected: %v", err)
		h.reject(w, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, h.Settings.Get())
}

func (h *SettingsHandler) reject(w http.ResponseWriter, msg string) {
	telemetry.SettingsRejected.WithLabelValues("http").Inc()
	writeJSON(w, http.StatusBadRequest, map[string]interface{}{
		"error":    msg,
		"settings": h.Settings.Get(),
	})
}
