package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Gennadyy7/rssi-analyzer/internal/core/domain"
)

const (
	defaultEventLimit = 50
	maxEventLimit     = 500
)

// EventLog is the read side of the event journal.
type EventLog interface {
	RecentRebuilds(ctx context.Context, limit int) ([]domain.RebuildEvent, error)
	RecentAnomalies(ctx context.Context, limit int) ([]domain.AnomalyEvent, error)
}

// EventsHandler exposes recent journal entries for inspection.
type EventsHandler struct {
	Log EventLog
}

func NewEventsHandler(l EventLog) *EventsHandler {
	return &EventsHandler{Log: l}
}

func (h *EventsHandler) HandleRebuilds(w http.ResponseWriter, r *http.Request) {
	events, err := h.Log.RecentRebuilds(r.Context(), limitParam(r))
	if err != nil {
		http.Error(w, "Failed to read journal", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *EventsHandler) HandleAnomalies(w http.ResponseWriter, r *http.Request) {
	events, err := h.Log.RecentAnomalies(r.Context(), limitParam(r))
	if err != nil {
		http.Error(w, "Failed to read journal", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func limitParam(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n <= 0 {
		return defaultEventLimit
	}
	return min(n, maxEventLimit)
}
