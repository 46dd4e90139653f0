package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Gennadyy7/rssi-analyzer/internal/adapters/web/middleware"
)

func SetupRoutes(s *Server) http.Handler {
	r := mux.NewRouter()

	// 10 settings changes per minute per client
	settingsLimiter := middleware.NewRateLimiter(10, 1*time.Minute)

	r.HandleFunc("/api/networks", s.StateHandler.HandleNetworks).Methods(http.MethodGet)
	r.HandleFunc("/api/state", s.StateHandler.HandleState).Methods(http.MethodGet)
	r.HandleFunc("/api/settings", s.SettingsHandler.HandleGetSettings).Methods(http.MethodGet)
	r.Handle("/api/settings", middleware.RateLimitMiddleware(settingsLimiter)(http.HandlerFunc(s.SettingsHandler.HandleUpdateSettings))).Methods(http.MethodPut)
	r.HandleFunc("/api/report.pdf", s.ReportHandler.HandleReportPDF).Methods(http.MethodGet)

	if s.EventsHandler != nil {
		r.HandleFunc("/api/events/rebuilds", s.EventsHandler.HandleRebuilds).Methods(http.MethodGet)
		r.HandleFunc("/api/events/anomalies", s.EventsHandler.HandleAnomalies).Methods(http.MethodGet)
	}

	r.HandleFunc("/ws", s.WSManager.HandleWebSocket).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.StateHandler.HandleHealth).Methods(http.MethodGet)

	return r
}
