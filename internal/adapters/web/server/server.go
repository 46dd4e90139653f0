package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Gennadyy7/rssi-analyzer/internal/adapters/reporting"
	"github.com/Gennadyy7/rssi-analyzer/internal/adapters/web"
	"github.com/Gennadyy7/rssi-analyzer/internal/adapters/web/handlers"
	"github.com/Gennadyy7/rssi-analyzer/internal/core/domain"
	"github.com/Gennadyy7/rssi-analyzer/internal/core/ports"
)

// Options configures optional parts of the server.
type Options struct {
	AllowedOrigins []string
	// Events enables the journal endpoints when set.
	Events handlers.EventLog
}

// Server handles HTTP and WebSocket connections.
type Server struct {
	Addr      string
	Source    ports.StateSource
	Settings  *domain.SettingsStore
	WSManager *web.WSManager

	StateHandler    *handlers.StateHandler
	SettingsHandler *handlers.SettingsHandler
	ReportHandler   *handlers.ReportHandler
	EventsHandler   *handlers.EventsHandler
	srv             *http.Server
}

// NewServer creates a new web server.
func NewServer(addr string, source ports.StateSource, settings *domain.SettingsStore, pdfExporter *reporting.PDFExporter, opts Options) *Server {
	s := &Server{
		Addr:     addr,
		Source:   source,
		Settings: settings,

		WSManager:       web.NewWSManager(source, settings, opts.AllowedOrigins),
		StateHandler:    handlers.NewStateHandler(source, settings),
		SettingsHandler: handlers.NewSettingsHandler(settings),
		ReportHandler:   handlers.NewReportHandler(source, settings, pdfExporter),
	}
	if opts.Events != nil {
		s.EventsHandler = handlers.NewEventsHandler(opts.Events)
	}
	return s
}

// Handler returns the instrumented route tree.
func (s *Server) Handler() http.Handler {
	// "rssi-server" is the name of the operation (span)
	return otelhttp.NewHandler(SetupRoutes(s), "rssi-server")
}

// Run starts the server and the broadcaster.
func (s *Server) Run(ctx context.Context) error {
	// Start WS Manager
	s.WSManager.Start(ctx)

	s.srv = &http.Server{
		Addr:              s.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful Shutdown implementation
	go func() {
		<-ctx.Done()
		log.Println("Web Server shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Web Server shutdown error: %v", err)
		}
	}()

	log.Printf("Web server listening on %s", s.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
