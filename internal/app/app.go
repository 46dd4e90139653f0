package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"google.golang.org/grpc"

	"github.com/Gennadyy7/rssi-analyzer/internal/adapters/console"
	"github.com/Gennadyy7/rssi-analyzer/internal/adapters/grpcapi"
	"github.com/Gennadyy7/rssi-analyzer/internal/adapters/publish"
	"github.com/Gennadyy7/rssi-analyzer/internal/adapters/reporting"
	"github.com/Gennadyy7/rssi-analyzer/internal/adapters/storage"
	webserver "github.com/Gennadyy7/rssi-analyzer/internal/adapters/web/server"
	"github.com/Gennadyy7/rssi-analyzer/internal/adapters/wireless"
	"github.com/Gennadyy7/rssi-analyzer/internal/config"
	"github.com/Gennadyy7/rssi-analyzer/internal/core/domain"
	"github.com/Gennadyy7/rssi-analyzer/internal/core/ports"
	"github.com/Gennadyy7/rssi-analyzer/internal/core/services/syncengine"
	"github.com/Gennadyy7/rssi-analyzer/internal/telemetry"
)

// mockNetworks is the number of simulated access points.
const mockNetworks = 8

// Application holds the core components of the application.
// It acts as the Facade for the entire system, orchestrating services and infrastructure.
type Application struct {
	Config     *config.Config
	Settings   *domain.SettingsStore
	Engine     *syncengine.Engine
	Registry   ports.AdapterRegistry
	Capability ports.AdapterCapability
	Journal    *storage.Journal
	WebServer  *webserver.Server
	GrpcServer *grpc.Server
	Publishers []publish.Publisher
	Console    *console.Console
	Watcher    *config.SettingsWatcher
	Simulator  *wireless.Simulator

	pcap   *wireless.PcapCapability
	nats   *publish.NATSPublisher
	redis  *publish.RedisPublisher
	logger *slog.Logger
}

// New creates a new Application instance and bootstraps its components.
func New(cfg *config.Config) (*Application, error) {
	app := &Application{
		Config: cfg,
		logger: slog.Default().With("component", "app"),
	}

	if err := app.bootstrap(); err != nil {
		app.cleanup()
		return nil, fmt.Errorf("application bootstrap failed: %w", err)
	}

	return app, nil
}

// bootstrap orchestrates the initialization sequence.
func (app *Application) bootstrap() error {
	// 1. Foundation & Infrastructure
	telemetry.InitMetrics()

	if err := app.initSettings(); err != nil {
		return err
	}
	if err := app.initJournal(); err != nil {
		return err
	}

	// 2. Adapters
	if err := app.initAdapters(); err != nil {
		return err
	}

	// 3. Engine
	var journal ports.EventJournal
	if app.Journal != nil {
		journal = app.Journal
	}
	app.Engine = syncengine.New(app.Registry, app.Capability, syncengine.Options{
		Interval:    app.Config.Interval,
		HistorySize: app.Config.HistorySize,
		PollBackoff: app.Config.PollBackoff,
		Observer:    &engineObserver{journal: journal, log: slog.Default().With("component", "observer")},
		Logger:      slog.Default(),
	})

	// 4. Consumers
	app.initServers()
	app.initPublishers()
	if app.Config.Console {
		app.Console = console.New(app.Engine, app.Settings, os.Stdout)
	}

	return nil
}

func (app *Application) initSettings() error {
	app.Settings = domain.NewSettingsStore()
	if app.Config.SettingsPath == "" {
		return nil
	}

	if err := config.ApplySettingsFile(app.Settings, app.Config.SettingsPath); err != nil {
		app.logger.Warn("Settings file rejected, using defaults", "path", app.Config.SettingsPath, "error", err)
	}

	w, err := config.NewSettingsWatcher(app.Config.SettingsPath, app.Settings, slog.Default())
	if err != nil {
		return fmt.Errorf("settings watcher: %w", err)
	}
	app.Watcher = w
	return nil
}

func (app *Application) initJournal() error {
	if app.Config.DBPath == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(app.Config.DBPath), 0755); err != nil {
		return fmt.Errorf("failed to create DB directory: %w", err)
	}

	j, err := storage.NewJournal(app.Config.DBPath)
	if err != nil {
		return fmt.Errorf("failed to init event journal: %w", err)
	}
	app.Journal = j
	return nil
}

func (app *Application) initAdapters() error {
	var inner ports.AdapterRegistry

	switch app.Config.Backend {
	case config.BackendMock:
		names := app.Config.Interfaces
		if len(names) == 0 {
			for i := 1; i <= app.Config.MockAdapters; i++ {
				names = append(names, fmt.Sprintf("wlan%d", i))
			}
		}
		app.Simulator = wireless.NewSimulator(names, mockNetworks, 0)
		inner, app.Capability = app.Simulator, app.Simulator
		app.logger.Info("Mock Mode Active: simulating adapters", "adapters", names)

	case config.BackendPcap:
		app.pcap = wireless.NewPcapCapability(app.Config.Dwell)
		inner, app.Capability = wireless.NewIWRegistry(), app.pcap

	case config.BackendIW:
		inner, app.Capability = wireless.NewIWRegistry(), wireless.NewIWScanner()

	default:
		return fmt.Errorf("unknown backend %q", app.Config.Backend)
	}

	app.Registry = &wireless.FilteredRegistry{
		Inner:     inner,
		SkipFirst: app.Config.SkipFirst,
		Allow:     app.Config.Interfaces,
	}
	return nil
}

func (app *Application) initServers() {
	opts := webserver.Options{AllowedOrigins: app.Config.AllowedOrigins}
	if app.Journal != nil {
		opts.Events = app.Journal
	}
	app.WebServer = webserver.NewServer(app.Config.Addr, app.Engine, app.Settings, reporting.NewPDFExporter(), opts)

	if app.Config.GRPCAddr != "" {
		app.GrpcServer = grpcapi.NewGrpcServer(app.Engine, app.Settings)
	}
}

func (app *Application) initPublishers() {
	if app.Config.NATSURL != "" {
		app.nats = publish.NewNATSPublisher(app.Config.NATSSubject)
		// The publisher stays a no-op until a connection exists
		if err := app.nats.Connect(app.Config.NATSURL); err != nil {
			app.logger.Warn("NATS unavailable, summaries will not be published", "error", err)
		}
		app.Publishers = append(app.Publishers, app.nats)
	}

	if app.Config.RedisAddr != "" {
		app.redis = publish.NewRedisPublisher(app.Config.RedisAddr, app.Config.RedisKey, 0)
		if err := app.redis.Ping(context.Background()); err != nil {
			app.logger.Warn("Redis unreachable, will keep trying every round", "addr", app.Config.RedisAddr, "error", err)
		}
		app.Publishers = append(app.Publishers, app.redis)
	}
}

// Run starts the application components and manages their execution lifecycle.
func (app *Application) Run(ctx context.Context) error {
	app.logger.Info("Starting rssi-analyzer components...", "backend", app.Config.Backend, "interval", app.Config.Interval)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	errChan := make(chan error, 16)
	var wg sync.WaitGroup
	start := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(runCtx); err != nil {
				errChan <- fmt.Errorf("%s error: %w", name, err)
			}
		}()
	}

	start("engine", app.Engine.Run)
	start("web server", app.WebServer.Run)

	var journal ports.EventJournal
	if app.Journal != nil {
		journal = app.Journal
	}
	start("anomaly recorder", func(ctx context.Context) error {
		return runAnomalyRecorder(ctx, app.Engine, app.Settings, journal, slog.Default().With("component", "anomalies"))
	})

	if app.GrpcServer != nil {
		start("grpc server", func(ctx context.Context) error {
			return grpcapi.Serve(ctx, app.Config.GRPCAddr, app.GrpcServer)
		})
	}
	for _, p := range app.Publishers {
		start(p.Name()+" publisher", func(ctx context.Context) error {
			return publish.Run(ctx, app.Engine, app.Settings, p)
		})
	}
	if app.Console != nil {
		start("console", app.Console.Run)
	}
	if app.Watcher != nil {
		start("settings watcher", app.Watcher.Run)
	}
	if app.Simulator != nil && app.Config.MockHotplug > 0 {
		adapters, _ := app.Simulator.Enumerate(runCtx)
		if len(adapters) > 0 {
			victim := adapters[len(adapters)-1].Name
			start("hotplug", func(ctx context.Context) error {
				app.Simulator.Hotplug(ctx, victim, app.Config.MockHotplug)
				return nil
			})
		}
	}

	app.logger.Info("rssi-analyzer ready. Press Ctrl+C to terminate.", "addr", app.Config.Addr)

	var runErr error
	select {
	case <-ctx.Done():
		app.logger.Info("Termination signal received")
	case runErr = <-errChan:
	}

	cancel()
	wg.Wait()
	return errors.Join(runErr, app.cleanup())
}

func (app *Application) cleanup() error {
	app.logger.Info("Cleaning up resources...")

	var errs []error
	if app.nats != nil {
		app.nats.Disconnect()
	}
	if app.redis != nil {
		errs = append(errs, app.redis.Close())
	}
	if app.pcap != nil {
		app.pcap.Close()
	}
	if app.Journal != nil {
		errs = append(errs, app.Journal.Close())
	}
	return errors.Join(errs...)
}
