package app

import (
	"context"
	"log/slog"

	"github.com/Gennadyy7/rssi-analyzer/internal/core/domain"
	"github.com/Gennadyy7/rssi-analyzer/internal/core/ports"
	"github.com/Gennadyy7/rssi-analyzer/internal/core/services/analysis"
	"github.com/Gennadyy7/rssi-analyzer/internal/core/services/syncengine"
	"github.com/Gennadyy7/rssi-analyzer/internal/telemetry"
)

// engineObserver journals rebuilds. It runs on the engine's coordinator, so
// it must not block for long.
type engineObserver struct {
	journal ports.EventJournal
	log     *slog.Logger
}

func (o *engineObserver) OnRebuild(ctx context.Context, ev domain.RebuildEvent) {
	if o.journal == nil {
		return
	}
	if err := o.journal.RecordRebuild(ctx, ev); err != nil {
		o.log.Warn("Failed to journal rebuild", "generation", ev.Generation, "error", err)
	}
}

func (o *engineObserver) OnRound(_ context.Context, ev domain.RoundEvent) {
	o.log.Debug("Round committed",
		"generation", ev.Generation,
		"round", ev.Round,
		"adapters", ev.Adapters,
		"networks", ev.Networks,
		"duration", ev.Duration)
}

// runAnomalyRecorder analyzes every observed publication and counts and
// journals its jump and divergence flags.
func runAnomalyRecorder(ctx context.Context, src ports.StateSource, settings *domain.SettingsStore, journal ports.EventJournal, log *slog.Logger) error {
	return syncengine.Follow(ctx, src, func(v domain.StateView) error {
		if v.Degraded || v.Round == 0 {
			return nil
		}
		events := analysis.Anomalies(v, analysis.Analyze(v, settings.Get()))
		if len(events) == 0 {
			return nil
		}

		for _, ev := range events {
			telemetry.Anomalies.WithLabelValues(string(ev.Kind)).Inc()
			log.Info("Anomaly detected", "network", ev.Network, "kind", ev.Kind, "value", ev.Value, "round", ev.Round)
		}
		if journal != nil {
			if err := journal.RecordAnomalies(ctx, events); err != nil && ctx.Err() == nil {
				log.Warn("Failed to journal anomalies", "count", len(events), "error", err)
			}
		}
		return nil
	})
}
