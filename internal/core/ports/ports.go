package ports

import (
	"context"

	"github.com/Gennadyy7/rssi-analyzer/internal/core/domain"
)

// AdapterRegistry enumerates the adapters currently available. The set may
// shrink or grow between calls; the engine treats each result as ground truth.
type AdapterRegistry interface {
	Enumerate(ctx context.Context) ([]domain.Adapter, error)
}

// AdapterCapability scans one adapter and returns what it can hear.
// It returns domain.ErrAdapterUnavailable once the adapter is gone. An empty
// result is treated by the engine the same way.
type AdapterCapability interface {
	Scan(ctx context.Context, adapter domain.Adapter) (domain.Readings, error)
}

// StateSource is the notification channel exposed by the engine. Consumers
// wait for a publication newer than the last one they saw and then read a
// copy. Missed publications are not queued.
type StateSource interface {
	Latest() domain.StateView
	Wait(ctx context.Context, afterVersion uint64) (domain.StateView, error)
}

// EngineObserver receives lifecycle events from the engine. Implementations
// must not block.
type EngineObserver interface {
	OnRebuild(ctx context.Context, ev domain.RebuildEvent)
	OnRound(ctx context.Context, ev domain.RoundEvent)
}

// EventJournal records engine and anomaly events.
type EventJournal interface {
	RecordRebuild(ctx context.Context, ev domain.RebuildEvent) error
	RecordAnomalies(ctx context.Context, events []domain.AnomalyEvent) error
	Close() error
}
