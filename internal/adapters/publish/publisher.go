// Package publish forwards every observed engine publication to external
// sinks. Sinks are ordinary consumers: a slow sink only ever sees the latest
// state and never holds up a round.
package publish

import (
	"context"
	"log"

	"github.com/Gennadyy7/rssi-analyzer/internal/core/domain"
	"github.com/Gennadyy7/rssi-analyzer/internal/core/ports"
	"github.com/Gennadyy7/rssi-analyzer/internal/core/services/analysis"
	"github.com/Gennadyy7/rssi-analyzer/internal/core/services/syncengine"
)

// Publisher delivers one summary to a sink.
type Publisher interface {
	Publish(ctx context.Context, s analysis.Summary) error
	Name() string
}

// Run follows src and hands every publication to p until ctx is done.
// Delivery failures are logged and the next publication is tried anyway.
func Run(ctx context.Context, src ports.StateSource, settings *domain.SettingsStore, p Publisher) error {
	return syncengine.Follow(ctx, src, func(v domain.StateView) error {
		if err := p.Publish(ctx, analysis.Summarize(v, settings.Get())); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Printf("%s: publish round %d failed: %v", p.Name(), v.Round, err)
		}
		return nil
	})
}
