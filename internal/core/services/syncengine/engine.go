package syncengine

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Gennadyy7/rssi-analyzer/internal/core/domain"
	"github.com/Gennadyy7/rssi-analyzer/internal/core/ports"
	"github.com/Gennadyy7/rssi-analyzer/internal/telemetry"
)

const (
	DefaultInterval    = time.Second
	DefaultPollBackoff = time.Second
)

// Options configures an Engine. Zero values select the defaults.
type Options struct {
	// Interval is the pause before every membership poll and round.
	Interval time.Duration
	// HistorySize is the capacity of every rolling history.
	HistorySize int
	// PollBackoff is the re-poll delay while no adapter is available.
	PollBackoff time.Duration
	Observer    ports.EngineObserver
	Logger      *slog.Logger
}

// Engine drives barrier-synchronised sampling rounds over a changing set of
// adapters and publishes the aggregate after every round.
type Engine struct {
	registry   ports.AdapterRegistry
	capability ports.AdapterCapability
	opts       Options
	log        *slog.Logger
	tracer     trace.Tracer
	pub        *publication
}

// New creates an engine. Nothing runs until Run is called.
func New(registry ports.AdapterRegistry, capability ports.AdapterCapability, opts Options) *Engine {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.HistorySize < 1 {
		opts.HistorySize = domain.DefaultHistorySize
	}
	if opts.PollBackoff <= 0 {
		opts.PollBackoff = DefaultPollBackoff
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Engine{
		registry:   registry,
		capability: capability,
		opts:       opts,
		log:        opts.Logger.With("component", "syncengine"),
		tracer:     otel.Tracer("syncengine"),
		pub:        newPublication(opts.HistorySize),
	}
}

// Latest returns a copy of the most recent publication.
func (e *Engine) Latest() View {
	return e.pub.latest()
}

// Wait blocks until a publication newer than afterVersion exists.
func (e *Engine) Wait(ctx context.Context, afterVersion uint64) (View, error) {
	return e.pub.wait(ctx, afterVersion)
}

// Run executes the round loop until ctx is done. Adapter failures never end
// it; they lead to a rebuild or to the degraded all-lost state.
func (e *Engine) Run(ctx context.Context) error {
	adapters, err := e.registry.Enumerate(ctx)
	if err != nil {
		e.log.Warn("Initial adapter enumeration failed", "error", err)
	}

	var st *engineState
	defer func() { e.stop(st) }()

	if len(adapters) == 0 {
		st, err = e.recoverAll(ctx, nil, domain.MembershipInitial)
		if err != nil {
			return nil
		}
	} else {
		st = e.reconfigure(ctx, adapters, domain.MembershipInitial)
	}

	timer := time.NewTimer(e.opts.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			e.log.Info("Sync engine stopping", "generation", st.generation)
			return nil
		case <-timer.C:
		}

		adapters, err := e.registry.Enumerate(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			e.log.Warn("Adapter enumeration failed, skipping round", "error", err)
			timer.Reset(e.opts.Interval)
			continue
		}

		switch ev := classify(st, adapters); ev {
		case domain.MembershipAllLost:
			st, err = e.recoverAll(ctx, st, ev)
			if err != nil {
				return nil
			}
		case domain.MembershipPartialMismatch:
			e.log.Info("Adapter membership changed",
				"generation", st.generation,
				"live", st.liveIDs(),
				"enumerated", domain.AdapterIDs(adapters))
			e.stop(st)
			st = e.reconfigure(ctx, adapters, ev)
		case domain.MembershipStable:
			e.runRound(ctx, st)
		}

		timer.Reset(e.opts.Interval)
	}
}

// reconfigure builds a fresh state for adapters, publishes the reset and
// starts one worker per adapter.
func (e *Engine) reconfigure(ctx context.Context, adapters []domain.Adapter, reason domain.MembershipEvent) *engineState {
	st := newEngineState(ctx, adapters)
	e.pub.reset(st.generation, st.ids, false)

	for i := range st.adapters {
		st.wg.Add(1)
		go e.sample(st, i)
	}

	telemetry.Rebuilds.WithLabelValues(reason.String()).Inc()
	telemetry.ActiveAdapters.Set(float64(len(st.adapters)))
	telemetry.TrackedNetworks.Set(0)
	e.log.Info("Engine rebuilt",
		"generation", st.generation,
		"reason", reason.String(),
		"adapters", st.ids)

	if e.opts.Observer != nil {
		e.opts.Observer.OnRebuild(ctx, domain.RebuildEvent{
			Generation: st.generation,
			Reason:     reason,
			Adapters:   append([]string(nil), st.ids...),
			At:         time.Now(),
		})
	}
	return st
}

// stop deactivates st, breaks its barrier and joins its workers.
// It is safe to call more than once.
func (e *Engine) stop(st *engineState) {
	if st == nil {
		return
	}
	st.active.Store(false)
	st.barrier.Abort()
	st.cancel()
	st.wg.Wait()
}

// recoverAll clears the published state, then polls the registry until at
// least one adapter is present and rebuilds around it. It only fails when
// ctx ends.
func (e *Engine) recoverAll(ctx context.Context, st *engineState, reason domain.MembershipEvent) (*engineState, error) {
	e.stop(st)
	e.pub.reset("", nil, true)
	telemetry.ActiveAdapters.Set(0)
	telemetry.TrackedNetworks.Set(0)
	e.log.Warn("All adapters lost, waiting for an adapter to appear", "backoff", e.opts.PollBackoff)

	for {
		adapters, err := e.registry.Enumerate(ctx)
		if err != nil && ctx.Err() == nil {
			e.log.Debug("Adapter enumeration failed", "error", err)
		}
		if len(adapters) > 0 {
			return e.reconfigure(ctx, adapters, reason), nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(e.opts.PollBackoff):
		}
	}
}

// runRound is the coordinator's half of one round. If a worker exits while
// the coordinator waits, it gives up and the next poll rebuilds.
func (e *Engine) runRound(ctx context.Context, st *engineState) {
	start := time.Now()

	if err := st.barrier.Wait(st.lostCtx); err != nil {
		e.log.Debug("Round abandoned", "generation", st.generation, "error", err)
		return
	}

	_, span := e.tracer.Start(ctx, "syncengine/CommitRound")
	avg := aggregate(st.slots)
	snap := domain.NewSnapshot(st.ids, st.slots)
	round, tracked := e.pub.commit(snap, avg)
	span.SetAttributes(
		attribute.String("generation", st.generation),
		attribute.Int64("round", int64(round)),
		attribute.Int("adapters", len(st.adapters)),
		attribute.Int("networks", tracked),
	)
	span.End()

	st.clearSlots()
	if err := st.barrier.Wait(st.lostCtx); err != nil {
		e.log.Debug("Release abandoned", "generation", st.generation, "error", err)
	}

	elapsed := time.Since(start)
	telemetry.RoundsCommitted.Inc()
	telemetry.TrackedNetworks.Set(float64(tracked))
	telemetry.RoundDuration.Observe(elapsed.Seconds())

	if e.opts.Observer != nil {
		e.opts.Observer.OnRound(ctx, domain.RoundEvent{
			Generation: st.generation,
			Round:      round,
			Adapters:   len(st.adapters),
			Networks:   tracked,
			Duration:   elapsed,
			At:         time.Now(),
		})
	}
}
