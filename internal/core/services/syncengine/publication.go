package syncengine

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Gennadyy7/rssi-analyzer/internal/core/domain"
	"github.com/Gennadyy7/rssi-analyzer/internal/core/ports"
)

// View is a consumer's private copy of the published state.
type View = domain.StateView

// publication guards the aggregate state and the last snapshot. Every
// publish closes changed and replaces it, waking all waiters at once.
type publication struct {
	mu        sync.RWMutex
	changed   chan struct{}
	version   uint64
	capacity  int
	gen       string
	round     uint64
	degraded  bool
	adapters  []string
	histories map[domain.NetworkID]*domain.RollingHistory
	snapshot  domain.Snapshot
	updatedAt time.Time
}

func newPublication(capacity int) *publication {
	return &publication{
		changed:   make(chan struct{}),
		capacity:  capacity,
		histories: make(map[domain.NetworkID]*domain.RollingHistory),
	}
}

// reset replaces the whole state in one step and publishes it.
func (p *publication) reset(gen string, adapters []string, degraded bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.gen = gen
	p.round = 0
	p.degraded = degraded
	p.adapters = append([]string(nil), adapters...)
	p.histories = make(map[domain.NetworkID]*domain.RollingHistory)
	p.snapshot = domain.NewSnapshot(nil, nil)
	p.broadcastLocked()
}

// commit stores the round snapshot, appends every average to its history and
// evicts histories of networks missing from this round's aggregate. A single
// transient miss by one adapter drops the network's whole history.
func (p *publication) commit(snap domain.Snapshot, avg map[domain.NetworkID]float64) (round uint64, tracked int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.snapshot = snap
	for id, v := range avg {
		h, ok := p.histories[id]
		if !ok {
			h = domain.NewRollingHistory(p.capacity)
			p.histories[id] = h
		}
		h.Append(v)
	}
	// A single round's miss drops the whole history.
	for id := range p.histories {
		if _, ok := avg[id]; !ok {
			delete(p.histories, id)
		}
	}

	p.round++
	p.broadcastLocked()
	return p.round, len(p.histories)
}

func (p *publication) broadcastLocked() {
	p.version++
	p.updatedAt = time.Now()
	close(p.changed)
	p.changed = make(chan struct{})
}

func (p *publication) latest() View {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.viewLocked()
}

// wait blocks until a publication newer than after exists and returns a copy
// of the latest one. Intermediate publications are not replayed.
func (p *publication) wait(ctx context.Context, after uint64) (View, error) {
	for {
		p.mu.RLock()
		if p.version > after {
			v := p.viewLocked()
			p.mu.RUnlock()
			return v, nil
		}
		ch := p.changed
		p.mu.RUnlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return View{}, ctx.Err()
		}
	}
}

func (p *publication) viewLocked() View {
	hist := make(map[domain.NetworkID][]float64, len(p.histories))
	for id, h := range p.histories {
		hist[id] = h.Values()
	}
	return View{
		Version:    p.version,
		Generation: p.gen,
		Round:      p.round,
		Degraded:   p.degraded,
		Adapters:   append([]string{}, p.adapters...),
		Histories:  hist,
		Snapshot:   p.snapshot,
		UpdatedAt:  p.updatedAt,
	}
}

// NetworkIDs returns the tracked network ids of v in sorted order.
func NetworkIDs(v View) []domain.NetworkID {
	ids := make([]domain.NetworkID, 0, len(v.Histories))
	for id := range v.Histories {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Follow calls fn with every publication src makes until ctx is done or fn
// returns an error. A slow fn skips publications; it always sees the latest.
func Follow(ctx context.Context, src ports.StateSource, fn func(View) error) error {
	var last uint64
	for {
		v, err := src.Wait(ctx, last)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
		last = v.Version
		if err := fn(v); err != nil {
			return err
		}
	}
}
