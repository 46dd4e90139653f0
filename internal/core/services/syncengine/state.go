package syncengine

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/Gennadyy7/rssi-analyzer/internal/core/domain"
)

// engineState is everything that belongs to one generation of the engine.
// A membership change discards it and builds a new one; it is never patched.
type engineState struct {
	generation string
	adapters   []domain.Adapter
	ids        []string
	slots      []domain.Readings
	barrier    *Barrier

	ctx    context.Context
	cancel context.CancelFunc
	// lostCtx is cancelled by the first worker that exits so the
	// coordinator stops waiting for it.
	lostCtx context.Context
	lost    context.CancelFunc

	active atomic.Bool
	wg     sync.WaitGroup

	mu   sync.Mutex
	live map[string]struct{}
}

func newEngineState(parent context.Context, adapters []domain.Adapter) *engineState {
	adapters = uniqueAdapters(adapters)

	st := &engineState{
		generation: uuid.NewString(),
		adapters:   adapters,
		ids:        domain.AdapterIDs(adapters),
		slots:      make([]domain.Readings, len(adapters)),
		barrier:    NewBarrier(len(adapters) + 1),
		live:       make(map[string]struct{}, len(adapters)),
	}
	st.ctx, st.cancel = context.WithCancel(parent)
	st.lostCtx, st.lost = context.WithCancel(st.ctx)

	for i, a := range adapters {
		st.slots[i] = make(domain.Readings)
		st.live[a.ID()] = struct{}{}
	}
	st.active.Store(true)
	return st
}

// markLost removes a worker from the live set and wakes the coordinator.
func (st *engineState) markLost(id string) {
	st.mu.Lock()
	delete(st.live, id)
	st.mu.Unlock()
	st.lost()
}

func (st *engineState) liveIDs() []string {
	st.mu.Lock()
	defer st.mu.Unlock()
	ids := make([]string, 0, len(st.live))
	for id := range st.live {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (st *engineState) clearSlots() {
	for _, s := range st.slots {
		clear(s)
	}
}

// classify compares the live workers of st with a fresh enumeration.
// A nil state has no live workers.
func classify(st *engineState, enumerated []domain.Adapter) domain.MembershipEvent {
	if st == nil {
		return domain.MembershipAllLost
	}
	live := st.liveIDs()
	if len(live) == 0 || len(enumerated) == 0 {
		return domain.MembershipAllLost
	}
	// a dead worker leaves its barrier party missing even if the registry
	// dropped its adapter at the same time
	if len(live) != len(st.adapters) {
		return domain.MembershipPartialMismatch
	}
	if !sameIDs(live, domain.AdapterIDs(uniqueAdapters(enumerated))) {
		return domain.MembershipPartialMismatch
	}
	return domain.MembershipStable
}

func sameIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// uniqueAdapters drops duplicate ids and sorts by id.
func uniqueAdapters(adapters []domain.Adapter) []domain.Adapter {
	seen := make(map[string]struct{}, len(adapters))
	out := make([]domain.Adapter, 0, len(adapters))
	for _, a := range adapters {
		if _, ok := seen[a.ID()]; ok {
			continue
		}
		seen[a.ID()] = struct{}{}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}
