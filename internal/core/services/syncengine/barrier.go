package syncengine

import (
	"context"
	"errors"
	"sync"
)

// ErrBrokenBarrier is returned by Wait once the barrier has been aborted.
var ErrBrokenBarrier = errors.New("syncengine: barrier broken")

type generation struct {
	// ch is closed when the generation trips or breaks
	ch     chan struct{}
	broken bool
}

// Barrier is a cyclic rendezvous point for a fixed number of parties.
// Once aborted it stays broken; every pending and future Wait fails.
type Barrier struct {
	mu      sync.Mutex
	parties int
	count   int
	gen     *generation
}

// NewBarrier creates a barrier that trips when parties callers are waiting.
func NewBarrier(parties int) *Barrier {
	if parties < 1 {
		parties = 1
	}
	return &Barrier{
		parties: parties,
		gen:     &generation{ch: make(chan struct{})},
	}
}

// Parties returns the number of callers required to trip the barrier.
func (b *Barrier) Parties() int {
	return b.parties
}

// Broken reports whether Abort has been called.
func (b *Barrier) Broken() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.gen.broken
}

// Wait blocks until all parties have arrived, the barrier is aborted or ctx
// is done. A caller whose ctx ends before the barrier trips withdraws its
// arrival and the barrier stays usable for the others.
func (b *Barrier) Wait(ctx context.Context) error {
	b.mu.Lock()
	g := b.gen
	if g.broken {
		b.mu.Unlock()
		return ErrBrokenBarrier
	}

	b.count++
	if b.count == b.parties {
		b.count = 0
		close(g.ch)
		b.gen = &generation{ch: make(chan struct{})}
		b.mu.Unlock()
		return nil
	}
	b.mu.Unlock()

	select {
	case <-g.ch:
		b.mu.Lock()
		defer b.mu.Unlock()
		if g.broken {
			return ErrBrokenBarrier
		}
		return nil
	case <-ctx.Done():
		b.mu.Lock()
		defer b.mu.Unlock()
		if g.broken {
			return ErrBrokenBarrier
		}
		if b.gen != g {
			// tripped while we were leaving
			return nil
		}
		b.count--
		return ctx.Err()
	}
}

// Abort breaks the barrier and releases every waiter with ErrBrokenBarrier.
// Calling it again is a no-op.
func (b *Barrier) Abort() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.gen.broken {
		return
	}
	b.gen.broken = true
	close(b.gen.ch)
}
