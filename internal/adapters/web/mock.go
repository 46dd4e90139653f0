package web

import (
	"context"
	"sync"
	"time"

	"github.com/Gennadyy7/rssi-analyzer/internal/core/domain"
)

// MockStateSource is an in-memory ports.StateSource for handler and stream tests.
type MockStateSource struct {
	mu      sync.Mutex
	view    domain.StateView
	changed chan struct{}
}

// NewMockStateSource creates a source whose latest view is v with version 1.
func NewMockStateSource(v domain.StateView) *MockStateSource {
	v.Version = 1
	if v.UpdatedAt.IsZero() {
		v.UpdatedAt = time.Now()
	}
	return &MockStateSource{view: v, changed: make(chan struct{})}
}

// Publish replaces the latest view and wakes every waiter.
func (m *MockStateSource) Publish(v domain.StateView) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v.Version = m.view.Version + 1
	m.view = v
	close(m.changed)
	m.changed = make(chan struct{})
}

func (m *MockStateSource) Latest() domain.StateView {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view
}

func (m *MockStateSource) Wait(ctx context.Context, afterVersion uint64) (domain.StateView, error) {
	for {
		m.mu.Lock()
		if m.view.Version > afterVersion {
			v := m.view
			m.mu.Unlock()
			return v, nil
		}
		ch := m.changed
		m.mu.Unlock()

		select {
		case <-ctx.Done():
			return domain.StateView{}, ctx.Err()
		case <-ch:
		}
	}
}
