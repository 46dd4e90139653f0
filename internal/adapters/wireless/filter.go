package wireless

import (
	"context"

	"github.com/Gennadyy7/rssi-analyzer/internal/core/domain"
	"github.com/Gennadyy7/rssi-analyzer/internal/core/ports"
)

// FilteredRegistry narrows another registry's result. SkipFirst drops the
// first adapter, usually the built-in card; Allow keeps only the named ones.
type FilteredRegistry struct {
	Inner     ports.AdapterRegistry
	SkipFirst bool
	Allow     []string
}

// Enumerate applies the filters to the inner registry's result.
func (f *FilteredRegistry) Enumerate(ctx context.Context) ([]domain.Adapter, error) {
	adapters, err := f.Inner.Enumerate(ctx)
	if err != nil {
		return nil, err
	}

	if f.SkipFirst && len(adapters) > 0 {
		adapters = adapters[1:]
	}
	if len(f.Allow) == 0 {
		return adapters, nil
	}

	allowed := make(map[string]bool, len(f.Allow))
	for _, name := range f.Allow {
		allowed[name] = true
	}
	out := adapters[:0:0]
	for _, a := range adapters {
		if allowed[a.Name] {
			out = append(out, a)
		}
	}
	return out, nil
}
