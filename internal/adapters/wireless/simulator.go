package wireless

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/Gennadyy7/rssi-analyzer/internal/core/domain"
)

// Common SSIDs for realistic mock data
var commonSSIDs = []string{
	"HomeNetwork", "NETGEAR-5G", "Starbucks WiFi", "TP-Link_2.4GHz",
	"Linksys", "ATT-WiFi", "Xfinity", "Google Fiber",
	"Office-Network", "Guest-WiFi", "MyWiFi", "Home-2.4G",
	"DIRECT-Printer", "AndroidAP", "iPhone", "Samsung Galaxy",
	"CoffeeShop_Free", "Airport_WiFi", "Hotel-Guest", "Apartment_5G",
}

type simNetwork struct {
	ssid  string
	level float64
	// step is the per-scan drift; its sign flips at the range limits
	step float64
}

type simAdapter struct {
	adapter domain.Adapter
	offset  map[string]float64
}

// Simulator stands in for real hardware in mock mode. Networks drift slowly,
// every adapter sees them with its own offset and noise, and adapters can be
// unplugged and plugged back at runtime.
type Simulator struct {
	// MissRate is the chance that an adapter misses a network in one scan.
	MissRate float64
	// ScanDelay emulates the time a hardware scan takes.
	ScanDelay time.Duration

	mu       sync.Mutex
	rand     *rand.Rand
	networks []*simNetwork
	known    map[string]*simAdapter
	plugged  map[string]bool
}

// NewSimulator creates a simulator with the given adapters plugged in and
// networks visible networks.
func NewSimulator(adapters []string, networks int, seed int64) *Simulator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if networks <= 0 || networks > len(commonSSIDs) {
		networks = len(commonSSIDs)
	}

	s := &Simulator{
		ScanDelay: 300 * time.Millisecond,
		rand:      rand.New(rand.NewSource(seed)),
		known:     make(map[string]*simAdapter),
		plugged:   make(map[string]bool),
	}
	for _, ssid := range commonSSIDs[:networks] {
		s.networks = append(s.networks, &simNetwork{
			ssid:  ssid,
			level: -85 + s.rand.Float64()*50,
			step:  (s.rand.Float64() - 0.5) * 4,
		})
	}
	for i, name := range adapters {
		s.ensure(name, i)
		s.plugged[name] = true
	}
	return s
}

func (s *Simulator) ensure(name string, idx int) *simAdapter {
	if a, ok := s.known[name]; ok {
		return a
	}
	a := &simAdapter{
		adapter: domain.Adapter{
			Name: name,
			Phy:  fmt.Sprintf("phy%d", idx),
			MAC:  fmt.Sprintf("02:00:00:00:00:%02x", idx&0xff),
		},
		offset: make(map[string]float64),
	}
	for _, n := range s.networks {
		a.offset[n.ssid] = (s.rand.Float64() - 0.5) * 10
	}
	s.known[name] = a
	return a
}

// Enumerate returns the plugged adapters sorted by name.
func (s *Simulator) Enumerate(ctx context.Context) ([]domain.Adapter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Adapter, 0, len(s.plugged))
	for name := range s.plugged {
		out = append(out, s.known[name].adapter)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Scan advances the simulation one step and returns what a sees.
func (s *Simulator) Scan(ctx context.Context, a domain.Adapter) (domain.Readings, error) {
	if s.ScanDelay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.ScanDelay):
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.plugged[a.Name] {
		return nil, fmt.Errorf("simulated %s: %w", a.Name, domain.ErrAdapterUnavailable)
	}
	sa := s.known[a.Name]

	readings := make(domain.Readings, len(s.networks))
	for _, n := range s.networks {
		n.level += n.step / float64(len(s.plugged))
		if n.level > -30 || n.level < -90 {
			n.step = -n.step
			n.level = math.Max(-90, math.Min(-30, n.level))
		}
		if s.MissRate > 0 && s.rand.Float64() < s.MissRate {
			continue
		}
		noise := (s.rand.Float64() - 0.5) * 3
		readings[domain.NetworkID(n.ssid)] = domain.Signal(math.Round(n.level + sa.offset[n.ssid] + noise))
	}
	return readings, nil
}

// Unplug removes an adapter: it disappears from enumeration and its next
// scan fails.
func (s *Simulator) Unplug(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.plugged, name)
}

// Plug adds an adapter, creating it if it was never seen.
func (s *Simulator) Plug(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure(name, len(s.known))
	s.plugged[name] = true
}

// Hotplug toggles adapter name every period until ctx is done.
func (s *Simulator) Hotplug(ctx context.Context, name string, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			present := s.plugged[name]
			s.mu.Unlock()
			if present {
				slog.Info("Simulated unplug", "adapter", name)
				s.Unplug(name)
			} else {
				slog.Info("Simulated plug", "adapter", name)
				s.Plug(name)
			}
		}
	}
}
