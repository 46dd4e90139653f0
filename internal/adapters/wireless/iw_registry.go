package wireless

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Gennadyy7/rssi-analyzer/internal/core/domain"
)

const enumerateAttempts = 3

// IWRegistry enumerates wireless interfaces with `iw dev`.
type IWRegistry struct {
	Runner CommandRunner
	// RetryDelay separates attempts after a failed `iw dev`.
	RetryDelay time.Duration
}

// NewIWRegistry returns a registry backed by the host's iw binary.
func NewIWRegistry() *IWRegistry {
	return &IWRegistry{Runner: ExecRunner{}, RetryDelay: 200 * time.Millisecond}
}

// Enumerate lists managed-mode interfaces ordered by phy index. Transient
// failures of the iw command are retried a few times.
func (r *IWRegistry) Enumerate(ctx context.Context) ([]domain.Adapter, error) {
	var lastErr error
	for attempt := 0; attempt < enumerateAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(r.RetryDelay):
			}
		}

		out, err := r.Runner.Run(ctx, "iw", "dev")
		if err != nil {
			lastErr = fmt.Errorf("iw dev: %v (%s)", err, strings.TrimSpace(string(out)))
			continue
		}
		return parseIWDev(out), nil
	}
	return nil, lastErr
}

type iwInterface struct {
	phy   int
	name  string
	addr  string
	itype string
}

// parseIWDev extracts interfaces from `iw dev` output:
//
//	phy#0
//		Interface wlan0
//			addr 00:11:22:33:44:55
//			type managed
func parseIWDev(out []byte) []domain.Adapter {
	var ifaces []*iwInterface
	var cur *iwInterface
	phy := -1

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "phy#"):
			n, err := strconv.Atoi(strings.TrimPrefix(line, "phy#"))
			if err != nil {
				n = -1
			}
			phy = n
			cur = nil
		case strings.HasPrefix(line, "Interface "):
			cur = &iwInterface{phy: phy, name: strings.TrimSpace(strings.TrimPrefix(line, "Interface "))}
			ifaces = append(ifaces, cur)
		case cur != nil && strings.HasPrefix(line, "addr "):
			cur.addr = strings.TrimSpace(strings.TrimPrefix(line, "addr "))
		case cur != nil && strings.HasPrefix(line, "type "):
			cur.itype = strings.TrimSpace(strings.TrimPrefix(line, "type "))
		}
	}

	sort.SliceStable(ifaces, func(i, j int) bool {
		if ifaces[i].phy != ifaces[j].phy {
			return ifaces[i].phy < ifaces[j].phy
		}
		return ifaces[i].name < ifaces[j].name
	})

	adapters := make([]domain.Adapter, 0, len(ifaces))
	for _, it := range ifaces {
		// only station interfaces can scan
		if it.itype != "" && it.itype != "managed" {
			continue
		}
		phyName := ""
		if it.phy >= 0 {
			phyName = fmt.Sprintf("phy%d", it.phy)
		}
		a, err := domain.NewAdapter(it.name, phyName, it.addr)
		if err != nil {
			slog.Debug("Skipping interface", "interface", it.name, "error", err)
			continue
		}
		adapters = append(adapters, a)
	}
	return adapters
}
