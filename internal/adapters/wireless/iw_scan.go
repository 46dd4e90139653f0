package wireless

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Gennadyy7/rssi-analyzer/internal/core/domain"
	"github.com/Gennadyy7/rssi-analyzer/internal/telemetry"
)

// DefaultBusyRetry is the pause between scans while an adapter is busy.
const DefaultBusyRetry = 100 * time.Millisecond

// IWScanner triggers `iw dev <iface> scan` and reads signal levels per SSID.
type IWScanner struct {
	Runner    CommandRunner
	BusyRetry time.Duration
}

// NewIWScanner returns a scanner backed by the host's iw binary.
func NewIWScanner() *IWScanner {
	return &IWScanner{Runner: ExecRunner{}, BusyRetry: DefaultBusyRetry}
}

// Scan returns the signal of every named network the adapter can hear. While
// the adapter reports busy it retries until ctx is done. Any other failure
// means the adapter is gone.
func (s *IWScanner) Scan(ctx context.Context, a domain.Adapter) (domain.Readings, error) {
	retry := s.BusyRetry
	if retry <= 0 {
		retry = DefaultBusyRetry
	}

	for {
		out, err := s.Runner.Run(ctx, "iw", "dev", a.Name, "scan")
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err == nil {
			return parseScan(out), nil
		}

		text := string(out)
		if !isBusy(text) {
			log.Printf("Scan failed on %s: %v (%s)", a.Name, err, strings.TrimSpace(text))
			return nil, fmt.Errorf("scan %s: %w", a.Name, domain.ErrAdapterUnavailable)
		}

		telemetry.BusyRetries.WithLabelValues(a.Name).Inc()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retry):
		}
	}
}

func isBusy(out string) bool {
	return strings.Contains(out, "Device or resource busy") || strings.Contains(out, "(-16)")
}

// parseScan extracts SSID and signal pairs from `iw dev <iface> scan`
// output. Hidden networks are skipped; the last BSS wins for a repeated SSID.
func parseScan(out []byte) domain.Readings {
	readings := make(domain.Readings)

	var (
		inBSS     bool
		ssid      string
		signal    float64
		hasSignal bool
	)
	flush := func() {
		if inBSS && hasSignal && ssid != "" {
			readings[domain.NetworkID(ssid)] = domain.Signal(math.Round(signal))
		}
		ssid, hasSignal = "", false
	}

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		raw := scanner.Text()
		line := strings.TrimSpace(raw)

		if strings.HasPrefix(raw, "BSS ") {
			flush()
			inBSS = true
			continue
		}
		if !inBSS {
			continue
		}

		switch {
		case strings.HasPrefix(line, "signal:"):
			fields := strings.Fields(strings.TrimPrefix(line, "signal:"))
			if len(fields) == 0 {
				continue
			}
			if v, err := strconv.ParseFloat(fields[0], 64); err == nil {
				signal, hasSignal = v, true
			}
		case strings.HasPrefix(line, "SSID:"):
			// iw separates the value with one space; the rest belongs to the SSID
			value := strings.TrimPrefix(strings.TrimLeft(raw, " \t"), "SSID:")
			ssid = domain.DecodeSSID(strings.TrimPrefix(value, " "))
		}
	}
	flush()
	return readings
}
