package wireless

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gennadyy7/rssi-analyzer/internal/core/domain"
)

const iwDevOutput = `phy#2
	Interface wlx00c0ca112233
		ifindex 5
		wdev 0x200000001
		addr 00:c0:ca:11:22:33
		type managed
phy#1
	Interface wlan1mon
		ifindex 4
		addr 00:c0:ca:44:55:66
		type monitor
phy#0
	Interface wlan0
		ifindex 3
		wdev 0x1
		addr 3c:a9:f4:01:02:03
		ssid HomeNetwork
		type managed
		channel 6 (2437 MHz), width: 20 MHz, center1: 2437 MHz
`

func TestParseIWDev(t *testing.T) {
	adapters := parseIWDev([]byte(iwDevOutput))

	require.Len(t, adapters, 2)
	assert.Equal(t, domain.Adapter{Name: "wlan0", Phy: "phy0", MAC: "3c:a9:f4:01:02:03"}, adapters[0])
	assert.Equal(t, domain.Adapter{Name: "wlx00c0ca112233", Phy: "phy2", MAC: "00:c0:ca:11:22:33"}, adapters[1])
}

func TestParseIWDevEmpty(t *testing.T) {
	assert.Empty(t, parseIWDev(nil))
}

func TestIWRegistryRetriesTransientFailure(t *testing.T) {
	runner := newFakeRunner()
	runner.on("iw dev",
		fakeResult{out: "nl80211 not found", err: errors.New("exit status 1")},
		fakeResult{out: iwDevOutput},
	)
	reg := &IWRegistry{Runner: runner, RetryDelay: time.Millisecond}

	adapters, err := reg.Enumerate(context.Background())
	require.NoError(t, err)
	assert.Len(t, adapters, 2)
	assert.Equal(t, 2, runner.count("iw dev"))
}

func TestIWRegistryGivesUp(t *testing.T) {
	runner := newFakeRunner()
	runner.on("iw dev", fakeResult{out: "command not found", err: errors.New("exit status 127")})
	reg := &IWRegistry{Runner: runner, RetryDelay: time.Millisecond}

	_, err := reg.Enumerate(context.Background())
	assert.Error(t, err)
	assert.Equal(t, enumerateAttempts, runner.count("iw dev"))
}

func TestFilteredRegistry(t *testing.T) {
	runner := newFakeRunner()
	runner.on("iw dev", fakeResult{out: iwDevOutput})
	inner := &IWRegistry{Runner: runner}

	skip := &FilteredRegistry{Inner: inner, SkipFirst: true}
	adapters, err := skip.Enumerate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"wlx00c0ca112233"}, domain.AdapterIDs(adapters))

	allow := &FilteredRegistry{Inner: inner, Allow: []string{"wlan0", "wlan9"}}
	adapters, err = allow.Enumerate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"wlan0"}, domain.AdapterIDs(adapters))
}
