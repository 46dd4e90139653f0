package config

import (
	"flag"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestLoadArgsDefaults(t *testing.T) {
	t.Setenv("RSSI_DB", "journal.db")

	cfg, err := LoadArgs(newFlagSet(), nil)
	require.NoError(t, err)

	assert.Equal(t, BackendIW, cfg.Backend)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, time.Second, cfg.Interval)
	assert.Equal(t, 8, cfg.HistorySize)
	assert.Equal(t, "journal.db", cfg.DBPath)
	assert.Empty(t, cfg.Interfaces)
	assert.False(t, cfg.SkipFirst)
}

func TestLoadArgsFlagsOverrideEnv(t *testing.T) {
	t.Setenv("RSSI_DB", "")
	t.Setenv("RSSI_INTERVAL", "3s")
	t.Setenv("RSSI_IFACES", "wlan0")

	cfg, err := LoadArgs(newFlagSet(), []string{"-i", "wlan1, wlan2,", "-interval", "500ms", "-mock", "-skip-first"})
	require.NoError(t, err)

	assert.Equal(t, []string{"wlan1", "wlan2"}, cfg.Interfaces)
	assert.Equal(t, 500*time.Millisecond, cfg.Interval)
	assert.Equal(t, BackendMock, cfg.Backend)
	assert.True(t, cfg.SkipFirst)
}

func TestLoadArgsBadEnvFallsBack(t *testing.T) {
	t.Setenv("RSSI_DB", "")
	t.Setenv("RSSI_INTERVAL", "soon")
	t.Setenv("RSSI_HISTORY", "many")

	cfg, err := LoadArgs(newFlagSet(), nil)
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.Interval)
	assert.Equal(t, 8, cfg.HistorySize)
}

func TestLoadArgsValidation(t *testing.T) {
	t.Setenv("RSSI_DB", "")

	tests := []struct {
		name string
		args []string
	}{
		{"unknown backend", []string{"-backend", "netlink"}},
		{"zero interval", []string{"-interval", "0s"}},
		{"zero history", []string{"-history", "0"}},
		{"mock without adapters", []string{"-mock", "-mock-adapters", "0"}},
		{"unknown flag", []string{"-lat", "40.4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadArgs(newFlagSet(), tt.args)
			assert.Error(t, err)
		})
	}
}
