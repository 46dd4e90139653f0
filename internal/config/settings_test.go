package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gennadyy7/rssi-analyzer/internal/core/domain"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadSettingsFile(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		wantErr bool
		check   func(t *testing.T, p domain.SettingsPatch)
	}{
		{
			name:    "partial",
			content: "window_size: 3\npath_loss_exponent: 3.5\n",
			check: func(t *testing.T, p domain.SettingsPatch) {
				require.NotNil(t, p.WindowSize)
				assert.Equal(t, 3, *p.WindowSize)
				require.NotNil(t, p.PathLossExponent)
				assert.Equal(t, domain.PathLossExponent(3.5), *p.PathLossExponent)
				assert.Nil(t, p.JumpThreshold)
			},
		},
		{
			name:    "empty file",
			content: "",
			check: func(t *testing.T, p domain.SettingsPatch) {
				assert.Equal(t, domain.SettingsPatch{}, p)
			},
		},
		{name: "unknown key", content: "reference_power: -40\n", wantErr: true},
		{name: "wrong type", content: "window_size: wide\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			writeFile(t, path, tt.content)

			p, err := LoadSettingsFile(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, p)
		})
	}
}

func TestApplySettingsFileKeepsPreviousOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	store := domain.NewSettingsStore()

	writeFile(t, path, "jump_threshold: 15\nwindow_size: 9\n")
	assert.ErrorIs(t, ApplySettingsFile(store, path), domain.ErrInvalidSetting)
	assert.Equal(t, domain.DefaultAnalysisSettings(), store.Get())

	assert.Error(t, ApplySettingsFile(store, filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Equal(t, domain.DefaultAnalysisSettings(), store.Get())
}

func TestSettingsWatcherReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	writeFile(t, path, "window_size: 4\n")

	store := domain.NewSettingsStore()
	w, err := NewSettingsWatcher(path, store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	w.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	writeFile(t, path, "window_size: 2\ndivergence_threshold: 12\n")
	require.Eventually(t, func() bool { return store.Get().WindowSize == 2 }, 3*time.Second, 10*time.Millisecond)
	assert.Equal(t, 12.0, store.Get().DivergenceThreshold)

	// Invalid edits are rejected as a whole
	writeFile(t, path, "window_size: 3\nstationarity_threshold: 11\n")
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 2, store.Get().WindowSize)
	assert.Equal(t, domain.DefaultStationarity, store.Get().StationarityThreshold)

	cancel()
	assert.NoError(t, <-done)
}
