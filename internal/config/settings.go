package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/Gennadyy7/rssi-analyzer/internal/core/domain"
	"github.com/Gennadyy7/rssi-analyzer/internal/telemetry"
)

const defaultDebounce = 250 * time.Millisecond

// LoadSettingsFile reads a YAML settings file. Keys that are absent stay nil
// in the patch; unknown keys are an error.
func LoadSettingsFile(path string) (domain.SettingsPatch, error) {
	var patch domain.SettingsPatch

	data, err := os.ReadFile(path)
	if err != nil {
		return patch, fmt.Errorf("read settings: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&patch); err != nil && !errors.Is(err, io.EOF) {
		return patch, fmt.Errorf("parse settings %s: %w", path, err)
	}
	return patch, nil
}

// ApplySettingsFile loads path into store. On any error store keeps its
// previous values.
func ApplySettingsFile(store *domain.SettingsStore, path string) error {
	patch, err := LoadSettingsFile(path)
	if err == nil {
		err = store.Apply(patch)
	}
	if err != nil {
		telemetry.SettingsRejected.WithLabelValues("file").Inc()
		return err
	}
	return nil
}

// SettingsWatcher reapplies the settings file whenever it changes on disk.
type SettingsWatcher struct {
	path     string
	store    *domain.SettingsStore
	log      *slog.Logger
	watcher  *fsnotify.Watcher
	debounce time.Duration
}

// NewSettingsWatcher watches the directory holding path so that editors
// which replace the file by renaming are still seen.
func NewSettingsWatcher(path string, store *domain.SettingsStore, logger *slog.Logger) (*SettingsWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch settings file %s: %w", abs, err)
	}

	return &SettingsWatcher{
		path:     abs,
		store:    store,
		log:      logger.With("component", "settings"),
		watcher:  watcher,
		debounce: defaultDebounce,
	}, nil
}

// Run processes file events until ctx is done.
func (w *SettingsWatcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	var (
		timer  *time.Timer
		reload <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			// Debounce rapid file changes
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			reload = timer.C

		case <-reload:
			reload = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("Settings watcher error", "error", err)
		}
	}
}

func (w *SettingsWatcher) reload() {
	if err := ApplySettingsFile(w.store, w.path); err != nil {
		w.log.Warn("Settings reload rejected, keeping previous values", "path", w.path, "error", err)
		return
	}
	s := w.store.Get()
	w.log.Info("Settings reloaded",
		"window_size", s.WindowSize,
		"stationarity_threshold", s.StationarityThreshold,
		"jump_threshold", s.JumpThreshold,
		"divergence_threshold", s.DivergenceThreshold,
		"path_loss_exponent", float64(s.PathLossExponent))
}
