package domain

import (
	"fmt"
	"math"
	"sync"
)

// PathLossExponent is the attenuation exponent of the log-distance model.
type PathLossExponent float64

// PathLossPresets are the exponents a caller may choose from. Free space is 2;
// indoor line of sight sits below it, obstructed environments above.
var PathLossPresets = []PathLossExponent{1.6, 1.8, 2.0, 2.2, 2.5, 2.7, 3.0, 3.5, 4.0}

// ReferencePower is the expected signal in dBm at one metre from the source.
const ReferencePower = -35.0

// Valid reports whether n is one of the presets.
func (n PathLossExponent) Valid() bool {
	for _, p := range PathLossPresets {
		if n == p {
			return true
		}
	}
	return false
}

// Setting bounds.
const (
	MinWindowSize            = 1
	MaxWindowSize            = 4
	MaxStationarityThreshold = 10.0
	MaxJumpThreshold         = 20.0
	DefaultWindowSize        = 4
	DefaultStationarity      = 7.0
	DefaultJumpThreshold     = 10.0
	DefaultDivergence        = 20.0
	DefaultPathLossExponent  = PathLossExponent(2.0)
)

// AnalysisSettings are the tunables consumed at TrendAnalyzer call sites.
type AnalysisSettings struct {
	WindowSize            int              `json:"window_size" yaml:"window_size"`
	StationarityThreshold float64          `json:"stationarity_threshold" yaml:"stationarity_threshold"`
	JumpThreshold         float64          `json:"jump_threshold" yaml:"jump_threshold"`
	DivergenceThreshold   float64          `json:"divergence_threshold" yaml:"divergence_threshold"`
	PathLossExponent      PathLossExponent `json:"path_loss_exponent" yaml:"path_loss_exponent"`
	ReferencePower        float64          `json:"reference_power" yaml:"-"`
}

// DefaultAnalysisSettings returns the settings used when nothing is configured.
func DefaultAnalysisSettings() AnalysisSettings {
	return AnalysisSettings{
		WindowSize:            DefaultWindowSize,
		StationarityThreshold: DefaultStationarity,
		JumpThreshold:         DefaultJumpThreshold,
		DivergenceThreshold:   DefaultDivergence,
		PathLossExponent:      DefaultPathLossExponent,
		ReferencePower:        ReferencePower,
	}
}

// SettingsPatch carries a partial update. Nil fields are left untouched.
type SettingsPatch struct {
	WindowSize            *int              `json:"window_size,omitempty" yaml:"window_size,omitempty"`
	StationarityThreshold *float64          `json:"stationarity_threshold,omitempty" yaml:"stationarity_threshold,omitempty"`
	JumpThreshold         *float64          `json:"jump_threshold,omitempty" yaml:"jump_threshold,omitempty"`
	DivergenceThreshold   *float64          `json:"divergence_threshold,omitempty" yaml:"divergence_threshold,omitempty"`
	PathLossExponent      *PathLossExponent `json:"path_loss_exponent,omitempty" yaml:"path_loss_exponent,omitempty"`
}

func validateWindowSize(v int) error {
	if v < MinWindowSize || v > MaxWindowSize {
		return &SettingError{Field: "window_size", Value: float64(v), Rule: fmt.Sprintf("must be in [%d,%d]", MinWindowSize, MaxWindowSize)}
	}
	return nil
}

func validateRange(field string, v, lo, hi float64) error {
	if math.IsNaN(v) || v < lo || v > hi {
		return &SettingError{Field: field, Value: v, Rule: fmt.Sprintf("must be in [%v,%v]", lo, hi)}
	}
	return nil
}

func validateDivergence(v float64) error {
	if math.IsNaN(v) || v < 0 {
		return &SettingError{Field: "divergence_threshold", Value: v, Rule: "must be >= 0"}
	}
	return nil
}

func validateExponent(n PathLossExponent) error {
	if !n.Valid() {
		return &SettingError{Field: "path_loss_exponent", Value: float64(n), Rule: fmt.Sprintf("must be one of %v", PathLossPresets)}
	}
	return nil
}

// Validate checks every field of p.
func (p SettingsPatch) Validate() error {
	if p.WindowSize != nil {
		if err := validateWindowSize(*p.WindowSize); err != nil {
			return err
		}
	}
	if p.StationarityThreshold != nil {
		if err := validateRange("stationarity_threshold", *p.StationarityThreshold, 0, MaxStationarityThreshold); err != nil {
			return err
		}
	}
	if p.JumpThreshold != nil {
		if err := validateRange("jump_threshold", *p.JumpThreshold, 0, MaxJumpThreshold); err != nil {
			return err
		}
	}
	if p.DivergenceThreshold != nil {
		if err := validateDivergence(*p.DivergenceThreshold); err != nil {
			return err
		}
	}
	if p.PathLossExponent != nil {
		if err := validateExponent(*p.PathLossExponent); err != nil {
			return err
		}
	}
	return nil
}

// SettingsStore holds the current analysis settings. Setters reject out of
// range values and keep the previous value.
type SettingsStore struct {
	mu       sync.RWMutex
	settings AnalysisSettings
}

// NewSettingsStore creates a store seeded with the defaults.
func NewSettingsStore() *SettingsStore {
	return &SettingsStore{settings: DefaultAnalysisSettings()}
}

// Get returns a copy of the current settings.
func (s *SettingsStore) Get() AnalysisSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// SetWindowSize updates the trend window size.
func (s *SettingsStore) SetWindowSize(v int) error {
	return s.Apply(SettingsPatch{WindowSize: &v})
}

// SetStationarityThreshold updates the stationarity threshold.
func (s *SettingsStore) SetStationarityThreshold(v float64) error {
	return s.Apply(SettingsPatch{StationarityThreshold: &v})
}

// SetJumpThreshold updates the jump threshold.
func (s *SettingsStore) SetJumpThreshold(v float64) error {
	return s.Apply(SettingsPatch{JumpThreshold: &v})
}

// SetDivergenceThreshold updates the cross-adapter divergence threshold.
func (s *SettingsStore) SetDivergenceThreshold(v float64) error {
	return s.Apply(SettingsPatch{DivergenceThreshold: &v})
}

// SetPathLossExponent selects one of the path-loss presets.
func (s *SettingsStore) SetPathLossExponent(n PathLossExponent) error {
	return s.Apply(SettingsPatch{PathLossExponent: &n})
}

// Apply validates the whole patch and applies it only if every field is valid.
func (s *SettingsStore) Apply(p SettingsPatch) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if p.WindowSize != nil {
		s.settings.WindowSize = *p.WindowSize
	}
	if p.StationarityThreshold != nil {
		s.settings.StationarityThreshold = *p.StationarityThreshold
	}
	if p.JumpThreshold != nil {
		s.settings.JumpThreshold = *p.JumpThreshold
	}
	if p.DivergenceThreshold != nil {
		s.settings.DivergenceThreshold = *p.DivergenceThreshold
	}
	if p.PathLossExponent != nil {
		s.settings.PathLossExponent = *p.PathLossExponent
	}
	return nil
}
