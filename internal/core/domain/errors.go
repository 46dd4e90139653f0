package domain

import (
	"errors"
	"fmt"
)

// Domain errors.
var (
	ErrInvalidInterfaceName = errors.New("invalid interface name")
	ErrInvalidMAC           = errors.New("invalid MAC address")

	// ErrAdapterUnavailable is returned by a capability when the adapter was
	// disconnected or removed.
	ErrAdapterUnavailable = errors.New("adapter unavailable")

	// ErrAdapterBusy signals a scan already in progress on the adapter.
	ErrAdapterBusy = errors.New("adapter busy")

	// ErrUndefinedInput is returned when a required measurement is missing.
	ErrUndefinedInput = errors.New("undefined input")

	// ErrEmptyHistory is returned by helpers that need at least one value.
	ErrEmptyHistory = errors.New("empty history")

	// ErrInvalidSetting is returned when an analysis setting is out of range.
	ErrInvalidSetting = errors.New("invalid setting")
)

// SettingError describes a rejected analysis setting.
type SettingError struct {
	Field string
	Value float64
	Rule  string
}

func (e *SettingError) Error() string {
	return fmt.Sprintf("invalid setting %s=%v: %s", e.Field, e.Value, e.Rule)
}

func (e *SettingError) Unwrap() error {
	return ErrInvalidSetting
}
