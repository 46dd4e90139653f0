package analysis

import (
	"fmt"
	"math"

	"github.com/Gennadyy7/rssi-analyzer/internal/core/domain"
)

// EstimateDistance applies the log-distance path-loss model and returns the
// distance in metres. refPower is the expected signal at one metre.
func EstimateDistance(signal *float64, refPower float64, n domain.PathLossExponent) (float64, error) {
	if signal == nil {
		return 0, fmt.Errorf("distance: missing signal: %w", domain.ErrUndefinedInput)
	}
	if !n.Valid() {
		return 0, fmt.Errorf("distance: path loss exponent %v is not a preset: %w", float64(n), domain.ErrUndefinedInput)
	}
	if math.IsNaN(*signal) || math.IsInf(*signal, 0) {
		return 0, fmt.Errorf("distance: signal %v: %w", *signal, domain.ErrUndefinedInput)
	}

	return math.Pow(10, (refPower-*signal)/(10*float64(n))), nil
}
