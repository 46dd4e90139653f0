package analysis

import (
	"fmt"

	"github.com/Gennadyy7/rssi-analyzer/internal/core/domain"
)

// DefaultSmoothingAlpha weights the newest value in Smooth.
const DefaultSmoothingAlpha = 0.5

// Mean returns the arithmetic mean of values.
func Mean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, domain.ErrEmptyHistory
	}
	return meanOf(values), nil
}

// Smooth returns the exponentially smoothed value of the series, oldest
// first. It is not used by the aggregation path.
func Smooth(values []float64, alpha float64) (float64, error) {
	if len(values) == 0 {
		return 0, domain.ErrEmptyHistory
	}
	if alpha <= 0 || alpha > 1 {
		return 0, fmt.Errorf("smoothing alpha %v outside (0,1]: %w", alpha, domain.ErrInvalidSetting)
	}

	s := values[0]
	for _, v := range values[1:] {
		s = alpha*v + (1-alpha)*s
	}
	return s, nil
}
