package analysis

import (
	"math"

	"github.com/Gennadyy7/rssi-analyzer/internal/core/domain"
)

// ClassifyTrend compares the mean of the latest window values with the mean
// of the window before it. Fewer than 2*window values give TrendUncertain.
func ClassifyTrend(history []float64, window int, threshold float64) domain.Trend {
	if window < 1 || len(history) < 2*window {
		return domain.TrendUncertain
	}

	n := len(history)
	older := meanOf(history[n-2*window : n-window])
	recent := meanOf(history[n-window:])

	if math.Abs(older-recent) <= threshold {
		return domain.TrendStationary
	}
	// less negative means stronger
	if older < recent {
		return domain.TrendRising
	}
	return domain.TrendFalling
}

// DetectJump reports whether the last two values differ by more than threshold.
func DetectJump(history []float64, threshold float64) bool {
	n := len(history)
	if n < 2 {
		return false
	}
	return math.Abs(history[n-1]-history[n-2]) > threshold
}

// DetectDivergence reports whether the adapters disagree about id by more
// than threshold. It needs at least two adapters in the snapshot, all of them
// reporting id.
func DetectDivergence(snap domain.Snapshot, id domain.NetworkID, threshold float64) bool {
	if snap.Len() < 2 {
		return false
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for i := 0; i < snap.Len(); i++ {
		s, ok := snap.Reading(i, id)
		if !ok {
			return false
		}
		v := float64(s)
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return hi-lo > threshold
}

func meanOf(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
