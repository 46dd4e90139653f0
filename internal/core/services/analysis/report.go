package analysis

import (
	"sort"

	"github.com/Gennadyy7/rssi-analyzer/internal/core/domain"
)

// Analyze derives the per-network report for every tracked network in v,
// sorted by network id.
func Analyze(v domain.StateView, s domain.AnalysisSettings) []domain.NetworkReport {
	ids := make([]domain.NetworkID, 0, len(v.Histories))
	for id := range v.Histories {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	reports := make([]domain.NetworkReport, 0, len(ids))
	for _, id := range ids {
		reports = append(reports, Report(id, v.Histories[id], v.Snapshot, s))
	}
	return reports
}

// Report builds the report for one network.
func Report(id domain.NetworkID, history []float64, snap domain.Snapshot, s domain.AnalysisSettings) domain.NetworkReport {
	trend := ClassifyTrend(history, s.WindowSize, s.StationarityThreshold)
	r := domain.NetworkReport{
		ID:         id,
		Trend:      trend,
		Direction:  trend.Describe(),
		Samples:    len(history),
		Jump:       DetectJump(history, s.JumpThreshold),
		Divergence: DetectDivergence(snap, id, s.DivergenceThreshold),
	}

	var last *float64
	if n := len(history); n > 0 {
		r.LastValue = history[n-1]
		last = &r.LastValue
	}
	if d, err := EstimateDistance(last, s.ReferencePower, s.PathLossExponent); err == nil {
		r.Distance = d
		r.DistanceKnown = true
	}
	return r
}

// Anomalies lists the jump and divergence flags of reports as events.
func Anomalies(v domain.StateView, reports []domain.NetworkReport) []domain.AnomalyEvent {
	var out []domain.AnomalyEvent
	for _, r := range reports {
		if r.Jump {
			out = append(out, domain.AnomalyEvent{
				Network:    r.ID,
				Kind:       domain.AnomalyJump,
				Value:      r.LastValue,
				Generation: v.Generation,
				Round:      v.Round,
				At:         v.UpdatedAt,
			})
		}
		if r.Divergence {
			out = append(out, domain.AnomalyEvent{
				Network:    r.ID,
				Kind:       domain.AnomalyDivergence,
				Value:      spread(v.Snapshot, r.ID),
				Generation: v.Generation,
				Round:      v.Round,
				At:         v.UpdatedAt,
			})
		}
	}
	return out
}

// spread is the max-min range of id across the snapshot's adapters.
func spread(snap domain.Snapshot, id domain.NetworkID) float64 {
	var lo, hi float64
	seen := false
	for i := 0; i < snap.Len(); i++ {
		s, ok := snap.Reading(i, id)
		if !ok {
			continue
		}
		v := float64(s)
		if !seen || v < lo {
			lo = v
		}
		if !seen || v > hi {
			hi = v
		}
		seen = true
	}
	return hi - lo
}
