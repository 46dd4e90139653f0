package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gennadyy7/rssi-analyzer/internal/core/domain"
)

func TestAnalyze(t *testing.T) {
	view := domain.StateView{
		Generation: "g1",
		Round:      8,
		Histories: map[domain.NetworkID][]float64{
			"office": {-40, -41, -42, -43, -70, -71, -72, -73},
			"cafe":   {-35},
		},
		Snapshot: domain.NewSnapshot(
			[]string{"wlan0", "wlan1"},
			[]domain.Readings{{"office": -60, "cafe": -35}, {"office": -86, "cafe": -35}},
		),
	}

	reports := Analyze(view, domain.DefaultAnalysisSettings())
	require.Len(t, reports, 2)

	cafe, office := reports[0], reports[1]
	assert.Equal(t, domain.NetworkID("cafe"), cafe.ID)
	assert.Equal(t, domain.TrendUncertain, cafe.Trend)
	assert.Equal(t, "indeterminate", cafe.Direction)
	assert.True(t, cafe.DistanceKnown)
	assert.Equal(t, 1.0, cafe.Distance)
	assert.False(t, cafe.Jump)
	assert.False(t, cafe.Divergence)

	assert.Equal(t, domain.NetworkID("office"), office.ID)
	assert.Equal(t, domain.TrendFalling, office.Trend)
	assert.Equal(t, "receding", office.Direction)
	assert.Equal(t, -73.0, office.LastValue)
	assert.Equal(t, 8, office.Samples)
	assert.False(t, office.Jump)
	assert.True(t, office.Divergence)

	events := Anomalies(view, reports)
	require.Len(t, events, 1)
	assert.Equal(t, domain.AnomalyDivergence, events[0].Kind)
	assert.Equal(t, 26.0, events[0].Value)
	assert.Equal(t, uint64(8), events[0].Round)
}

func TestReportWithoutHistoryHasNoDistance(t *testing.T) {
	r := Report("ghost", nil, domain.Snapshot{}, domain.DefaultAnalysisSettings())
	assert.False(t, r.DistanceKnown)
	assert.Equal(t, domain.TrendUncertain, r.Trend)
}

func TestReportFlagsJump(t *testing.T) {
	s := domain.DefaultAnalysisSettings()
	r := Report("net", []float64{-50, -65}, domain.Snapshot{}, s)
	assert.True(t, r.Jump)

	s.JumpThreshold = 20
	r = Report("net", []float64{-50, -65}, domain.Snapshot{}, s)
	assert.False(t, r.Jump)
}

func TestSummarizeDegradedView(t *testing.T) {
	s := Summarize(domain.StateView{Degraded: true}, domain.DefaultAnalysisSettings())

	assert.True(t, s.Degraded)
	assert.NotNil(t, s.Adapters)
	assert.NotNil(t, s.Networks)
	assert.Empty(t, s.Networks)
}
