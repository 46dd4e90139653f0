package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gennadyy7/rssi-analyzer/internal/core/domain"
)

func ptr(v float64) *float64 { return &v }

func TestEstimateDistance(t *testing.T) {
	tests := []struct {
		name   string
		signal float64
		ref    float64
		n      domain.PathLossExponent
		want   float64
	}{
		{"at reference power", -35, -35, 2, 1.0},
		{"20 dB loss free space", -55, -35, 2, 10.0},
		{"40 dB loss exponent 4", -75, -35, 4, 10.0},
		{"stronger than reference", -25, -35, 2, math.Pow(10, -0.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EstimateDistance(ptr(tt.signal), tt.ref, tt.n)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestEstimateDistanceExactAtReference(t *testing.T) {
	got, err := EstimateDistance(ptr(-35), domain.ReferencePower, domain.DefaultPathLossExponent)
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)
}

func TestEstimateDistanceUndefinedInput(t *testing.T) {
	_, err := EstimateDistance(nil, -35, 2)
	assert.ErrorIs(t, err, domain.ErrUndefinedInput)

	_, err = EstimateDistance(ptr(-50), -35, 0)
	assert.ErrorIs(t, err, domain.ErrUndefinedInput)

	_, err = EstimateDistance(ptr(-50), -35, 2.1)
	assert.ErrorIs(t, err, domain.ErrUndefinedInput)

	_, err = EstimateDistance(ptr(math.NaN()), -35, 2)
	assert.ErrorIs(t, err, domain.ErrUndefinedInput)
}
