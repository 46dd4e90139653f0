package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gennadyy7/rssi-analyzer/internal/core/domain"
)

func TestMean(t *testing.T) {
	m, err := Mean([]float64{-40, -50, -60})
	require.NoError(t, err)
	assert.Equal(t, -50.0, m)

	_, err = Mean(nil)
	assert.ErrorIs(t, err, domain.ErrEmptyHistory)
}

func TestSmooth(t *testing.T) {
	s, err := Smooth([]float64{-40, -60, -80}, DefaultSmoothingAlpha)
	require.NoError(t, err)
	// -40 -> -50 -> -65
	assert.Equal(t, -65.0, s)

	s, err = Smooth([]float64{-40, -60}, 1)
	require.NoError(t, err)
	assert.Equal(t, -60.0, s)

	_, err = Smooth(nil, 0.5)
	assert.ErrorIs(t, err, domain.ErrEmptyHistory)

	_, err = Smooth([]float64{-40}, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidSetting)
}
