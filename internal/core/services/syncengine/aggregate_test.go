package syncengine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Gennadyy7/rssi-analyzer/internal/core/domain"
)

func TestAggregate(t *testing.T) {
	tests := []struct {
		name  string
		slots []domain.Readings
		want  map[domain.NetworkID]float64
	}{
		{
			name: "intersection only",
			slots: []domain.Readings{
				{"X": -40, "Y": -60},
				{"X": -50},
			},
			want: map[domain.NetworkID]float64{"X": -45},
		},
		{
			name: "three adapters",
			slots: []domain.Readings{
				{"X": -40, "Z": -70},
				{"X": -50, "Z": -72},
				{"X": -45, "Z": -71},
			},
			want: map[domain.NetworkID]float64{"X": -45, "Z": -71},
		},
		{
			name: "nothing in common",
			slots: []domain.Readings{
				{"X": -40},
				{"Y": -50},
			},
			want: map[domain.NetworkID]float64{},
		},
		{
			name:  "no slots",
			slots: nil,
			want:  map[domain.NetworkID]float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, aggregate(tt.slots))
		})
	}
}
