package wireless

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gennadyy7/rssi-analyzer/internal/core/domain"
)

func TestSimulatorScan(t *testing.T) {
	sim := NewSimulator([]string{"sim1", "sim0"}, 5, 42)
	sim.ScanDelay = 0

	adapters, err := sim.Enumerate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"sim0", "sim1"}, domain.AdapterIDs(adapters))

	for i := 0; i < 50; i++ {
		readings, err := sim.Scan(context.Background(), adapters[0])
		require.NoError(t, err)
		assert.Len(t, readings, 5)
		for _, s := range readings {
			assert.GreaterOrEqual(t, int(s), -100)
			assert.LessOrEqual(t, int(s), -20)
		}
	}
}

func TestSimulatorHotplug(t *testing.T) {
	sim := NewSimulator([]string{"sim0", "sim1"}, 3, 7)
	sim.ScanDelay = 0

	sim.Unplug("sim1")
	adapters, err := sim.Enumerate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"sim0"}, domain.AdapterIDs(adapters))

	_, err = sim.Scan(context.Background(), domain.Adapter{Name: "sim1"})
	assert.ErrorIs(t, err, domain.ErrAdapterUnavailable)

	sim.Plug("sim2")
	adapters, err = sim.Enumerate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"sim0", "sim2"}, domain.AdapterIDs(adapters))

	readings, err := sim.Scan(context.Background(), adapters[1])
	require.NoError(t, err)
	assert.Len(t, readings, 3)
}

func TestSimulatorMissRate(t *testing.T) {
	sim := NewSimulator([]string{"sim0"}, 10, 3)
	sim.ScanDelay = 0
	sim.MissRate = 1

	readings, err := sim.Scan(context.Background(), domain.Adapter{Name: "sim0"})
	require.NoError(t, err)
	assert.Empty(t, readings)
}
