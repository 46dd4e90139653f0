package syncengine

import (
	"errors"

	"github.com/Gennadyy7/rssi-analyzer/internal/core/domain"
	"github.com/Gennadyy7/rssi-analyzer/internal/telemetry"
)

// sample is the loop of one SampleWorker. Each round it scans, fills its slot
// and meets the coordinator twice: once when the slot is ready and once when
// the coordinator has consumed it.
func (e *Engine) sample(st *engineState, idx int) {
	adapter := st.adapters[idx]
	defer st.wg.Done()
	defer st.markLost(adapter.ID())

	slot := st.slots[idx]
	for st.active.Load() {
		readings, err := e.capability.Scan(st.ctx, adapter)
		if !st.active.Load() {
			return
		}
		if err != nil || len(readings) == 0 {
			telemetry.ScanFailures.WithLabelValues(adapter.ID()).Inc()
			if err == nil {
				err = errEmptyScan
			}
			e.log.Warn("Adapter lost, worker exiting",
				"adapter", adapter.ID(),
				"generation", st.generation,
				"unavailable", errors.Is(err, domain.ErrAdapterUnavailable),
				"error", err)
			return
		}

		for id, s := range readings {
			slot[id] = s
		}

		if err := st.barrier.Wait(st.ctx); err != nil {
			return
		}
		if err := st.barrier.Wait(st.ctx); err != nil {
			return
		}
	}
}

var errEmptyScan = errors.New("scan returned no networks")
