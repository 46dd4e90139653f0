package syncengine

import "github.com/Gennadyy7/rssi-analyzer/internal/core/domain"

// aggregate averages the networks reported by every slot. Networks missing
// from any slot are left out.
func aggregate(slots []domain.Readings) map[domain.NetworkID]float64 {
	out := make(map[domain.NetworkID]float64)
	if len(slots) == 0 {
		return out
	}

	for id, first := range slots[0] {
		sum := float64(first)
		common := true
		for _, r := range slots[1:] {
			v, ok := r[id]
			if !ok {
				common = false
				break
			}
			sum += float64(v)
		}
		if common {
			out[id] = sum / float64(len(slots))
		}
	}
	return out
}
