package domain

// NetworkID identifies a detected wireless network. The broadcast name (SSID)
// is used as the aggregation key.
type NetworkID string

// Signal is a signal-strength reading in dBm. Values are negative; closer to
// zero means stronger.
type Signal int

// Readings maps network ids to the signal one adapter observed in a scan.
type Readings map[NetworkID]Signal

// Clone returns a deep copy of r.
func (r Readings) Clone() Readings {
	out := make(Readings, len(r))
	for id, s := range r {
		out[id] = s
	}
	return out
}
