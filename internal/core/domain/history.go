package domain

// DefaultHistorySize is the number of averaged values kept per network.
const DefaultHistorySize = 8

// RollingHistory is a fixed-capacity FIFO of averaged signal values for one
// network. When full, appending evicts the oldest value.
type RollingHistory struct {
	buf   []float64
	start int
	size  int
}

// NewRollingHistory creates an empty history. Capacities below 1 fall back to
// DefaultHistorySize.
func NewRollingHistory(capacity int) *RollingHistory {
	if capacity < 1 {
		capacity = DefaultHistorySize
	}
	return &RollingHistory{buf: make([]float64, capacity)}
}

// Append adds v as the most recent value.
func (h *RollingHistory) Append(v float64) {
	if h.size < len(h.buf) {
		h.buf[(h.start+h.size)%len(h.buf)] = v
		h.size++
		return
	}
	h.buf[h.start] = v
	h.start = (h.start + 1) % len(h.buf)
}

// Len returns the number of stored values.
func (h *RollingHistory) Len() int {
	return h.size
}

// Cap returns the capacity.
func (h *RollingHistory) Cap() int {
	return len(h.buf)
}

// Values returns the stored values, oldest first. The slice is a copy.
func (h *RollingHistory) Values() []float64 {
	out := make([]float64, h.size)
	for i := 0; i < h.size; i++ {
		out[i] = h.buf[(h.start+i)%len(h.buf)]
	}
	return out
}

// Last returns the most recent value.
func (h *RollingHistory) Last() (float64, bool) {
	if h.size == 0 {
		return 0, false
	}
	return h.buf[(h.start+h.size-1)%len(h.buf)], true
}
