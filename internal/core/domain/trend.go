package domain

// Trend is the direction a network's signal is moving in.
type Trend string

const (
	// TrendUncertain means there is not enough history to decide.
	TrendUncertain Trend = "uncertain"
	// TrendStationary means the recent window did not move beyond the threshold.
	TrendStationary Trend = "stationary"
	// TrendRising means the signal got stronger: the source is approaching.
	TrendRising Trend = "rising"
	// TrendFalling means the signal got weaker: the source is receding.
	TrendFalling Trend = "falling"
)

// Describe returns the user facing wording for the trend.
func (t Trend) Describe() string {
	switch t {
	case TrendRising:
		return "approaching"
	case TrendFalling:
		return "receding"
	case TrendStationary:
		return "stable"
	}
	return "indeterminate"
}

// NetworkReport is what a consumer renders for one tracked network. It is
// derived fresh every round from the history and the snapshot.
type NetworkReport struct {
	ID            NetworkID `json:"id"`
	Trend         Trend     `json:"trend"`
	Direction     string    `json:"direction"`
	LastValue     float64   `json:"last_value"`
	Samples       int       `json:"samples"`
	Jump          bool      `json:"jump"`
	Divergence    bool      `json:"divergence"`
	Distance      float64   `json:"distance_m"`
	DistanceKnown bool      `json:"distance_known"`
}
