package analysis

import (
	"time"

	"github.com/Gennadyy7/rssi-analyzer/internal/core/domain"
)

// Summary is the document consumers render or forward for one publication.
type Summary struct {
	Generation string                 `json:"generation"`
	Round      uint64                 `json:"round"`
	Degraded   bool                   `json:"degraded"`
	Adapters   []string               `json:"adapters"`
	Networks   []domain.NetworkReport `json:"networks"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

// Summarize analyzes v with s.
func Summarize(v domain.StateView, s domain.AnalysisSettings) Summary {
	adapters := v.Adapters
	if adapters == nil {
		adapters = []string{}
	}
	return Summary{
		Generation: v.Generation,
		Round:      v.Round,
		Degraded:   v.Degraded,
		Adapters:   adapters,
		Networks:   Analyze(v, s),
		UpdatedAt:  v.UpdatedAt,
	}
}
