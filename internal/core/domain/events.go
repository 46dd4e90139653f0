package domain

import (
	"fmt"
	"time"
)

// MembershipEvent is the outcome of comparing live workers with a fresh
// adapter enumeration. It is computed once per poll and then dispatched.
type MembershipEvent int

const (
	MembershipStable MembershipEvent = iota
	MembershipAllLost
	MembershipPartialMismatch
	// MembershipInitial marks the first build of an engine.
	MembershipInitial
)

func (e MembershipEvent) String() string {
	switch e {
	case MembershipStable:
		return "stable"
	case MembershipAllLost:
		return "all_lost"
	case MembershipPartialMismatch:
		return "partial_mismatch"
	case MembershipInitial:
		return "initial"
	}
	return "unknown"
}

func (e MembershipEvent) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *MembershipEvent) UnmarshalText(text []byte) error {
	for _, v := range []MembershipEvent{MembershipStable, MembershipAllLost, MembershipPartialMismatch, MembershipInitial} {
		if v.String() == string(text) {
			*e = v
			return nil
		}
	}
	return fmt.Errorf("unknown membership event %q", text)
}

// RebuildEvent is emitted every time the engine discards its state and starts
// over with a new adapter set.
type RebuildEvent struct {
	Generation string
	Reason     MembershipEvent
	Adapters   []string
	At         time.Time
}

// RoundEvent is emitted after each committed round.
type RoundEvent struct {
	Generation string
	Round      uint64
	Adapters   int
	Networks   int
	Duration   time.Duration
	At         time.Time
}

// AnomalyKind names a per-network anomaly.
type AnomalyKind string

const (
	AnomalyJump       AnomalyKind = "jump"
	AnomalyDivergence AnomalyKind = "divergence"
)

// AnomalyEvent records one anomaly seen by a consumer.
type AnomalyEvent struct {
	Network    NetworkID
	Kind       AnomalyKind
	Value      float64
	Generation string
	Round      uint64
	At         time.Time
}

// StateView is a consumer's private copy of the published engine state.
type StateView struct {
	Version    uint64                  `json:"version"`
	Generation string                  `json:"generation"`
	Round      uint64                  `json:"round"`
	Degraded   bool                    `json:"degraded"`
	Adapters   []string                `json:"adapters"`
	Histories  map[NetworkID][]float64 `json:"histories"`
	Snapshot   Snapshot                `json:"snapshot"`
	UpdatedAt  time.Time               `json:"updated_at"`
}
