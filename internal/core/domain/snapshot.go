package domain

import "encoding/json"

// Snapshot is an immutable copy of every adapter's raw readings at the moment a
// round was committed. Adapters are addressed by their index in the round.
// The zero value is an empty snapshot.
type Snapshot struct {
	adapters []string
	readings []Readings
}

// NewSnapshot deep-copies the given per-adapter readings. names[i] labels
// readings[i]; missing names are left empty.
func NewSnapshot(names []string, readings []Readings) Snapshot {
	s := Snapshot{
		adapters: make([]string, len(readings)),
		readings: make([]Readings, len(readings)),
	}
	for i, r := range readings {
		if i < len(names) {
			s.adapters[i] = names[i]
		}
		s.readings[i] = r.Clone()
	}
	return s
}

// Len returns the number of adapters in the snapshot.
func (s Snapshot) Len() int {
	return len(s.readings)
}

// AdapterName returns the label of the adapter at index i.
func (s Snapshot) AdapterName(i int) string {
	if i < 0 || i >= len(s.adapters) {
		return ""
	}
	return s.adapters[i]
}

// Reading returns the signal the adapter at index i reported for id.
func (s Snapshot) Reading(i int, id NetworkID) (Signal, bool) {
	if i < 0 || i >= len(s.readings) {
		return 0, false
	}
	v, ok := s.readings[i][id]
	return v, ok
}

// Readings returns a copy of the readings of the adapter at index i.
func (s Snapshot) Readings(i int) Readings {
	if i < 0 || i >= len(s.readings) {
		return nil
	}
	return s.readings[i].Clone()
}

// Map returns the snapshot as adapter index -> (network id -> signal).
func (s Snapshot) Map() map[int]Readings {
	out := make(map[int]Readings, len(s.readings))
	for i, r := range s.readings {
		out[i] = r.Clone()
	}
	return out
}

type snapshotJSON struct {
	Adapters []string   `json:"adapters"`
	Readings []Readings `json:"readings"`
}

// MarshalJSON encodes the snapshot as parallel adapter and readings lists.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	out := snapshotJSON{Adapters: s.adapters, Readings: s.readings}
	if out.Adapters == nil {
		out.Adapters = []string{}
	}
	if out.Readings == nil {
		out.Readings = []Readings{}
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a snapshot encoded by MarshalJSON.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var in snapshotJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*s = NewSnapshot(in.Adapters, in.Readings)
	return nil
}
