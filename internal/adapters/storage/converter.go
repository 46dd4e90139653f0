package storage

import (
	"encoding/json"

	"github.com/Gennadyy7/rssi-analyzer/internal/core/domain"
)

func toRebuildModel(ev domain.RebuildEvent) RebuildModel {
	adapters := ev.Adapters
	if adapters == nil {
		adapters = []string{}
	}
	aBytes, _ := json.Marshal(adapters)

	return RebuildModel{
		Generation: ev.Generation,
		Reason:     ev.Reason.String(),
		Adapters:   string(aBytes),
		At:         ev.At,
	}
}

func toRebuildEvent(m RebuildModel) domain.RebuildEvent {
	ev := domain.RebuildEvent{
		Generation: m.Generation,
		At:         m.At,
	}

	// Rows with an unreadable reason or adapter list keep the zero value.
	_ = ev.Reason.UnmarshalText([]byte(m.Reason))
	if m.Adapters != "" {
		_ = json.Unmarshal([]byte(m.Adapters), &ev.Adapters)
	}
	return ev
}

func toAnomalyModel(ev domain.AnomalyEvent) AnomalyModel {
	return AnomalyModel{
		Network:    string(ev.Network),
		Kind:       string(ev.Kind),
		Value:      ev.Value,
		Generation: ev.Generation,
		Round:      ev.Round,
		At:         ev.At,
	}
}

func toAnomalyEvent(m AnomalyModel) domain.AnomalyEvent {
	return domain.AnomalyEvent{
		Network:    domain.NetworkID(m.Network),
		Kind:       domain.AnomalyKind(m.Kind),
		Value:      m.Value,
		Generation: m.Generation,
		Round:      m.Round,
		At:         m.At,
	}
}
