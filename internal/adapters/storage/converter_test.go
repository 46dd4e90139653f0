package storage

import (
	"testing"
	"time"

	"github.com/Gennadyy7/rssi-analyzer/internal/core/domain"
)

func TestRebuildModelAndEvent(t *testing.T) {
	now := time.Now().Truncate(time.Second)

	ev := domain.RebuildEvent{
		Generation: "gen-1",
		Reason:     domain.MembershipPartialMismatch,
		Adapters:   []string{"wlan1", "wlan2"},
		At:         now,
	}

	model := toRebuildModel(ev)
	if model.Reason != "partial_mismatch" {
		t.Errorf("Expected reason partial_mismatch, got %s", model.Reason)
	}
	if model.Adapters != `["wlan1","wlan2"]` {
		t.Errorf("Unexpected adapters encoding %s", model.Adapters)
	}

	back := toRebuildEvent(model)
	if back.Reason != ev.Reason || back.Generation != ev.Generation || !back.At.Equal(now) {
		t.Errorf("Round trip mismatch: %+v", back)
	}
	if len(back.Adapters) != 2 || back.Adapters[1] != "wlan2" {
		t.Errorf("Unexpected adapters %v", back.Adapters)
	}
}

func TestRebuildModelWithoutAdapters(t *testing.T) {
	model := toRebuildModel(domain.RebuildEvent{Reason: domain.MembershipAllLost})
	if model.Adapters != "[]" {
		t.Errorf("Expected empty JSON list, got %s", model.Adapters)
	}
}

func TestToRebuildEventCorruptRow(t *testing.T) {
	ev := toRebuildEvent(RebuildModel{Generation: "g", Reason: "rebooted", Adapters: "{not json"})
	if ev.Reason != domain.MembershipStable {
		t.Errorf("Expected zero reason, got %v", ev.Reason)
	}
	if ev.Adapters != nil {
		t.Errorf("Expected no adapters, got %v", ev.Adapters)
	}
}
