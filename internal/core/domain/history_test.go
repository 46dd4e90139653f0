package domain

import (
	"reflect"
	"testing"
)

func TestRollingHistoryEvictsOldest(t *testing.T) {
	h := NewRollingHistory(3)
	for _, v := range []float64{-40, -41, -42, -43, -44} {
		h.Append(v)
		if h.Len() > h.Cap() {
			t.Fatalf("Len() = %d exceeds capacity %d", h.Len(), h.Cap())
		}
	}

	want := []float64{-42, -43, -44}
	if got := h.Values(); !reflect.DeepEqual(got, want) {
		t.Errorf("Values() = %v, want %v", got, want)
	}

	last, ok := h.Last()
	if !ok || last != -44 {
		t.Errorf("Last() = %v, %v; want -44, true", last, ok)
	}
}

func TestRollingHistoryEmpty(t *testing.T) {
	h := NewRollingHistory(0)
	if h.Cap() != DefaultHistorySize {
		t.Errorf("Cap() = %d, want default %d", h.Cap(), DefaultHistorySize)
	}
	if _, ok := h.Last(); ok {
		t.Error("Last() on empty history should report false")
	}
	if len(h.Values()) != 0 {
		t.Error("Values() on empty history should be empty")
	}
}

func TestRollingHistoryValuesIsCopy(t *testing.T) {
	h := NewRollingHistory(2)
	h.Append(-50)
	vals := h.Values()
	vals[0] = 0

	if got, _ := h.Last(); got != -50 {
		t.Errorf("mutating Values() result leaked into history: %v", got)
	}
}
