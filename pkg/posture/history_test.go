package posture

import (
	"testing"
	"time"
)

func TestHistorySummary(t *testing.T) {
	h := NewHistory()
	t0 := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	h.Record(t0, StateGoodPosture)
	h.Record(t0.Add(10*time.Second), StateSlouching)
	h.Record(t0.Add(15*time.Second), StateGoodPosture)
	h.Record(t0.Add(25*time.Second), StateUserAbsent)
	h.Record(t0.Add(30*time.Second), StateGoodPosture) // open-ended, excluded

	s := h.Summary()
	if s.Samples != 5 {
		t.Errorf("samples = %d, want 5", s.Samples)
	}
	// good: 10s + 10s, improper: 5s (slouching) + 5s (absent)
	if s.ProperSeconds != 20 {
		t.Errorf("proper = %v, want 20", s.ProperSeconds)
	}
	if s.ImproperSeconds != 10 {
		t.Errorf("improper = %v, want 10", s.ImproperSeconds)
	}
	if s.ProperPercent < 66.6 || s.ProperPercent > 66.7 {
		t.Errorf("proper percent = %v, want ~66.67", s.ProperPercent)
	}
}

func TestHistorySummary_Empty(t *testing.T) {
	h := NewHistory()
	s := h.Summary()
	if s.Samples != 0 || s.ProperPercent != 0 || s.ImproperPercent != 0 {
		t.Errorf("empty summary = %+v, want zeros", s)
	}

	// A single sample has no duration either.
	h.Record(time.Now(), StateGoodPosture)
	if s := h.Summary(); s.ProperSeconds != 0 {
		t.Errorf("single-sample proper = %v, want 0", s.ProperSeconds)
	}
}

func TestHistoryReset(t *testing.T) {
	h := NewHistory()
	h.Record(time.Now(), StateSlouching)
	h.Reset()
	if got := h.Entries(); len(got) != 0 {
		t.Errorf("entries after reset = %d, want 0", len(got))
	}
}
