package posture

import (
	"sync"
	"time"
)

// HistoryEntry is one recorded classification sample.
type HistoryEntry struct {
	Time  time.Time `json:"time"`
	State State     `json:"state"`
}

// History is an append-only in-memory record of posture samples for the
// current session.
type History struct {
	mu      sync.Mutex
	entries []HistoryEntry
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{}
}

// Record appends a sample.
func (h *History) Record(at time.Time, state State) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, HistoryEntry{Time: at, State: state})
}

// Reset clears the history for a new session.
func (h *History) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
}

// Entries returns a copy of all samples.
func (h *History) Entries() []HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]HistoryEntry(nil), h.entries...)
}

// Summary aggregates time spent in proper vs improper posture. Any
// non-good state counts as improper. The last sample has no successor,
// so its duration is unknown and excluded.
type Summary struct {
	ProperSeconds   float64 `json:"proper_seconds"`
	ImproperSeconds float64 `json:"improper_seconds"`
	ProperPercent   float64 `json:"proper_percent"`
	ImproperPercent float64 `json:"improper_percent"`
	Samples         int     `json:"samples"`
}

// Summary computes the proper/improper split for the session so far.
func (h *History) Summary() Summary {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := Summary{Samples: len(h.entries)}
	for i := 0; i < len(h.entries)-1; i++ {
		dur := h.entries[i+1].Time.Sub(h.entries[i].Time).Seconds()
		if h.entries[i].State == StateGoodPosture {
			s.ProperSeconds += dur
		} else {
			s.ImproperSeconds += dur
		}
	}

	total := s.ProperSeconds + s.ImproperSeconds
	if total > 0 {
		s.ProperPercent = s.ProperSeconds / total * 100
		s.ImproperPercent = s.ImproperSeconds / total * 100
	}
	return s
}
