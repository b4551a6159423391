package domain

import "time"

// HistoryCap is the maximum number of transitions a machine remembers.
// When the ring is full the oldest entry is evicted first.
const HistoryCap = 20

// HistoryEntry records one realized transition.
type HistoryEntry struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	Event     string    `json:"event"`
	Timestamp time.Time `json:"timestamp"`
}

// History is a fixed-capacity ring of transition records, oldest first.
// The zero value is ready to use.
type History struct {
	entries []HistoryEntry
}

// Append records an entry, evicting the oldest when the ring is full.
func (h *History) Append(e HistoryEntry) {
	if len(h.entries) == HistoryCap {
		copy(h.entries, h.entries[1:])
		h.entries[len(h.entries)-1] = e
		return
	}
	h.entries = append(h.entries, e)
}

// DropLast removes and returns the most recent entry.
func (h *History) DropLast() (HistoryEntry, bool) {
	if len(h.entries) == 0 {
		return HistoryEntry{}, false
	}
	last := h.entries[len(h.entries)-1]
	h.entries = h.entries[:len(h.entries)-1]
	return last, true
}

// Last returns the most recent entry without removing it.
func (h *History) Last() (HistoryEntry, bool) {
	if len(h.entries) == 0 {
		return HistoryEntry{}, false
	}
	return h.entries[len(h.entries)-1], true
}

// Len reports the number of recorded entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Entries returns a copy of the recorded entries, oldest first.
func (h *History) Entries() []HistoryEntry {
	out := make([]HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Reset discards all entries.
func (h *History) Reset() {
	h.entries = h.entries[:0]
}
