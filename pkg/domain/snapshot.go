package domain

// Snapshot is the complete observable machine state at a point in time.
// Snapshots are immutable: the engine builds a fresh one per dispatch and
// never touches it again, so holding one across later dispatches is safe.
type Snapshot struct {
	// Value is the current state name, always a key of the
	// configuration's States.
	Value string `json:"value"`

	// Context is the merged domain data as of this snapshot.
	Context Context `json:"context"`

	// History lists the most recent transitions, oldest first, capped at
	// HistoryCap entries.
	History []HistoryEntry `json:"history"`

	// PreviousState names the state immediately prior to Value. Empty
	// until the first transition.
	PreviousState string `json:"previousState,omitempty"`

	// CanGoBack is true once at least one transition has occurred.
	CanGoBack bool `json:"canGoBack"`
}

// Clone deep-copies the snapshot so stores and callers can retain it
// without aliasing the engine's maps.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Context = s.Context.Clone()
	out.History = make([]HistoryEntry, len(s.History))
	copy(out.History, s.History)
	return out
}
