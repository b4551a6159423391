package export

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/espalierhq/espalier/pkg/domain"
)

// FormatHistory renders the last n history entries as a numbered list
// with relative times computed against now. Numbering is chronological
// within the shown window.
func FormatHistory(snap domain.Snapshot, n int, now time.Time) string {
	entries := snap.History
	if n > 0 && len(entries) > n {
		entries = entries[len(entries)-n:]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "transition history (showing %d of %d):\n", len(entries), len(snap.History))
	if len(entries) == 0 {
		sb.WriteString("  (no transitions yet)\n")
		return sb.String()
	}
	for i, e := range entries {
		fmt.Fprintf(&sb, "  %d. %s -> %s (%s) - %s\n", i+1, e.From, e.To, e.Event, relTime(now.Sub(e.Timestamp)))
	}
	return sb.String()
}

// TransitionStats aggregates a snapshot's history.
type TransitionStats struct {
	// Total is the number of recorded transitions.
	Total int

	// AvgInterval is the mean time between consecutive transitions.
	// Zero when fewer than two transitions are recorded.
	AvgInterval time.Duration

	// States counts how often each state was entered.
	States map[string]int

	// Events counts how often each event type fired.
	Events map[string]int
}

// Stats derives transition statistics purely from the snapshot history.
func Stats(snap domain.Snapshot) TransitionStats {
	st := TransitionStats{
		Total:  len(snap.History),
		States: map[string]int{},
		Events: map[string]int{},
	}
	for _, e := range snap.History {
		st.States[e.To]++
		st.Events[e.Event]++
	}
	if st.Total >= 2 {
		span := snap.History[st.Total-1].Timestamp.Sub(snap.History[0].Timestamp)
		st.AvgInterval = span / time.Duration(st.Total-1)
	}
	return st
}

// FormatStats renders the statistics report.
func FormatStats(snap domain.Snapshot) string {
	st := Stats(snap)

	var sb strings.Builder
	fmt.Fprintf(&sb, "transitions: %d\n", st.Total)
	fmt.Fprintf(&sb, "avg interval: %s\n", st.AvgInterval.Round(time.Millisecond))
	sb.WriteString("states entered:\n")
	writeFreqTable(&sb, st.States)
	sb.WriteString("events fired:\n")
	writeFreqTable(&sb, st.Events)
	return sb.String()
}

func writeFreqTable(sb *strings.Builder, table map[string]int) {
	type row struct {
		name  string
		count int
	}
	rows := make([]row, 0, len(table))
	for name, count := range table {
		rows = append(rows, row{name, count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].name < rows[j].name
	})
	for _, r := range rows {
		fmt.Fprintf(sb, "  %s: %d\n", r.name, r.count)
	}
}

func relTime(d time.Duration) string {
	switch {
	case d < time.Second:
		return "just now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
