package domain_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/espalierhq/espalier/pkg/domain"
)

func entry(i int) domain.HistoryEntry {
	return domain.HistoryEntry{
		From:      fmt.Sprintf("s%d", i),
		To:        fmt.Sprintf("s%d", i+1),
		Event:     "NEXT",
		Timestamp: time.Unix(int64(i), 0),
	}
}

func TestHistory_EvictsOldestFirst(t *testing.T) {
	var h domain.History
	for i := 0; i < domain.HistoryCap+5; i++ {
		h.Append(entry(i))
	}

	require.Equal(t, domain.HistoryCap, h.Len())

	entries := h.Entries()
	// the first five are gone, the rest kept in order
	assert.Equal(t, "s5", entries[0].From)
	assert.Equal(t, "s24", entries[len(entries)-1].From)
	for i := 1; i < len(entries); i++ {
		assert.True(t, entries[i].Timestamp.After(entries[i-1].Timestamp))
	}
}

func TestHistory_DropLast(t *testing.T) {
	var h domain.History

	_, ok := h.DropLast()
	assert.False(t, ok)

	h.Append(entry(0))
	h.Append(entry(1))

	last, ok := h.DropLast()
	require.True(t, ok)
	assert.Equal(t, "s1", last.From)
	assert.Equal(t, 1, h.Len())

	remaining, ok := h.Last()
	require.True(t, ok)
	assert.Equal(t, "s0", remaining.From)
}

func TestHistory_EntriesIsACopy(t *testing.T) {
	var h domain.History
	h.Append(entry(0))

	entries := h.Entries()
	entries[0].From = "mutated"

	fresh := h.Entries()
	assert.Equal(t, "s0", fresh[0].From)
}

func TestHistory_Reset(t *testing.T) {
	var h domain.History
	h.Append(entry(0))
	h.Reset()
	assert.Equal(t, 0, h.Len())
	assert.Empty(t, h.Entries())
}
