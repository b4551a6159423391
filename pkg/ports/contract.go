package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/espalierhq/espalier/pkg/domain"
)

// RunSnapshotStoreContract is a reusable suite verifying an adapter
// complies with SnapshotStore. Adapter test packages call it against a
// fresh, empty store.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	t.Helper()
	ctx := context.Background()

	snap := domain.Snapshot{
		Value:   "validating",
		Context: domain.Context{"messageText": "hello", "attempts": 2},
		History: []domain.HistoryEntry{
			{From: "idle", To: "validating", Event: "SEND", Timestamp: time.Now().UTC().Truncate(time.Millisecond)},
		},
		PreviousState: "idle",
		CanGoBack:     true,
	}

	t.Run("Load_NotFound", func(t *testing.T) {
		_, err := store.Load(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	})

	t.Run("Save_Load_RoundTrip", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "chat", snap))

		got, err := store.Load(ctx, "chat")
		require.NoError(t, err)
		assert.Equal(t, snap.Value, got.Value)
		assert.Equal(t, snap.PreviousState, got.PreviousState)
		assert.True(t, got.CanGoBack)
		assert.Len(t, got.History, 1)
		assert.Equal(t, "SEND", got.History[0].Event)
		assert.Equal(t, "hello", got.Context["messageText"])
	})

	t.Run("Load_Isolation", func(t *testing.T) {
		got, err := store.Load(ctx, "chat")
		require.NoError(t, err)
		got.Context["messageText"] = "mutated"

		again, err := store.Load(ctx, "chat")
		require.NoError(t, err)
		assert.Equal(t, "hello", again.Context["messageText"])
	})

	t.Run("List", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "recorder", snap))

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"chat", "recorder"}, ids)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "recorder"))
		_, err := store.Load(ctx, "recorder")
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)

		// idempotent
		require.NoError(t, store.Delete(ctx, "recorder"))

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"chat"}, ids)
	})
}
