// Package ports defines the interfaces between the engine and host-side
// adapters. The engine itself never persists anything; hosts that want
// snapshots to survive their own lifecycle wire a SnapshotStore.
package ports

import (
	"context"

	"github.com/espalierhq/espalier/pkg/domain"
)

// SnapshotStore persists machine snapshots keyed by machine ID.
type SnapshotStore interface {
	// Save persists the snapshot for a machine ID, replacing any
	// previous one.
	Save(ctx context.Context, machineID string, snap domain.Snapshot) error

	// Load retrieves the snapshot for a machine ID. Returns
	// domain.ErrSnapshotNotFound if none is stored.
	Load(ctx context.Context, machineID string) (domain.Snapshot, error)

	// Delete removes the snapshot for a machine ID. Deleting a missing
	// snapshot is not an error.
	Delete(ctx context.Context, machineID string) error

	// List returns the machine IDs with a stored snapshot.
	List(ctx context.Context) ([]string, error)
}
