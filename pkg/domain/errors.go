package domain

import "errors"

// ErrSnapshotNotFound is returned by snapshot stores when a machine ID
// has no persisted snapshot.
var ErrSnapshotNotFound = errors.New("snapshot not found")
