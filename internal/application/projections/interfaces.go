package projections

import (
	"time"

	"goodlife/internal/application/state"
)

// SnapshotReader is the read side of the state container.
type SnapshotReader interface {
	Snapshot() state.Snapshot
}

// Deps holds what every reporting view needs.
type Deps struct {
	State SnapshotReader
	Now   func() time.Time
}
