package repository

import (
	"context"
	"errors"
	"time"

	"clinic-sync-backend/internal/domain/entity"
)

// ErrSnapshotNotFound is returned when the remote document has never
// been pushed.
var ErrSnapshotNotFound = errors.New("cloud snapshot not found")

// SnapshotRepository is the remote document store: one snapshot row
// under a fixed id, with a server-assigned update timestamp, plus a
// real-time notification stream for remote writes.
type SnapshotRepository interface {
	// Push uploads the full document and returns the server-assigned
	// update timestamp.
	Push(ctx context.Context, doc *entity.ClinicDocument) (time.Time, error)
	// Fetch downloads the current snapshot and its server timestamp.
	Fetch(ctx context.Context) (*entity.ClinicDocument, time.Time, error)
	// Subscribe returns a channel that receives a tick for every remote
	// write, including this client's own. The channel closes when ctx
	// is cancelled.
	Subscribe(ctx context.Context) (<-chan struct{}, error)
}
