// Package journal defines the append-only plant event journal, the system's
// sole source of truth.
package journal

import (
	"context"

	"github.com/louisbranch/greenhouse/internal/garden/event"
	apperrors "github.com/louisbranch/greenhouse/internal/platform/errors"
)

// ErrSeqConflict indicates an append whose expected sequence no longer
// matches the stream. The caller must re-run the whole command against fresh
// state; the journal never retries on its own.
var ErrSeqConflict = apperrors.New(apperrors.CodeSeqConflict, "plant stream moved past expected sequence")

// Store is the append-only event journal contract.
//
// Appended events are permanently visible to subsequent reads. The journal
// performs structural validation only; business rules are enforced before
// append, at the aggregate boundary.
type Store interface {
	// Append appends an event to its plant's stream and returns it with
	// Seq and GlobalSeq assigned. expectedSeq is the last per-plant
	// sequence the writer observed (0 for a fresh stream); a stale value
	// fails with ErrSeqConflict so two concurrently validated commands
	// cannot both land on the same pre-command state.
	Append(ctx context.Context, evt event.Event, expectedSeq uint64) (event.Event, error)
	// ListEvents returns one plant's events ordered by Seq ascending,
	// starting after afterSeq, at most limit entries.
	ListEvents(ctx context.Context, plantID string, afterSeq uint64, limit int) ([]event.Event, error)
	// ListAllEvents returns events across all plants ordered by
	// GlobalSeq ascending, starting after afterGlobalSeq, at most limit
	// entries. The global order is a linearization consistent with each
	// plant's own stream.
	ListAllEvents(ctx context.Context, afterGlobalSeq uint64, limit int) ([]event.Event, error)
	// LatestSeq returns the last sequence number of a plant's stream, or
	// 0 when the stream is empty.
	LatestSeq(ctx context.Context, plantID string) (uint64, error)
}
