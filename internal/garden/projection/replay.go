package projection

import (
	"context"
	"fmt"
	"time"

	"github.com/louisbranch/greenhouse/internal/garden/event"
	"github.com/louisbranch/greenhouse/internal/garden/journal"
)

const replayPageSize = 200

// Applier folds journal events into a read model.
type Applier interface {
	Apply(evt event.Event)
}

// ReplayOptions configures event replay behavior.
type ReplayOptions struct {
	// AfterGlobalSeq resumes replay after a checkpoint.
	AfterGlobalSeq uint64
	// UntilGlobalSeq stops replay once the global sequence passes this
	// bound (0 means unbounded).
	UntilGlobalSeq uint64
	// UntilTime skips events whose occurrence instant is after this bound
	// without stopping the scan, so coinciding instants keep their append
	// order.
	UntilTime time.Time
	// Filter drops events the applier should not see.
	Filter func(event.Event) bool
}

// Replay feeds the full journal to an applier in global order.
func Replay(ctx context.Context, store journal.Store, applier Applier) (uint64, error) {
	return ReplayWith(ctx, store, applier, ReplayOptions{})
}

// ReplayWith replays journal events with additional filtering and bounds and
// returns the last global sequence scanned.
func ReplayWith(ctx context.Context, store journal.Store, applier Applier, options ReplayOptions) (uint64, error) {
	if store == nil {
		return 0, fmt.Errorf("journal store is not configured")
	}
	if applier == nil {
		return 0, fmt.Errorf("applier is required")
	}

	lastSeq := options.AfterGlobalSeq
	for {
		events, err := store.ListAllEvents(ctx, lastSeq, replayPageSize)
		if err != nil {
			return lastSeq, err
		}
		if len(events) == 0 {
			return lastSeq, nil
		}
		for _, evt := range events {
			if options.UntilGlobalSeq > 0 && evt.GlobalSeq > options.UntilGlobalSeq {
				return lastSeq, nil
			}
			lastSeq = evt.GlobalSeq
			if !options.UntilTime.IsZero() && evt.Timestamp.After(options.UntilTime) {
				continue
			}
			if options.Filter != nil && !options.Filter(evt) {
				continue
			}
			applier.Apply(evt)
		}
	}
}
