// Package timetravel reconstructs aggregate and projection state as of a
// past instant by bounding replay to events at or before it.
//
// No new transition rules live here: both queries filter the journal and
// delegate to the ordinary fold and rebuild paths. When several events share
// an occurrence instant, append order decides their replay order — exactly as
// in non-time-travel reconstitution, so the two paths cannot diverge.
package timetravel

import (
	"context"
	"fmt"
	"time"

	"github.com/louisbranch/greenhouse/internal/garden/event"
	"github.com/louisbranch/greenhouse/internal/garden/journal"
	"github.com/louisbranch/greenhouse/internal/garden/plant"
	"github.com/louisbranch/greenhouse/internal/garden/projection"
)

const pageSize = 200

// StateAsOf reconstructs one plant's state from the events whose occurrence
// instant is at or before the target. The answer is immutable: appends after
// the target instant never change it.
func StateAsOf(ctx context.Context, store journal.Store, plantID string, instant time.Time) (plant.State, error) {
	if store == nil {
		return plant.State{}, fmt.Errorf("journal store is not configured")
	}
	var state plant.State
	var afterSeq uint64
	for {
		events, err := store.ListEvents(ctx, plantID, afterSeq, pageSize)
		if err != nil {
			return plant.State{}, err
		}
		if len(events) == 0 {
			return state, nil
		}
		for _, evt := range events {
			afterSeq = evt.Seq
			// Instants are caller-supplied and may interleave, so a
			// later instant mid-stream is skipped, not a stop signal.
			if evt.Timestamp.After(instant) {
				continue
			}
			state = plant.Fold(state, evt)
		}
	}
}

// ProjectionAsOf rebuilds a fresh attention index from the global journal
// bounded to the target instant.
func ProjectionAsOf(ctx context.Context, store journal.Store, instant time.Time) (*projection.AttentionIndex, error) {
	index := projection.NewAttentionIndex()
	if _, err := projection.ReplayWith(ctx, store, index, projection.ReplayOptions{
		UntilTime: instant,
	}); err != nil {
		return nil, err
	}
	return index, nil
}

// EventsAsOf returns one plant's events at or before the target instant, in
// append order. It exists so callers can audit exactly which facts a
// time-travel answer was built from.
func EventsAsOf(ctx context.Context, store journal.Store, plantID string, instant time.Time) ([]event.Event, error) {
	if store == nil {
		return nil, fmt.Errorf("journal store is not configured")
	}
	var bounded []event.Event
	var afterSeq uint64
	for {
		events, err := store.ListEvents(ctx, plantID, afterSeq, pageSize)
		if err != nil {
			return nil, err
		}
		if len(events) == 0 {
			return bounded, nil
		}
		for _, evt := range events {
			afterSeq = evt.Seq
			if evt.Timestamp.After(instant) {
				continue
			}
			bounded = append(bounded, evt)
		}
	}
}
