package timetravel

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/louisbranch/greenhouse/internal/garden/event"
	"github.com/louisbranch/greenhouse/internal/garden/journal"
	"github.com/louisbranch/greenhouse/internal/garden/plant"
)

func mustAppend(t *testing.T, store journal.Store, evt event.Event, expectedSeq uint64) event.Event {
	t.Helper()
	stored, err := store.Append(context.Background(), evt, expectedSeq)
	if err != nil {
		t.Fatalf("append %s/%s: %v", evt.PlantID, evt.Type, err)
	}
	return stored
}

func seededEvent(t *testing.T, plantID, owner string, stamp time.Time) event.Event {
	t.Helper()
	payload, err := json.Marshal(event.SeededPayload{Owner: owner})
	if err != nil {
		t.Fatalf("marshal seeded payload: %v", err)
	}
	return event.Event{PlantID: plantID, Type: event.TypeSeeded, Timestamp: stamp, PayloadJSON: payload}
}

func plainEvent(plantID string, typ event.Type, stamp time.Time) event.Event {
	return event.Event{PlantID: plantID, Type: typ, Timestamp: stamp}
}

func TestStateAsOf_MatchesFoldOverBoundedEvents(t *testing.T) {
	store := journal.NewMemory(event.Core())
	stamp := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	mustAppend(t, store, seededEvent(t, "plant-1", "ana", stamp), 0)
	mustAppend(t, store, plainEvent("plant-1", event.TypeWatered, stamp.Add(time.Hour)), 1)
	mustAppend(t, store, plainEvent("plant-1", event.TypeDayStarted, stamp.Add(24*time.Hour)), 2)
	mustAppend(t, store, plainEvent("plant-1", event.TypeDayStarted, stamp.Add(48*time.Hour)), 3)

	instant := stamp.Add(24 * time.Hour)
	got, err := StateAsOf(context.Background(), store, "plant-1", instant)
	if err != nil {
		t.Fatalf("state as of: %v", err)
	}

	bounded, err := EventsAsOf(context.Background(), store, "plant-1", instant)
	if err != nil {
		t.Fatalf("events as of: %v", err)
	}
	if want := plant.Reconstitute(bounded); got != want {
		t.Fatalf("state = %+v, want %+v", got, want)
	}
	if got.TicksSinceWatering != 1 {
		t.Fatalf("ticks = %d, want 1", got.TicksSinceWatering)
	}
	if got.TotalWaterings != 1 {
		t.Fatalf("waterings = %d, want 1", got.TotalWaterings)
	}
}

func TestStateAsOf_AnswerIsImmutableUnderLaterAppends(t *testing.T) {
	store := journal.NewMemory(event.Core())
	stamp := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	instant := stamp.Add(2 * time.Hour)

	mustAppend(t, store, seededEvent(t, "plant-1", "ana", stamp), 0)
	mustAppend(t, store, plainEvent("plant-1", event.TypeWatered, stamp.Add(time.Hour)), 1)

	before, err := StateAsOf(context.Background(), store, "plant-1", instant)
	if err != nil {
		t.Fatalf("state as of: %v", err)
	}

	mustAppend(t, store, plainEvent("plant-1", event.TypeDayStarted, stamp.Add(24*time.Hour)), 2)
	mustAppend(t, store, plainEvent("plant-1", event.TypeDied, stamp.Add(25*time.Hour)), 3)

	after, err := StateAsOf(context.Background(), store, "plant-1", instant)
	if err != nil {
		t.Fatalf("state as of (after appends): %v", err)
	}
	if before != after {
		t.Fatalf("past answer changed: before=%+v after=%+v", before, after)
	}
	if !after.Alive {
		t.Fatal("past answer must not see the later death")
	}
}

func TestStateAsOf_SameInstantTieBreaksByAppendOrder(t *testing.T) {
	store := journal.NewMemory(event.Core())
	stamp := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	mustAppend(t, store, seededEvent(t, "plant-1", "ana", stamp), 0)
	// Watered then died, at the exact same instant. Append order decides:
	// the plant ends up dead, with the watering counted first.
	mustAppend(t, store, plainEvent("plant-1", event.TypeWatered, stamp.Add(time.Hour)), 1)
	mustAppend(t, store, plainEvent("plant-1", event.TypeDied, stamp.Add(time.Hour)), 2)

	state, err := StateAsOf(context.Background(), store, "plant-1", stamp.Add(time.Hour))
	if err != nil {
		t.Fatalf("state as of: %v", err)
	}
	if state.Alive {
		t.Fatal("append order puts death last; plant must be dead")
	}
	if state.TotalWaterings != 1 {
		t.Fatalf("waterings = %d, want 1", state.TotalWaterings)
	}
}

func TestStateAsOf_InstantBeforeFirstEvent(t *testing.T) {
	store := journal.NewMemory(event.Core())
	stamp := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	mustAppend(t, store, seededEvent(t, "plant-1", "ana", stamp), 0)

	state, err := StateAsOf(context.Background(), store, "plant-1", stamp.Add(-time.Hour))
	if err != nil {
		t.Fatalf("state as of: %v", err)
	}
	if state != (plant.State{}) {
		t.Fatalf("state = %+v, want zero state", state)
	}
}

func TestProjectionAsOf_BoundsTheIndex(t *testing.T) {
	store := journal.NewMemory(event.Core())
	stamp := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	mustAppend(t, store, seededEvent(t, "plant-1", "ana", stamp), 0)
	mustAppend(t, store, seededEvent(t, "plant-2", "bo", stamp), 0)
	mustAppend(t, store, plainEvent("plant-1", event.TypeDayStarted, stamp.Add(24*time.Hour)), 1)
	mustAppend(t, store, plainEvent("plant-2", event.TypeDied, stamp.Add(48*time.Hour)), 1)

	index, err := ProjectionAsOf(context.Background(), store, stamp.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("projection as of: %v", err)
	}

	// plant-2 dies only after the bound, so the past index still holds it.
	if index.Len() != 2 {
		t.Fatalf("index length = %d, want 2", index.Len())
	}
	entry, ok := index.Get("plant-1")
	if !ok {
		t.Fatal("expected plant-1 in past index")
	}
	if entry.TicksSinceWatering != 1 {
		t.Fatalf("ticks = %d, want 1", entry.TicksSinceWatering)
	}
}

func TestEventsAsOf_ReturnsBoundedAppendOrder(t *testing.T) {
	store := journal.NewMemory(event.Core())
	stamp := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	mustAppend(t, store, seededEvent(t, "plant-1", "ana", stamp), 0)
	mustAppend(t, store, plainEvent("plant-1", event.TypeWatered, stamp.Add(time.Hour)), 1)
	mustAppend(t, store, plainEvent("plant-1", event.TypeDayStarted, stamp.Add(24*time.Hour)), 2)

	bounded, err := EventsAsOf(context.Background(), store, "plant-1", stamp.Add(time.Hour))
	if err != nil {
		t.Fatalf("events as of: %v", err)
	}
	if len(bounded) != 2 {
		t.Fatalf("bounded length = %d, want 2", len(bounded))
	}
	if bounded[0].Seq != 1 || bounded[1].Seq != 2 {
		t.Fatalf("bounded seqs = %d,%d, want 1,2", bounded[0].Seq, bounded[1].Seq)
	}
}
