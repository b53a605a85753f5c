// Package projection maintains read-optimized indexes folded incrementally
// from the plant event journal.
package projection

import (
	"encoding/json"
	"sort"
	"sync"

	"github.com/louisbranch/greenhouse/internal/garden/event"
)

// Entry is one attention index row: a living plant and how long it has gone
// without water.
type Entry struct {
	PlantID            string
	Owner              string
	TicksSinceWatering int
}

// AttentionIndex tracks every living plant's dry spell.
//
// The index is a filtered, denormalized cache of journal facts, never a
// source of additional truth: it can be discarded and rebuilt from the
// journal at any moment with an identical result. Apply must see events in
// per-plant stream order; cross-plant interleaving is free. Only Apply and
// Rebuild mutate the index.
type AttentionIndex struct {
	mu      sync.RWMutex
	entries map[string]Entry
	removed map[string]struct{}
}

// NewAttentionIndex returns an empty index.
func NewAttentionIndex() *AttentionIndex {
	return &AttentionIndex{
		entries: make(map[string]Entry),
		removed: make(map[string]struct{}),
	}
}

// Apply folds one event into the index.
func (x *AttentionIndex) Apply(evt event.Event) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.apply(evt)
}

// Rebuild discards the index and replays the full sequence from scratch. The
// result is identical to applying the same events one by one.
func (x *AttentionIndex) Rebuild(events []event.Event) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.entries = make(map[string]Entry)
	x.removed = make(map[string]struct{})
	for _, evt := range events {
		x.apply(evt)
	}
}

func (x *AttentionIndex) apply(evt event.Event) {
	// A terminal id stays terminal: stray later events must not resurrect
	// the entry.
	if _, gone := x.removed[evt.PlantID]; gone {
		return
	}
	switch evt.Type {
	case event.TypeSeeded:
		var payload event.SeededPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		x.entries[evt.PlantID] = Entry{PlantID: evt.PlantID, Owner: payload.Owner}
	case event.TypeWatered:
		entry, ok := x.entries[evt.PlantID]
		if !ok {
			return
		}
		entry.TicksSinceWatering = 0
		x.entries[evt.PlantID] = entry
	case event.TypeDayStarted:
		entry, ok := x.entries[evt.PlantID]
		if !ok {
			return
		}
		entry.TicksSinceWatering++
		x.entries[evt.PlantID] = entry
	case event.TypeHarvested, event.TypeDied:
		delete(x.entries, evt.PlantID)
		x.removed[evt.PlantID] = struct{}{}
	}
}

// Len returns the number of living plants in the index.
func (x *AttentionIndex) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.entries)
}

// Get returns the entry for a plant, if it is still relevant.
func (x *AttentionIndex) Get(plantID string) (Entry, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	entry, ok := x.entries[plantID]
	return entry, ok
}

// Entries returns every row ordered by plant id.
func (x *AttentionIndex) Entries() []Entry {
	x.mu.RLock()
	defer x.mu.RUnlock()
	entries := make([]Entry, 0, len(x.entries))
	for _, entry := range x.entries {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].PlantID < entries[j].PlantID
	})
	return entries
}

// RelevantIDs returns the ids of every living plant, ordered.
func (x *AttentionIndex) RelevantIDs() []string {
	x.mu.RLock()
	defer x.mu.RUnlock()
	ids := make([]string, 0, len(x.entries))
	for id := range x.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// NeedingWater returns the rows whose dry spell has reached threshold ticks,
// driest first.
func (x *AttentionIndex) NeedingWater(threshold int) []Entry {
	entries := x.Entries()
	filtered := entries[:0]
	for _, entry := range entries {
		if entry.TicksSinceWatering >= threshold {
			filtered = append(filtered, entry)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].TicksSinceWatering > filtered[j].TicksSinceWatering
	})
	return append([]Entry(nil), filtered...)
}
