package plant

import "github.com/louisbranch/greenhouse/internal/garden/event"

// State captures the replayed plant aggregate state used by command checks.
//
// State is derived from events and only mutated through folds: commands never
// write fields directly, they emit events that fold back into this struct.
type State struct {
	// Seeded indicates whether plant.seeded has been applied.
	Seeded bool
	// ID is the plant identifier.
	ID string
	// Owner is the gardener who seeded the plant.
	Owner string
	// Alive is false exactly when a terminal event (died or harvested)
	// has been applied. Nothing reverses it.
	Alive bool
	// Harvested indicates whether the plant's yield has been collected.
	Harvested bool
	// TotalWaterings counts every watering applied, including mechanically
	// replayed ones.
	TotalWaterings int
	// TotalTrims counts every trim applied.
	TotalTrims int
	// LastHeightCm is the most recently observed height.
	LastHeightCm float64
	// LastBudCount is the most recently observed bud count; it is the
	// yield a harvest would collect.
	LastBudCount int
	// LastCondition is the most recently observed health classification.
	LastCondition event.Condition
	// TicksSinceWatering counts whole elapsed business days since the last
	// watering. It is driven by day_started events, never by wall-clock
	// deltas, so replay stays deterministic.
	TicksSinceWatering int
}
