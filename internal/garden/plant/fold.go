package plant

import (
	"encoding/json"

	"github.com/louisbranch/greenhouse/internal/garden/event"
)

// Fold applies an event to plant state.
//
// Fold is a pure, total transition function: identical input always yields
// identical output, every known event type is applied mechanically, and
// unknown types fall through untouched so newer journals still replay here.
// Business rules live in commands, not in folds — a watering recorded after
// death still increments the counter, because the journal says it happened.
func Fold(state State, evt event.Event) State {
	switch evt.Type {
	case event.TypeSeeded:
		var payload event.SeededPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		state.Seeded = true
		state.ID = evt.PlantID
		state.Owner = payload.Owner
		state.Alive = true
	case event.TypeWatered:
		state.TotalWaterings++
		state.TicksSinceWatering = 0
	case event.TypeTrimmed:
		state.TotalTrims++
	case event.TypeObserved:
		var payload event.ObservedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		state.LastHeightCm = payload.HeightCm
		state.LastBudCount = payload.BudCount
		state.LastCondition = payload.Condition
	case event.TypeHarvested:
		state.Harvested = true
		state.Alive = false
	case event.TypeDied:
		state.Alive = false
	case event.TypeDayStarted:
		state.TicksSinceWatering++
	}
	return state
}

// Reconstitute folds an ordered event sequence into current plant state.
func Reconstitute(events []event.Event) State {
	var state State
	for _, evt := range events {
		state = Fold(state, evt)
	}
	return state
}
