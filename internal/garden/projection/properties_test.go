package projection

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/louisbranch/greenhouse/internal/garden/event"
)

var indexedTypes = []event.Type{
	event.TypeWatered,
	event.TypeDayStarted,
	event.TypeHarvested,
	event.TypeDied,
}

// gardenFromCodes builds interleaved streams for a handful of plants: each
// stream starts seeded, then arbitrary events follow, including events after
// terminal ones that a real journal would never hold.
func gardenFromCodes(codes []int) []event.Event {
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	var events []event.Event
	seededIDs := map[string]bool{}
	for i, code := range codes {
		plantID := fmt.Sprintf("plant-%d", code%4)
		if !seededIDs[plantID] {
			seededIDs[plantID] = true
			payload, _ := json.Marshal(event.SeededPayload{Owner: "prop"})
			events = append(events, event.Event{
				PlantID:     plantID,
				Type:        event.TypeSeeded,
				Timestamp:   base.Add(time.Duration(i) * time.Hour),
				PayloadJSON: payload,
			})
			continue
		}
		evt := event.Event{
			PlantID:   plantID,
			Type:      indexedTypes[code%len(indexedTypes)],
			Timestamp: base.Add(time.Duration(i) * time.Hour),
		}
		if evt.Type == event.TypeHarvested {
			payload, _ := json.Marshal(event.HarvestedPayload{Yield: code % 9})
			evt.PayloadJSON = payload
		}
		events = append(events, evt)
	}
	return events
}

func TestAttentionIndexProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1789)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("incremental apply equals rebuild", prop.ForAll(
		func(codes []int) bool {
			events := gardenFromCodes(codes)

			incremental := NewAttentionIndex()
			for _, evt := range events {
				incremental.Apply(evt)
			}
			rebuilt := NewAttentionIndex()
			rebuilt.Rebuild(events)

			got := incremental.Entries()
			want := rebuilt.Entries()
			if len(got) != len(want) {
				return false
			}
			for i := range want {
				if got[i] != want[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 1000)),
	))

	properties.Property("terminal plants never reappear", prop.ForAll(
		func(codes []int) bool {
			events := gardenFromCodes(codes)

			index := NewAttentionIndex()
			terminal := map[string]bool{}
			for _, evt := range events {
				index.Apply(evt)
				if evt.Type.Terminal() {
					terminal[evt.PlantID] = true
				}
				for id := range terminal {
					if _, ok := index.Get(id); ok {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 1000)),
	))

	properties.TestingRun(t)
}
