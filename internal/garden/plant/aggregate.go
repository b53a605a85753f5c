package plant

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/greenhouse/internal/garden/event"
)

// Aggregate wraps plant state with the commands that are allowed to produce
// new events for it.
//
// Commands validate business rules against the reconstituted state, then
// record the resulting event: stamp it, fold it into local state, and append
// it to the uncommitted buffer. The buffer is owned exclusively by the
// aggregate until the caller commits it to the journal and calls
// ClearUncommitted. On a rejected command nothing changes — state and buffer
// are exactly as they were before the call.
type Aggregate struct {
	id             string
	state          State
	uncommitted    []event.Event
	now            func() time.Time
	autoWaterAfter int
}

// Option configures an aggregate.
type Option func(*Aggregate)

// WithClock overrides the instant source used to stamp emitted events. The
// clock stamps occurrence instants only; no command precondition reads it.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregate) {
		a.now = now
	}
}

// WithAutoWatering enables the NewDay auto-watering rule: when the ticks
// since the last watering reach afterTicks, NewDay waters the plant itself
// before returning. Zero disables the rule.
func WithAutoWatering(afterTicks int) Option {
	return func(a *Aggregate) {
		a.autoWaterAfter = afterTicks
	}
}

// Seed creates a fresh aggregate and records its plant.seeded event.
func Seed(plantID, owner string, opts ...Option) (*Aggregate, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return nil, ErrOwnerEmpty
	}
	a := newAggregate(plantID, opts...)
	a.record(event.TypeSeeded, event.SeededPayload{Owner: owner})
	return a, nil
}

// FromHistory reconstitutes an aggregate from an ordered event slice,
// recording nothing.
func FromHistory(history []event.Event, opts ...Option) *Aggregate {
	state := Reconstitute(history)
	a := newAggregate(state.ID, opts...)
	a.state = state
	return a
}

func newAggregate(plantID string, opts ...Option) *Aggregate {
	a := &Aggregate{id: plantID, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ID returns the plant identifier.
func (a *Aggregate) ID() string {
	return a.id
}

// State returns the current reconstituted state, including the effect of any
// uncommitted events.
func (a *Aggregate) State() State {
	return a.state
}

// UncommittedEvents returns a copy of the events recorded by commands since
// the last ClearUncommitted, in the order they must be appended.
func (a *Aggregate) UncommittedEvents() []event.Event {
	return append([]event.Event(nil), a.uncommitted...)
}

// ClearUncommitted empties the buffer. Callers invoke it after the journal
// has accepted the events; the aggregate never clears on its own.
func (a *Aggregate) ClearUncommitted() {
	a.uncommitted = nil
}

// Water records a watering for a living plant.
func (a *Aggregate) Water() error {
	if err := a.requireAlive(); err != nil {
		return err
	}
	a.record(event.TypeWatered, nil)
	return nil
}

// Trim records a trim for a living plant.
func (a *Aggregate) Trim() error {
	if err := a.requireAlive(); err != nil {
		return err
	}
	a.record(event.TypeTrimmed, nil)
	return nil
}

// Observe records a growth observation for a living plant.
func (a *Aggregate) Observe(heightCm float64, budCount int, condition event.Condition) error {
	if err := a.requireAlive(); err != nil {
		return err
	}
	if !condition.IsValid() {
		return ErrInvalidCondition
	}
	a.record(event.TypeObserved, event.ObservedPayload{
		HeightCm:  heightCm,
		BudCount:  budCount,
		Condition: condition,
	})
	return nil
}

// Harvest collects the plant's observed yield and ends its life in the
// garden.
func (a *Aggregate) Harvest() error {
	if !a.state.Seeded {
		return ErrNotSeeded
	}
	if a.state.Harvested {
		return ErrAlreadyHarvested
	}
	if !a.state.Alive {
		return ErrNotAlive
	}
	if a.state.LastBudCount == 0 {
		return ErrNoYield
	}
	a.record(event.TypeHarvested, event.HarvestedPayload{Yield: a.state.LastBudCount})
	return nil
}

// Die records the death of a living plant.
func (a *Aggregate) Die() error {
	if err := a.requireAlive(); err != nil {
		return err
	}
	a.record(event.TypeDied, nil)
	return nil
}

// NewDay records one elapsed business day. When auto-watering is configured
// and the dry spell has reached the threshold, the aggregate waters itself
// through the ordinary Water command before returning, so the dependent rule
// leaves the same journal trail a gardener would.
func (a *Aggregate) NewDay() error {
	if err := a.requireAlive(); err != nil {
		return err
	}
	a.record(event.TypeDayStarted, nil)
	if a.autoWaterAfter > 0 && a.state.TicksSinceWatering >= a.autoWaterAfter {
		return a.Water()
	}
	return nil
}

func (a *Aggregate) requireAlive() error {
	if !a.state.Seeded {
		return ErrNotSeeded
	}
	if !a.state.Alive {
		return ErrNotAlive
	}
	return nil
}

// record stamps, folds, and buffers an event. It must stay the only writer of
// aggregate state.
func (a *Aggregate) record(t event.Type, payload any) {
	evt := event.Event{
		PlantID:   a.id,
		Type:      t,
		Timestamp: a.now().UTC().Truncate(time.Millisecond),
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			panic(fmt.Sprintf("marshal %s payload: %v", t, err))
		}
		evt.PayloadJSON = data
	}
	a.state = Fold(a.state, evt)
	a.uncommitted = append(a.uncommitted, evt)
}
