package event

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrTypeRequired indicates an event with an empty type.
	ErrTypeRequired = errors.New("event type is required")
	// ErrTypeUnknown indicates an event type absent from the registry.
	ErrTypeUnknown = errors.New("event type is not registered")
	// ErrPlantIDRequired indicates an event with no plant id.
	ErrPlantIDRequired = errors.New("plant id is required")
	// ErrPayloadRequired indicates a missing payload for a type that
	// declares one.
	ErrPayloadRequired = errors.New("event payload is required")
)

// Definition declares an event type the journal accepts.
type Definition struct {
	Type Type
	// RequiresPayload marks types whose payload must be present on append.
	RequiresPayload bool
}

// Registry holds the event definitions a journal validates appends against.
//
// The registry gates the append path only. Reconstitution and projection
// replay stay total: they ignore unknown types instead of rejecting them, so
// a journal written by a newer schema still replays under an older one.
type Registry struct {
	definitions map[Type]Definition
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{definitions: make(map[Type]Definition)}
}

// Core returns a registry with every plant event type registered.
func Core() *Registry {
	registry := NewRegistry()
	for _, def := range []Definition{
		{Type: TypeSeeded, RequiresPayload: true},
		{Type: TypeWatered},
		{Type: TypeTrimmed},
		{Type: TypeObserved, RequiresPayload: true},
		{Type: TypeHarvested, RequiresPayload: true},
		{Type: TypeDied},
		{Type: TypeDayStarted},
	} {
		if err := registry.Register(def); err != nil {
			panic(fmt.Sprintf("register core event type %q: %v", def.Type, err))
		}
	}
	return registry
}

// Register adds a definition to the registry.
func (r *Registry) Register(def Definition) error {
	if !def.Type.IsValid() {
		return ErrTypeRequired
	}
	if _, exists := r.definitions[def.Type]; exists {
		return fmt.Errorf("event type %q is already registered", def.Type)
	}
	r.definitions[def.Type] = def
	return nil
}

// Definition returns the definition for a type, if registered.
func (r *Registry) Definition(t Type) (Definition, bool) {
	def, ok := r.definitions[t]
	return def, ok
}

// ValidateForAppend checks structural requirements before an event reaches
// the journal and returns the event with its fields normalized.
func (r *Registry) ValidateForAppend(evt Event) (Event, error) {
	evt.PlantID = strings.TrimSpace(evt.PlantID)
	if evt.PlantID == "" {
		return Event{}, ErrPlantIDRequired
	}
	if !evt.Type.IsValid() {
		return Event{}, ErrTypeRequired
	}
	def, ok := r.definitions[evt.Type]
	if !ok {
		return Event{}, fmt.Errorf("%w: %q", ErrTypeUnknown, evt.Type)
	}
	if def.RequiresPayload && len(evt.PayloadJSON) == 0 {
		return Event{}, fmt.Errorf("%w: %q", ErrPayloadRequired, evt.Type)
	}
	if !evt.Timestamp.IsZero() {
		evt.Timestamp = evt.Timestamp.UTC().Truncate(time.Millisecond)
	}
	return evt, nil
}
