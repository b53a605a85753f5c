package event

import (
	"strings"
	"time"
)

// Type identifies the kind of a plant event.
type Type string

// Plant lifecycle events.
const (
	// TypeSeeded records the creation of a plant.
	TypeSeeded Type = "plant.seeded"
	// TypeWatered records a watering.
	TypeWatered Type = "plant.watered"
	// TypeTrimmed records a trim.
	TypeTrimmed Type = "plant.trimmed"
	// TypeObserved records a growth observation.
	TypeObserved Type = "plant.observed"
	// TypeHarvested records the harvest of a plant's yield.
	TypeHarvested Type = "plant.harvested"
	// TypeDied records the death of a plant.
	TypeDied Type = "plant.died"
	// TypeDayStarted records one elapsed business day for a plant.
	TypeDayStarted Type = "plant.day_started"
)

// Event represents an immutable entry in the plant journal.
//
// Events are facts: they are never mutated or deleted once appended. Replay
// order within one plant's stream is defined by Seq (append order), never by
// Timestamp — callers may supply coinciding or historical instants.
type Event struct {
	// PlantID is the plant this event belongs to.
	PlantID string
	// Seq is the event sequence number within the plant's stream (starts
	// at 1). Assigned by storage on append.
	Seq uint64
	// GlobalSeq orders events across all plants. It is a valid
	// linearization consistent with each plant's own stream; it does not
	// claim to reflect real time across plants. Assigned by storage on
	// append.
	GlobalSeq uint64
	// Timestamp is when the event occurred, in UTC. Business time is
	// carried by day_started events, so the instant is informational for
	// everything except time-travel bounds.
	Timestamp time.Time
	// Type identifies the kind of event.
	Type Type
	// PayloadJSON holds kind-specific data as JSON.
	PayloadJSON []byte
}

// IsValid reports whether the event type is usable.
func (t Type) IsValid() bool {
	return strings.TrimSpace(string(t)) != ""
}

// Terminal reports whether the event type ends a plant's life in the garden.
// No later event reverses a terminal one.
func (t Type) Terminal() bool {
	return t == TypeHarvested || t == TypeDied
}
