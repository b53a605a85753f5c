package journal

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/louisbranch/greenhouse/internal/garden/event"
	apperrors "github.com/louisbranch/greenhouse/internal/platform/errors"
)

// Memory is an in-memory journal. It backs the engine in tests and
// single-process deployments that do not need durability.
type Memory struct {
	mu        sync.RWMutex
	registry  *event.Registry
	streams   map[string][]event.Event
	global    []event.Event
	globalSeq uint64
}

// NewMemory returns an empty in-memory journal validating appends against
// the provided registry.
func NewMemory(registry *event.Registry) *Memory {
	return &Memory{
		registry: registry,
		streams:  make(map[string][]event.Event),
	}
}

// Append implements Store.
func (m *Memory) Append(ctx context.Context, evt event.Event, expectedSeq uint64) (event.Event, error) {
	if err := ctx.Err(); err != nil {
		return event.Event{}, err
	}
	if m.registry == nil {
		return event.Event{}, fmt.Errorf("event registry is required")
	}
	validated, err := m.registry.ValidateForAppend(evt)
	if err != nil {
		return event.Event{}, err
	}
	evt = validated
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC().Truncate(time.Millisecond)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stream := m.streams[evt.PlantID]
	if uint64(len(stream)) != expectedSeq {
		return event.Event{}, apperrors.WithMetadata(apperrors.CodeSeqConflict, ErrSeqConflict.Message, map[string]string{
			"plant_id": evt.PlantID,
			"expected": strconv.FormatUint(expectedSeq, 10),
			"actual":   strconv.Itoa(len(stream)),
		})
	}

	evt.Seq = uint64(len(stream)) + 1
	m.globalSeq++
	evt.GlobalSeq = m.globalSeq

	m.streams[evt.PlantID] = append(stream, evt)
	m.global = append(m.global, evt)
	return evt, nil
}

// ListEvents implements Store.
func (m *Memory) ListEvents(ctx context.Context, plantID string, afterSeq uint64, limit int) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	stream := m.streams[plantID]
	if afterSeq >= uint64(len(stream)) {
		return nil, nil
	}
	page := stream[afterSeq:]
	if limit > 0 && len(page) > limit {
		page = page[:limit]
	}
	return append([]event.Event(nil), page...), nil
}

// ListAllEvents implements Store.
func (m *Memory) ListAllEvents(ctx context.Context, afterGlobalSeq uint64, limit int) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if afterGlobalSeq >= uint64(len(m.global)) {
		return nil, nil
	}
	page := m.global[afterGlobalSeq:]
	if limit > 0 && len(page) > limit {
		page = page[:limit]
	}
	return append([]event.Event(nil), page...), nil
}

// LatestSeq implements Store.
func (m *Memory) LatestSeq(ctx context.Context, plantID string) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return uint64(len(m.streams[plantID])), nil
}
