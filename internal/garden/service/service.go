// Package service executes plant commands against the journal: it loads
// history, runs the aggregate, commits the emitted events with the
// optimistic append guard, and feeds them to the registered projections.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/greenhouse/internal/garden/event"
	"github.com/louisbranch/greenhouse/internal/garden/journal"
	"github.com/louisbranch/greenhouse/internal/garden/plant"
	"github.com/louisbranch/greenhouse/internal/garden/projection"
)

const tracerName = "github.com/louisbranch/greenhouse/internal/garden/service"

const historyPageSize = 200

// Service coordinates one command per plant at a time: validate against
// reconstituted state, append, project. Append conflicts surface to the
// caller, who retries the whole command so preconditions are re-evaluated
// against fresh state.
type Service struct {
	store          journal.Store
	projections    []projection.Applier
	now            func() time.Time
	newID          func() string
	autoWaterAfter int
	tracer         trace.Tracer
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the instant source used to stamp events.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithIDGenerator overrides plant id generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		s.newID = newID
	}
}

// WithAutoWatering sets the NewDay auto-watering threshold in ticks. Zero
// disables the rule.
func WithAutoWatering(afterTicks int) Option {
	return func(s *Service) {
		s.autoWaterAfter = afterTicks
	}
}

// WithProjections registers read models that receive every committed event
// in append order.
func WithProjections(appliers ...projection.Applier) Option {
	return func(s *Service) {
		s.projections = append(s.projections, appliers...)
	}
}

// New returns a Service writing to the provided journal store.
func New(store journal.Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		now:    time.Now,
		newID:  uuid.NewString,
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SeedPlant creates a new plant for an owner and returns its state.
func (s *Service) SeedPlant(ctx context.Context, owner string) (plant.State, error) {
	ctx, span := s.tracer.Start(ctx, "garden.seed_plant")
	defer span.End()

	agg, err := plant.Seed(s.newID(), owner, s.aggregateOptions()...)
	if err != nil {
		return plant.State{}, spanErr(span, err)
	}
	span.SetAttributes(attribute.String("plant.id", agg.ID()))
	if err := s.commit(ctx, agg, 0); err != nil {
		return plant.State{}, spanErr(span, err)
	}
	return agg.State(), nil
}

// Water waters a plant.
func (s *Service) Water(ctx context.Context, plantID string) (plant.State, error) {
	return s.execute(ctx, "garden.water", plantID, (*plant.Aggregate).Water)
}

// Trim trims a plant.
func (s *Service) Trim(ctx context.Context, plantID string) (plant.State, error) {
	return s.execute(ctx, "garden.trim", plantID, (*plant.Aggregate).Trim)
}

// Harvest collects a plant's yield.
func (s *Service) Harvest(ctx context.Context, plantID string) (plant.State, error) {
	return s.execute(ctx, "garden.harvest", plantID, (*plant.Aggregate).Harvest)
}

// Die records a plant's death.
func (s *Service) Die(ctx context.Context, plantID string) (plant.State, error) {
	return s.execute(ctx, "garden.die", plantID, (*plant.Aggregate).Die)
}

// Observe records a growth observation.
func (s *Service) Observe(ctx context.Context, plantID string, heightCm float64, budCount int, condition event.Condition) (plant.State, error) {
	return s.execute(ctx, "garden.observe", plantID, func(agg *plant.Aggregate) error {
		return agg.Observe(heightCm, budCount, condition)
	})
}

// NewDay records one elapsed business day for a plant.
func (s *Service) NewDay(ctx context.Context, plantID string) (plant.State, error) {
	return s.execute(ctx, "garden.new_day", plantID, (*plant.Aggregate).NewDay)
}

// PlantState reconstitutes a plant's current state without emitting events.
func (s *Service) PlantState(ctx context.Context, plantID string) (plant.State, error) {
	history, err := s.loadHistory(ctx, plantID)
	if err != nil {
		return plant.State{}, err
	}
	return plant.Reconstitute(history), nil
}

func (s *Service) execute(ctx context.Context, name, plantID string, cmd func(*plant.Aggregate) error) (plant.State, error) {
	ctx, span := s.tracer.Start(ctx, name, trace.WithAttributes(attribute.String("plant.id", plantID)))
	defer span.End()

	history, err := s.loadHistory(ctx, plantID)
	if err != nil {
		return plant.State{}, spanErr(span, err)
	}
	agg := plant.FromHistory(history, s.aggregateOptions()...)
	if err := cmd(agg); err != nil {
		return agg.State(), spanErr(span, err)
	}
	lastSeq := uint64(0)
	if len(history) > 0 {
		lastSeq = history[len(history)-1].Seq
	}
	if err := s.commit(ctx, agg, lastSeq); err != nil {
		return plant.State{}, spanErr(span, err)
	}
	return agg.State(), nil
}

// commit appends the aggregate's uncommitted events in order, feeds the
// stored events to every projection, and clears the buffer.
func (s *Service) commit(ctx context.Context, agg *plant.Aggregate, lastSeq uint64) error {
	expected := lastSeq
	for _, evt := range agg.UncommittedEvents() {
		stored, err := s.store.Append(ctx, evt, expected)
		if err != nil {
			return err
		}
		expected = stored.Seq
		for _, applier := range s.projections {
			applier.Apply(stored)
		}
	}
	agg.ClearUncommitted()
	return nil
}

func (s *Service) loadHistory(ctx context.Context, plantID string) ([]event.Event, error) {
	var history []event.Event
	var afterSeq uint64
	for {
		page, err := s.store.ListEvents(ctx, plantID, afterSeq, historyPageSize)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			return history, nil
		}
		history = append(history, page...)
		afterSeq = page[len(page)-1].Seq
	}
}

func (s *Service) aggregateOptions() []plant.Option {
	opts := []plant.Option{plant.WithClock(s.now)}
	if s.autoWaterAfter > 0 {
		opts = append(opts, plant.WithAutoWatering(s.autoWaterAfter))
	}
	return opts
}

func spanErr(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
