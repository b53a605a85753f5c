// Package tick drives business time: a periodic scheduler that records
// exactly one day_started event per living plant per period.
//
// The scheduler is deliberately outside the domain model. Only the tick
// events it produces carry time into replay, so scheduler jitter — or the
// exact wall-clock moment a period fires — never affects correctness.
package tick

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/louisbranch/greenhouse/internal/garden/projection"
	"github.com/louisbranch/greenhouse/internal/garden/service"
)

// Scheduler issues NewDay once per relevant plant per period.
type Scheduler struct {
	// Service executes the NewDay commands.
	Service *service.Service
	// Index reports which plants are still relevant.
	Index *projection.AttentionIndex
	// Interval is the business-day period.
	Interval time.Duration
}

// Run ticks until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.Service == nil {
		return fmt.Errorf("command service is required")
	}
	if s.Index == nil {
		return fmt.Errorf("attention index is required")
	}
	if s.Interval <= 0 {
		return fmt.Errorf("tick interval must be positive")
	}

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs one period: every plant the index reports as relevant gets one
// NewDay command. Failures are logged and skipped — a conflicted or rejected
// plant picks the tick up on the next period rather than blocking the rest.
func (s *Scheduler) Tick(ctx context.Context) {
	for _, plantID := range s.Index.RelevantIDs() {
		if _, err := s.Service.NewDay(ctx, plantID); err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("new day %s: %v", plantID, err)
		}
	}
}
