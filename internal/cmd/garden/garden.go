// Package garden parses garden command flags and starts the garden runtime.
package garden

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"github.com/louisbranch/greenhouse/internal/garden/event"
	"github.com/louisbranch/greenhouse/internal/garden/projection"
	"github.com/louisbranch/greenhouse/internal/garden/service"
	"github.com/louisbranch/greenhouse/internal/garden/storage/sqlite"
	"github.com/louisbranch/greenhouse/internal/garden/tick"
	entrypoint "github.com/louisbranch/greenhouse/internal/platform/cmd"
)

// Config holds garden command configuration.
type Config struct {
	DBPath         string        `env:"GREENHOUSE_DB_PATH" envDefault:"data/garden.db"`
	TickInterval   time.Duration `env:"GREENHOUSE_TICK_INTERVAL" envDefault:"24h"`
	AutoWaterAfter int           `env:"GREENHOUSE_AUTO_WATER_AFTER" envDefault:"3"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "The garden SQLite journal path")
	fs.DurationVar(&cfg.TickInterval, "tick-interval", cfg.TickInterval, "Business-day tick period")
	fs.IntVar(&cfg.AutoWaterAfter, "auto-water-after", cfg.AutoWaterAfter, "Dry ticks before NewDay auto-waters a plant (0 disables)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the garden runtime: journal, attention index, tick scheduler.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceGarden, func(ctx context.Context) error {
		store, err := sqlite.Open(cfg.DBPath, event.Core())
		if err != nil {
			return err
		}
		defer store.Close()

		index := projection.NewAttentionIndex()
		if _, err := projection.Replay(ctx, store, index); err != nil {
			return err
		}
		log.Printf("attention index rebuilt: %d living plants", index.Len())

		svc := service.New(store,
			service.WithAutoWatering(cfg.AutoWaterAfter),
			service.WithProjections(index),
		)
		scheduler := &tick.Scheduler{
			Service:  svc,
			Index:    index,
			Interval: cfg.TickInterval,
		}
		if err := scheduler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
}
