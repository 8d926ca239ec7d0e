package main

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/hugh/worksim/internal/database"
	"github.com/hugh/worksim/internal/sim/content"
	"github.com/hugh/worksim/internal/sim/generate"
	"github.com/hugh/worksim/internal/sim/refdata"
	"github.com/hugh/worksim/internal/sim/simclock"
	"github.com/hugh/worksim/internal/sim/validate"
	"github.com/hugh/worksim/pkg/config"
	"github.com/hugh/worksim/pkg/util"
)

func main() {
	// Load .env file if it exists
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := util.NewLogger(cfg.Env)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	start := time.Now()

	tables, err := refdata.Load()
	if err != nil {
		return err
	}

	sim := cfg.Simulation
	rng := rand.New(rand.NewSource(sim.Seed))

	clock, err := simclock.New(rng, simclock.Window{Start: sim.StartDate, End: sim.EndDate}, nil)
	if err != nil {
		return err
	}

	provider := content.FromConfig(logger, rng, tables, &cfg.Content)
	pipeline := generate.NewPipeline(logger, sim, rng, clock, provider, tables)

	logger.Info("starting simulation",
		"seed", sim.Seed,
		"org_size", sim.OrgSize,
		"num_teams", sim.NumTeams,
		"window_start", sim.StartDate.Format("2006-01-02"),
		"window_end", sim.EndDate.Format("2006-01-02"),
	)

	ds, err := pipeline.Run(context.Background())
	if err != nil {
		return err
	}

	if err := validate.Check(ds); err != nil {
		var verr *validate.Error
		if errors.As(err, &verr) {
			for _, v := range verr.Violations {
				logger.Error("consistency violation",
					"entity", v.Entity, "id", v.ID, "invariant", v.Invariant)
			}
		}
		return err
	}
	logger.Info("consistency check passed")

	db, err := database.Open(&cfg.Database, logger)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	if err := database.WriteSnapshot(db, ds, logger); err != nil {
		return err
	}

	logger.Info("simulation complete",
		"path", cfg.Database.Path,
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
	)
	return nil
}
