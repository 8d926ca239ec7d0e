// Package generate builds the simulated workspace dataset. Generators
// run in strict foreign-key dependency order, each consuming the
// already materialized upstream entities read-only and producing its
// own list exactly once.
package generate

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/hugh/worksim/internal/database/models"
	"github.com/hugh/worksim/internal/sim/content"
	"github.com/hugh/worksim/internal/sim/refdata"
	"github.com/hugh/worksim/internal/sim/simclock"
	"github.com/hugh/worksim/pkg/config"
)

// roster maps a team to its members in membership order.
type roster map[uuid.UUID][]models.User

type Pipeline struct {
	logger   *slog.Logger
	cfg      config.SimulationConfig
	rng      *rand.Rand
	clock    *simclock.Clock
	provider content.Provider
	tables   *refdata.Tables
	faker    *gofakeit.Faker
}

// NewPipeline wires a pipeline around the run's single seeded random
// stream. The clock and provider must share that stream for runs to be
// reproducible.
func NewPipeline(logger *slog.Logger, cfg config.SimulationConfig, rng *rand.Rand,
	clock *simclock.Clock, provider content.Provider, tables *refdata.Tables) *Pipeline {
	return &Pipeline{
		logger:   logger,
		cfg:      cfg,
		rng:      rng,
		clock:    clock,
		provider: provider,
		tables:   tables,
		faker:    gofakeit.New(uint64(cfg.Seed)),
	}
}

// Run executes every generator in dependency order and returns the
// finished dataset. It fails only on malformed distributions; content
// failures are absorbed by the provider and temporal overflow is
// handled per field.
func (p *Pipeline) Run(ctx context.Context) (*Dataset, error) {
	ds := &Dataset{Window: p.clock.Window()}

	ds.Organization = p.generateOrganization()
	p.logger.Info("generated organization", "name", ds.Organization.Name)

	var err error
	ds.Users, err = p.generateUsers(ctx, ds.Organization)
	if err != nil {
		return nil, err
	}
	p.logger.Info("generated users", "count", len(ds.Users))

	ds.Teams, err = p.generateTeams(ctx, ds.Organization)
	if err != nil {
		return nil, err
	}
	p.logger.Info("generated teams", "count", len(ds.Teams))

	var members roster
	ds.Memberships, members, err = p.generateMemberships(ds.Teams, ds.Users)
	if err != nil {
		return nil, err
	}
	p.logger.Info("generated team memberships", "count", len(ds.Memberships))

	ds.Projects, ds.Sections, err = p.generateProjects(ctx, ds.Teams, members)
	if err != nil {
		return nil, err
	}
	p.logger.Info("generated projects", "projects", len(ds.Projects), "sections", len(ds.Sections))

	ds.FieldDefs, err = p.generateFieldDefs(ds.Projects)
	if err != nil {
		return nil, err
	}
	p.logger.Info("generated custom field definitions", "count", len(ds.FieldDefs))

	topLevel, err := p.generateTasks(ctx, ds.Projects, ds.Sections, members)
	if err != nil {
		return nil, err
	}
	subtasks := p.generateSubtasks(topLevel)
	ds.Tasks = append(topLevel, subtasks...)
	p.logger.Info("generated tasks", "top_level", len(topLevel), "subtasks", len(subtasks))

	ds.Comments, err = p.generateComments(ctx, ds.Tasks, ds.Projects, ds.Users)
	if err != nil {
		return nil, err
	}
	p.logger.Info("generated comments", "count", len(ds.Comments))

	ds.Tags = p.generateTags(ds.Organization)
	ds.TaskTags, err = p.generateTaskTags(ds.Tasks, ds.Tags)
	if err != nil {
		return nil, err
	}
	p.logger.Info("generated tags", "tags", len(ds.Tags), "task_tags", len(ds.TaskTags))

	ds.FieldValues = p.generateFieldValues(ds.Tasks, ds.FieldDefs)
	p.logger.Info("generated custom field values", "count", len(ds.FieldValues))

	ds.Attachments, err = p.generateAttachments(ds.Tasks, ds.Projects, ds.Users)
	if err != nil {
		return nil, err
	}
	p.logger.Info("generated attachments", "count", len(ds.Attachments))

	return ds, nil
}

// newID draws a surrogate key from the seeded stream, so shuffled
// insertion order stays reproducible run to run.
func (p *Pipeline) newID() uuid.UUID {
	return uuid.Must(uuid.NewRandomFromReader(p.rng))
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
