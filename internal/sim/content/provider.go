// Package content generates the human-readable text in the dataset:
// task names, descriptions, and comments. Two strategies exist, an
// LLM-backed provider and a deterministic template provider; the
// template path is the availability floor and the LLM path degrades to
// it on any failure.
package content

import (
	"context"
	"log/slog"
	"math/rand"

	"github.com/hugh/worksim/internal/sim/refdata"
	"github.com/hugh/worksim/pkg/config"
)

// Kind names the text being generated.
type Kind string

const (
	KindTaskName           Kind = "task_name"
	KindTaskDescription    Kind = "task_description"
	KindComment            Kind = "comment"
	KindProjectDescription Kind = "project_description"
	KindTeamDescription    Kind = "team_description"
)

// Input carries the entity context a generation draws on. Unused
// fields are left empty.
type Input struct {
	ProjectType string
	ProjectName string
	TaskName    string
	TeamName    string
}

// Provider produces text for a kind and input. Implementations never
// fail: the LLM provider falls back to templates internally, and the
// template provider always succeeds.
type Provider interface {
	Generate(ctx context.Context, kind Kind, in Input) string
}

// FromConfig resolves the configured provider once at startup. The
// random source is the run's seeded stream; only the template path
// consumes it, so template-only runs stay reproducible.
func FromConfig(logger *slog.Logger, rng *rand.Rand, tables *refdata.Tables, cfg *config.ContentConfig) Provider {
	templates := NewTemplateProvider(rng, tables)
	if cfg.Provider == "llm" {
		return NewLLMProvider(logger, LLMConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout(),
		}, templates)
	}
	return templates
}
