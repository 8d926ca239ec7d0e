package generate

import (
	"context"
	"fmt"

	"github.com/hugh/worksim/internal/database/models"
	"github.com/hugh/worksim/internal/sim/content"
	"github.com/hugh/worksim/internal/sim/sampler"
	"github.com/hugh/worksim/internal/sim/simclock"
)

// generateOrganization produces the single organization of the run,
// anchored at the start of the simulation window so every other
// timestamp can follow it.
func (p *Pipeline) generateOrganization() models.Organization {
	company := p.tables.Companies[p.rng.Intn(len(p.tables.Companies))]
	return models.Organization{
		ID:        p.newID(),
		Name:      company.Name,
		Domain:    company.Domain,
		CreatedAt: p.clock.Window().Start,
	}
}

func (p *Pipeline) generateTeams(ctx context.Context, org models.Organization) ([]models.Team, error) {
	count := p.cfg.NumTeams

	names := sampler.Subset(p.rng, p.tables.TeamNames, count)
	for i := len(names); i < count; i++ {
		names = append(names, fmt.Sprintf("Team %d", i-len(p.tables.TeamNames)+1))
	}

	teams := make([]models.Team, 0, count)
	for _, name := range names {
		createdAt, err := p.clock.TimestampAfter(org.CreatedAt, simclock.Uniform)
		if err != nil {
			return nil, fmt.Errorf("sampling team creation time: %w", err)
		}
		teams = append(teams, models.Team{
			ID:             p.newID(),
			OrganizationID: org.ID,
			Name:           name,
			Description:    p.provider.Generate(ctx, content.KindTeamDescription, content.Input{TeamName: name}),
			CreatedAt:      createdAt,
		})
	}
	return teams, nil
}
