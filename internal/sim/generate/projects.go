package generate

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/hugh/worksim/internal/database/models"
	"github.com/hugh/worksim/internal/sim/content"
	"github.com/hugh/worksim/internal/sim/refdata"
	"github.com/hugh/worksim/internal/sim/sampler"
	"github.com/hugh/worksim/internal/sim/simclock"
)

// projectCount honors an explicit NUM_PROJECTS; otherwise it derives a
// count of roughly one project per fifteen users, at least one per
// team, capped at 500.
func (p *Pipeline) projectCount() int {
	if p.cfg.NumProjects > 0 {
		return p.cfg.NumProjects
	}
	n := p.cfg.OrgSize / 15
	if n < p.cfg.NumTeams {
		n = p.cfg.NumTeams
	}
	if n > 500 {
		n = 500
	}
	if n < 1 {
		n = 1
	}
	return n
}

// generateProjects builds projects with their standard sections. Each
// project belongs to a uniform team and its creator is drawn from that
// team's roster, never org-wide.
func (p *Pipeline) generateProjects(ctx context.Context, teams []models.Team, members roster) ([]models.Project, []models.Section, error) {
	count := p.projectCount()

	typeOptions := make([]sampler.Weighted[refdata.ProjectType], len(p.tables.ProjectTypes))
	for i, pt := range p.tables.ProjectTypes {
		typeOptions[i] = sampler.Weighted[refdata.ProjectType]{Value: pt, Weight: pt.Weight}
	}

	createdTimes := make([]time.Time, 0, count)
	for i := 0; i < count; i++ {
		t, err := p.clock.TimestampAfter(p.clock.Window().Start, simclock.Uniform)
		if err != nil {
			return nil, nil, fmt.Errorf("sampling project creation time: %w", err)
		}
		createdTimes = append(createdTimes, t)
	}
	sort.Slice(createdTimes, func(i, j int) bool { return createdTimes[i].Before(createdTimes[j]) })

	projects := make([]models.Project, 0, count)
	sections := make([]models.Section, 0, count*len(p.tables.SectionNames))

	for _, createdAt := range createdTimes {
		ptype, err := sampler.WeightedChoice(p.rng, typeOptions)
		if err != nil {
			return nil, nil, fmt.Errorf("sampling project type: %w", err)
		}

		name := ptype.ProjectNames[p.rng.Intn(len(ptype.ProjectNames))]
		if sampler.Bool(p.rng, 0.30) {
			variants := []string{name + " 2024", name + " Q1", name + " Q2"}
			name = variants[p.rng.Intn(len(variants))]
		}

		team := teams[p.rng.Intn(len(teams))]
		// A created_at before its team would violate temporal ordering.
		roster := members[team.ID]
		createdAt = maxTime(createdAt, team.CreatedAt)
		creator := roster[p.rng.Intn(len(roster))]

		project := models.Project{
			ID:          p.newID(),
			TeamID:      team.ID,
			Name:        name,
			Description: p.provider.Generate(ctx, content.KindProjectDescription, content.Input{ProjectName: name, ProjectType: ptype.Name}),
			Type:        models.ProjectType(ptype.Name),
			Color:       p.tables.Colors[p.rng.Intn(len(p.tables.Colors))],
			Archived:    sampler.Bool(p.rng, 0.15),
			CreatedAt:   createdAt,
			CreatedBy:   creator.ID,
		}
		projects = append(projects, project)

		for pos, sectionName := range p.tables.SectionNames {
			sections = append(sections, models.Section{
				ID:        p.newID(),
				ProjectID: project.ID,
				Name:      sectionName,
				Position:  pos,
				CreatedAt: project.CreatedAt,
			})
		}
	}

	return projects, sections, nil
}
