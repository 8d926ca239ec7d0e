package content

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/hugh/worksim/internal/sim/refdata"
)

// TemplateProvider draws text from the embedded reference pools. It is
// deterministic given (kind, input, random stream) and never fails.
type TemplateProvider struct {
	rng    *rand.Rand
	tables *refdata.Tables
}

func NewTemplateProvider(rng *rand.Rand, tables *refdata.Tables) *TemplateProvider {
	return &TemplateProvider{rng: rng, tables: tables}
}

func (p *TemplateProvider) Generate(_ context.Context, kind Kind, in Input) string {
	switch kind {
	case KindTaskName:
		return p.taskName(in)
	case KindTaskDescription:
		return p.taskDescription(in)
	case KindComment:
		return p.comment()
	case KindProjectDescription:
		return p.projectDescription(in)
	case KindTeamDescription:
		return fmt.Sprintf("%s team responsible for core initiatives.", in.TeamName)
	default:
		return ""
	}
}

func (p *TemplateProvider) taskName(in Input) string {
	pool := p.tables.ProjectType(in.ProjectType).TaskNames
	return pool[p.rng.Intn(len(pool))]
}

// taskDescription mixes 20% empty, 50% brief, 30% detailed.
func (p *TemplateProvider) taskDescription(in Input) string {
	r := p.rng.Float64()
	switch {
	case r < 0.20:
		return ""
	case r < 0.70:
		return fmt.Sprintf("This task involves working on %s. Please ensure all requirements are met.",
			strings.ToLower(in.TaskName))
	default:
		return fmt.Sprintf(`This task involves %s.

Key requirements:
- Review current implementation
- Make necessary changes
- Test thoroughly
- Update documentation as needed`, strings.ToLower(in.TaskName))
	}
}

func (p *TemplateProvider) comment() string {
	pool := p.tables.Comments
	return pool[p.rng.Intn(len(pool))]
}

func (p *TemplateProvider) projectDescription(in Input) string {
	templates := p.tables.ProjectDescriptionTemplates
	base := fmt.Sprintf(templates[p.rng.Intn(len(templates))], in.ProjectName, in.ProjectType)

	suffixes := p.tables.ProjectType(in.ProjectType).DescriptionSuffixes
	if len(suffixes) > 0 && p.rng.Float64() < 0.6 {
		return base + " " + suffixes[p.rng.Intn(len(suffixes))]
	}
	return base
}
