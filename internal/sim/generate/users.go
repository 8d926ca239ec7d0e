package generate

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hugh/worksim/internal/database/models"
	"github.com/hugh/worksim/internal/sim/refdata"
	"github.com/hugh/worksim/internal/sim/sampler"
	"github.com/hugh/worksim/internal/sim/simclock"
)

// generateUsers produces ORG_SIZE users with census-style names,
// department-weighted roles, and unique first.last emails on the
// organization's domain.
func (p *Pipeline) generateUsers(_ context.Context, org models.Organization) ([]models.User, error) {
	count := p.cfg.OrgSize

	deptOptions := make([]sampler.Weighted[refdata.Department], len(p.tables.Departments))
	for i, d := range p.tables.Departments {
		deptOptions[i] = sampler.Weighted[refdata.Department]{Value: d, Weight: d.Weight}
	}

	createdTimes := make([]time.Time, 0, count)
	for i := 0; i < count; i++ {
		t, err := p.clock.TimestampAfter(org.CreatedAt, simclock.Uniform)
		if err != nil {
			return nil, fmt.Errorf("sampling user creation time: %w", err)
		}
		createdTimes = append(createdTimes, t)
	}
	sort.Slice(createdTimes, func(i, j int) bool { return createdTimes[i].Before(createdTimes[j]) })

	users := make([]models.User, 0, count)
	usedEmails := make(map[string]bool, count)

	for _, createdAt := range createdTimes {
		first := p.faker.FirstName()
		last := p.faker.LastName()

		dept, err := sampler.WeightedChoice(p.rng, deptOptions)
		if err != nil {
			return nil, fmt.Errorf("sampling department: %w", err)
		}
		role := dept.Roles[p.rng.Intn(len(dept.Roles))]

		base := fmt.Sprintf("%s.%s@%s", emailToken(first), emailToken(last), org.Domain)
		email := base
		for suffix := 2; usedEmails[email]; suffix++ {
			email = fmt.Sprintf("%s.%s%d@%s", emailToken(first), emailToken(last), suffix, org.Domain)
		}
		usedEmails[email] = true

		users = append(users, models.User{
			ID:             p.newID(),
			OrganizationID: org.ID,
			Email:          email,
			Name:           first + " " + last,
			Role:           role,
			Department:     dept.Name,
			CreatedAt:      createdAt,
		})
	}
	return users, nil
}

// emailToken lowercases a name part and strips anything that does not
// belong in a local-part token.
func emailToken(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "user"
	}
	return b.String()
}
