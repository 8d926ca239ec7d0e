package generate

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/hugh/worksim/internal/database/models"
	"github.com/hugh/worksim/internal/sim/sampler"
)

// Team sizes follow industry benchmarks: small 3-7 (40%), medium 8-15
// (40%), large 16-30 (20%).
var teamSizeBuckets = []sampler.Bucket{
	{Min: 3, Max: 7, Weight: 0.40},
	{Min: 8, Max: 15, Weight: 0.40},
	{Min: 16, Max: 30, Weight: 0.20},
}

// generateMemberships fills each team from the size distribution, then
// reconciles against the user pool: anyone the bucket draws missed is
// distributed round-robin so every user ends up in at least one team.
func (p *Pipeline) generateMemberships(teams []models.Team, users []models.User) ([]models.TeamMembership, roster, error) {
	memberships := make([]models.TeamMembership, 0, len(users))
	members := make(roster, len(teams))
	assigned := make(map[uuid.UUID]bool, len(users))

	add := func(team models.Team, user models.User) {
		role := "member"
		if sampler.Bool(p.rng, 0.10) {
			role = "admin"
		}
		memberships = append(memberships, models.TeamMembership{
			ID:       p.newID(),
			TeamID:   team.ID,
			UserID:   user.ID,
			Role:     role,
			JoinedAt: maxTime(team.CreatedAt, user.CreatedAt),
		})
		members[team.ID] = append(members[team.ID], user)
		assigned[user.ID] = true
	}

	for _, team := range teams {
		size, err := sampler.BucketedInt(p.rng, teamSizeBuckets)
		if err != nil {
			return nil, nil, fmt.Errorf("sampling team size: %w", err)
		}
		for _, user := range sampler.Subset(p.rng, users, size) {
			add(team, user)
		}
	}

	// Reconcile the remainder so nobody is left teamless.
	i := 0
	for _, user := range users {
		if assigned[user.ID] {
			continue
		}
		add(teams[i%len(teams)], user)
		i++
	}

	return memberships, members, nil
}
