package generate

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/worksim/internal/database/models"
	"github.com/hugh/worksim/internal/sim/content"
	"github.com/hugh/worksim/internal/sim/sampler"
)

// Most tasks collect at most a couple of comments.
var commentCountOptions = []sampler.Weighted[int]{
	{Value: 0, Weight: 0.30},
	{Value: 1, Weight: 0.35},
	{Value: 2, Weight: 0.20},
	{Value: 3, Weight: 0.10},
	{Value: 4, Weight: 0.04},
	{Value: 5, Weight: 0.01},
}

// generateComments produces discussion on tasks. Comment times decay
// exponentially after task creation; draws past the window end are
// skipped, not clamped, since a missing comment is harmless.
func (p *Pipeline) generateComments(ctx context.Context, tasks []models.Task, projects []models.Project, users []models.User) ([]models.Comment, error) {
	projectType := make(map[uuid.UUID]models.ProjectType, len(projects))
	for _, project := range projects {
		projectType[project.ID] = project.Type
	}

	end := p.clock.Window().End
	comments := make([]models.Comment, 0, len(tasks))

	for _, task := range tasks {
		count, err := sampler.WeightedChoice(p.rng, commentCountOptions)
		if err != nil {
			return nil, fmt.Errorf("sampling comment count: %w", err)
		}

		current := task.CreatedAt
		for i := 0; i < count; i++ {
			offset := sampler.ExpDays(p.rng, 0.3)
			current = current.Add(time.Duration(offset * float64(24*time.Hour))).Truncate(time.Second)
			if current.After(end) {
				break
			}

			comments = append(comments, models.Comment{
				ID:        p.newID(),
				TaskID:    task.ID,
				UserID:    p.participant(task, users, 0.6),
				Text:      p.provider.Generate(ctx, content.KindComment, content.Input{TaskName: task.Name, ProjectType: string(projectType[task.ProjectID])}),
				CreatedAt: current,
			})
		}
	}
	return comments, nil
}

// participant picks who acts on a task: the assignee with the given
// probability, the creator next, a random user otherwise.
func (p *Pipeline) participant(task models.Task, users []models.User, assigneeProb float64) uuid.UUID {
	if task.AssigneeID != nil && sampler.Bool(p.rng, assigneeProb) {
		return *task.AssigneeID
	}
	if sampler.Bool(p.rng, 0.3) {
		return task.CreatedBy
	}
	return users[p.rng.Intn(len(users))].ID
}
