package generate

import (
	"fmt"

	"github.com/hugh/worksim/internal/database/models"
	"github.com/hugh/worksim/internal/sim/sampler"
)

// numTags is the organization-wide tag pool size.
const numTags = 30

var taskTagCountOptions = []sampler.Weighted[int]{
	{Value: 0, Weight: 0.30},
	{Value: 1, Weight: 0.40},
	{Value: 2, Weight: 0.20},
	{Value: 3, Weight: 0.08},
	{Value: 4, Weight: 0.02},
}

func (p *Pipeline) generateTags(org models.Organization) []models.Tag {
	names := sampler.Subset(p.rng, p.tables.TagNames, numTags)

	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		tags = append(tags, models.Tag{
			ID:             p.newID(),
			OrganizationID: org.ID,
			Name:           name,
			Color:          p.tables.Colors[p.rng.Intn(len(p.tables.Colors))],
		})
	}
	return tags
}

// generateTaskTags associates tags with tasks. Per-task tags are drawn
// without replacement, so each (task, tag) pair is unique.
func (p *Pipeline) generateTaskTags(tasks []models.Task, tags []models.Tag) ([]models.TaskTag, error) {
	taskTags := make([]models.TaskTag, 0, len(tasks))

	for _, task := range tasks {
		count, err := sampler.WeightedChoice(p.rng, taskTagCountOptions)
		if err != nil {
			return nil, fmt.Errorf("sampling tag count: %w", err)
		}
		for _, tag := range sampler.Subset(p.rng, tags, count) {
			taskTags = append(taskTags, models.TaskTag{
				TaskID: task.ID,
				TagID:  tag.ID,
			})
		}
	}
	return taskTags, nil
}
