package generate

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/worksim/internal/database/models"
	"github.com/hugh/worksim/internal/sim/refdata"
	"github.com/hugh/worksim/internal/sim/sampler"
)

var attachmentCountOptions = []sampler.Weighted[int]{
	{Value: 0, Weight: 0.70},
	{Value: 1, Weight: 0.20},
	{Value: 2, Weight: 0.07},
	{Value: 3, Weight: 0.02},
	{Value: 4, Weight: 0.01},
}

// generateAttachments uploads files onto ~30% of tasks. Upload times
// decay quickly after task creation; draws past the window end are
// skipped. The file-type mix follows the owning project's type.
func (p *Pipeline) generateAttachments(tasks []models.Task, projects []models.Project, users []models.User) ([]models.Attachment, error) {
	projectType := make(map[uuid.UUID]string, len(projects))
	for _, project := range projects {
		projectType[project.ID] = string(project.Type)
	}

	end := p.clock.Window().End
	attachments := make([]models.Attachment, 0, len(tasks)/3)

	for _, task := range tasks {
		count, err := sampler.WeightedChoice(p.rng, attachmentCountOptions)
		if err != nil {
			return nil, fmt.Errorf("sampling attachment count: %w", err)
		}

		for i := 0; i < count; i++ {
			offset := sampler.ExpDays(p.rng, 2.0)
			uploadedAt := task.CreatedAt.Add(time.Duration(offset * float64(24*time.Hour))).Truncate(time.Second)
			if uploadedAt.After(end) {
				continue
			}

			category, err := p.fileCategory(projectType[task.ProjectID])
			if err != nil {
				return nil, err
			}
			file := category.Files[p.rng.Intn(len(category.Files))]
			pattern := p.tables.StorageURLPatterns[p.rng.Intn(len(p.tables.StorageURLPatterns))]

			id := p.newID()
			attachments = append(attachments, models.Attachment{
				ID:         id,
				TaskID:     task.ID,
				Name:       file.Name,
				FileType:   file.Mime,
				FileSize:   int64(sampler.IntBetween(p.rng, int(file.MinSize), int(file.MaxSize))),
				URL:        fmt.Sprintf(pattern, id, file.Name),
				UploadedAt: uploadedAt,
				UploadedBy: p.participant(task, users, 0.5),
			})
		}
	}
	return attachments, nil
}

// fileCategory picks an attachment category from the project type's
// configured mix.
func (p *Pipeline) fileCategory(projectType string) (*refdata.FileCategory, error) {
	mix := p.tables.ProjectType(projectType).FileMix
	if len(mix) == 0 {
		return &p.tables.FileCategories[p.rng.Intn(len(p.tables.FileCategories))], nil
	}

	options := make([]sampler.Weighted[string], len(mix))
	for i, cw := range mix {
		options[i] = sampler.Weighted[string]{Value: cw.Category, Weight: cw.Weight}
	}
	name, err := sampler.WeightedChoice(p.rng, options)
	if err != nil {
		return nil, fmt.Errorf("sampling file category: %w", err)
	}
	return p.tables.FileCategory(name), nil
}
