package generate

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/worksim/internal/database/models"
	"github.com/hugh/worksim/internal/sim/content"
	"github.com/hugh/worksim/internal/sim/sampler"
	"github.com/hugh/worksim/internal/sim/simclock"
)

var priorityOptions = []sampler.Weighted[models.Priority]{
	{Value: models.PriorityLow, Weight: 0.20},
	{Value: models.PriorityNormal, Weight: 0.60},
	{Value: models.PriorityHigh, Weight: 0.15},
	{Value: models.PriorityUrgent, Weight: 0.05},
}

// Section placement skews toward the active columns.
var sectionWeights = []float64{0.35, 0.40, 0.15, 0.10}

// generateTasks builds the top-level tasks of every project. Assignees
// are drawn from the owning team's roster, weighted toward members
// with fewer in-flight tasks; the balancing is best-effort, never a
// hard cap.
func (p *Pipeline) generateTasks(ctx context.Context, projects []models.Project, sections []models.Section, members roster) ([]models.Task, error) {
	sectionsByProject := make(map[uuid.UUID][]models.Section, len(projects))
	for _, s := range sections {
		sectionsByProject[s.ProjectID] = append(sectionsByProject[s.ProjectID], s)
	}

	inflight := make(map[uuid.UUID]int)
	tasks := make([]models.Task, 0, len(projects)*p.cfg.TasksPerProject)

	for _, project := range projects {
		projectSections := sectionsByProject[project.ID]
		if len(projectSections) == 0 {
			continue
		}
		sort.Slice(projectSections, func(i, j int) bool {
			return projectSections[i].Position < projectSections[j].Position
		})

		sectionOptions := make([]sampler.Weighted[models.Section], len(projectSections))
		for i, s := range projectSections {
			w := 0.05
			if i < len(sectionWeights) {
				w = sectionWeights[i]
			}
			sectionOptions[i] = sampler.Weighted[models.Section]{Value: s, Weight: w}
		}

		numTasks := sampler.IntBetween(p.rng,
			int(float64(p.cfg.TasksPerProject)*0.7),
			int(float64(p.cfg.TasksPerProject)*1.3))

		createdTimes := make([]time.Time, 0, numTasks)
		for i := 0; i < numTasks; i++ {
			t, err := p.clock.TimestampAfter(project.CreatedAt, simclock.Uniform)
			if err != nil {
				return nil, fmt.Errorf("sampling task creation time: %w", err)
			}
			createdTimes = append(createdTimes, t)
		}
		sort.Slice(createdTimes, func(i, j int) bool { return createdTimes[i].Before(createdTimes[j]) })

		completionRate := p.completionRate(project)
		teamMembers := members[project.TeamID]

		for _, createdAt := range createdTimes {
			name := p.provider.Generate(ctx, content.KindTaskName, content.Input{ProjectType: string(project.Type)})
			description := p.provider.Generate(ctx, content.KindTaskDescription,
				content.Input{ProjectType: string(project.Type), TaskName: name})

			section, err := sampler.WeightedChoice(p.rng, sectionOptions)
			if err != nil {
				return nil, fmt.Errorf("sampling section: %w", err)
			}

			// 15% of tasks stay unassigned.
			var assigneeID *uuid.UUID
			if !sampler.Bool(p.rng, 0.15) && len(teamMembers) > 0 {
				assignee, err := p.balancedAssignee(teamMembers, inflight)
				if err != nil {
					return nil, err
				}
				assigneeID = &assignee
			}

			var dueDate *time.Time
			if due, ok := p.clock.DueDate(createdAt); ok {
				dueDate = &due
			}

			completed := sampler.Bool(p.rng, completionRate)
			var completedAt *time.Time
			if completed {
				done := p.clock.CompletionAfter(createdAt, dueDate)
				completedAt = &done
			}

			priority, err := sampler.WeightedChoice(p.rng, priorityOptions)
			if err != nil {
				return nil, fmt.Errorf("sampling priority: %w", err)
			}

			creator := teamMembers[p.rng.Intn(len(teamMembers))]
			sectionID := section.ID

			if assigneeID != nil && !completed {
				inflight[*assigneeID]++
			}

			tasks = append(tasks, models.Task{
				ID:          p.newID(),
				ProjectID:   project.ID,
				SectionID:   &sectionID,
				Name:        name,
				Description: description,
				AssigneeID:  assigneeID,
				DueDate:     dueDate,
				CreatedAt:   createdAt,
				Completed:   completed,
				CompletedAt: completedAt,
				CreatedBy:   creator.ID,
				Priority:    priority,
			})
		}
	}

	return tasks, nil
}

// completionRate draws the project's completion rate once, from the
// range its type implies. Sprint and bug-fix projects run hot.
func (p *Pipeline) completionRate(project models.Project) float64 {
	name := strings.ToLower(project.Name)
	switch {
	case strings.Contains(name, "sprint") || strings.Contains(name, "bug"):
		return sampler.Float64Between(p.rng, 0.70, 0.85)
	case project.Type == models.ProjectTypeEngineering:
		return sampler.Float64Between(p.rng, 0.65, 0.75)
	default:
		return sampler.Float64Between(p.rng, 0.40, 0.50)
	}
}

// balancedAssignee weights each member by the inverse of their current
// in-flight count.
func (p *Pipeline) balancedAssignee(team []models.User, inflight map[uuid.UUID]int) (uuid.UUID, error) {
	options := make([]sampler.Weighted[uuid.UUID], len(team))
	for i, member := range team {
		options[i] = sampler.Weighted[uuid.UUID]{
			Value:  member.ID,
			Weight: 1.0 / float64(1+inflight[member.ID]),
		}
	}
	id, err := sampler.WeightedChoice(p.rng, options)
	if err != nil {
		return uuid.Nil, fmt.Errorf("sampling assignee: %w", err)
	}
	return id, nil
}

// generateSubtasks runs a second pass over the already-created
// top-level tasks, attaching 2-5 subtasks to a SUBTASK_RATIO share of
// them. A subtask inherits its parent's project, section, assignee and
// priority; its timestamps stay consistent with the parent and the
// window.
func (p *Pipeline) generateSubtasks(parents []models.Task) []models.Task {
	end := p.clock.Window().End
	selected := sampler.Subset(p.rng, parents, int(float64(len(parents))*p.cfg.SubtaskRatio))

	subtasks := make([]models.Task, 0, len(selected)*3)
	for _, parent := range selected {
		count := sampler.IntBetween(p.rng, 2, 5)
		for i := 0; i < count; i++ {
			verb := p.tables.SubtaskVerbs[p.rng.Intn(len(p.tables.SubtaskVerbs))]
			name := verb + " " + strings.ToLower(parent.Name)

			createdAt := parent.CreatedAt.AddDate(0, 0, sampler.IntBetween(p.rng, 0, 5))
			if createdAt.After(end) {
				createdAt = end
			}

			var dueDate *time.Time
			if parent.DueDate != nil {
				due := maxTime(*parent.DueDate, createdAt)
				dueDate = &due
			}

			completedProb := 0.30
			if parent.Completed {
				completedProb = 0.70
			}
			completed := sampler.Bool(p.rng, completedProb)
			var completedAt *time.Time
			if completed {
				done := createdAt.AddDate(0, 0, sampler.IntBetween(p.rng, 1, 7))
				if done.After(end) {
					done = end
				}
				completedAt = &done
			}

			parentID := parent.ID
			subtasks = append(subtasks, models.Task{
				ID:           p.newID(),
				ProjectID:    parent.ProjectID,
				SectionID:    parent.SectionID,
				ParentTaskID: &parentID,
				Name:         name,
				AssigneeID:   parent.AssigneeID,
				DueDate:      dueDate,
				CreatedAt:    createdAt,
				Completed:    completed,
				CompletedAt:  completedAt,
				CreatedBy:    parent.CreatedBy,
				Priority:     parent.Priority,
			})
		}
	}
	return subtasks
}
