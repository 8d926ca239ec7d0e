package generate

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugh/worksim/internal/sim/content"
	"github.com/hugh/worksim/internal/sim/refdata"
	"github.com/hugh/worksim/internal/sim/simclock"
	"github.com/hugh/worksim/pkg/config"
)

func testSimConfig() config.SimulationConfig {
	return config.SimulationConfig{
		OrgSize:         100,
		NumTeams:        5,
		NumProjects:     10,
		TasksPerProject: 10,
		SubtaskRatio:    0.20,
		Seed:            42,
		StartDate:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	}
}

func newTestPipeline(t *testing.T, cfg config.SimulationConfig) *Pipeline {
	t.Helper()

	tables, err := refdata.Load()
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(cfg.Seed))
	clock, err := simclock.New(rng, simclock.Window{Start: cfg.StartDate, End: cfg.EndDate}, nil)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	provider := content.NewTemplateProvider(rng, tables)
	return NewPipeline(logger, cfg, rng, clock, provider, tables)
}

func runPipeline(t *testing.T, cfg config.SimulationConfig) *Dataset {
	t.Helper()
	ds, err := newTestPipeline(t, cfg).Run(context.Background())
	require.NoError(t, err)
	return ds
}

func TestRunProducesConfiguredCounts(t *testing.T) {
	cfg := testSimConfig()
	ds := runPipeline(t, cfg)

	assert.Len(t, ds.Users, cfg.OrgSize)
	assert.Len(t, ds.Teams, cfg.NumTeams)
	assert.Len(t, ds.Projects, cfg.NumProjects)
	assert.Len(t, ds.Sections, cfg.NumProjects*4)
	assert.NotEmpty(t, ds.Tasks)
	assert.NotEmpty(t, ds.Tags)
}

func TestRunEmailsUnique(t *testing.T) {
	ds := runPipeline(t, testSimConfig())

	seen := make(map[string]bool, len(ds.Users))
	for _, u := range ds.Users {
		assert.False(t, seen[u.Email], "duplicate email %q", u.Email)
		seen[u.Email] = true
		assert.Contains(t, u.Email, "@"+ds.Organization.Domain)
	}
}

func TestRunEveryUserHasTeam(t *testing.T) {
	ds := runPipeline(t, testSimConfig())

	inTeam := make(map[uuid.UUID]bool, len(ds.Users))
	for _, m := range ds.Memberships {
		inTeam[m.UserID] = true
	}
	for _, u := range ds.Users {
		assert.True(t, inTeam[u.ID], "user %s has no team", u.Email)
	}
}

func TestRunTemporalOrdering(t *testing.T) {
	ds := runPipeline(t, testSimConfig())
	end := ds.Window.End

	org := ds.Organization
	for _, team := range ds.Teams {
		assert.False(t, team.CreatedAt.Before(org.CreatedAt))
	}

	teams := make(map[uuid.UUID]time.Time, len(ds.Teams))
	for _, team := range ds.Teams {
		teams[team.ID] = team.CreatedAt
	}
	projects := make(map[uuid.UUID]time.Time, len(ds.Projects))
	for _, p := range ds.Projects {
		assert.False(t, p.CreatedAt.Before(teams[p.TeamID]), "project before its team")
		projects[p.ID] = p.CreatedAt
	}

	tasks := make(map[uuid.UUID]time.Time, len(ds.Tasks))
	for _, task := range ds.Tasks {
		tasks[task.ID] = task.CreatedAt
	}
	for _, task := range ds.Tasks {
		assert.False(t, task.CreatedAt.Before(projects[task.ProjectID]), "task before its project")
		assert.False(t, task.CreatedAt.After(end), "task created past window end")
		if task.ParentTaskID != nil {
			assert.False(t, task.CreatedAt.Before(tasks[*task.ParentTaskID]), "subtask before its parent")
		}
		if task.DueDate != nil {
			assert.False(t, task.DueDate.After(end), "due date past window end")
		}
		assert.Equal(t, task.Completed, task.CompletedAt != nil)
		if task.CompletedAt != nil {
			assert.False(t, task.CompletedAt.Before(task.CreatedAt), "completed before created")
			assert.False(t, task.CompletedAt.After(end), "completed past window end")
		}
	}

	for _, c := range ds.Comments {
		assert.False(t, c.CreatedAt.Before(tasks[c.TaskID]), "comment before its task")
		assert.False(t, c.CreatedAt.After(end), "comment past window end")
	}
	for _, a := range ds.Attachments {
		assert.False(t, a.UploadedAt.Before(tasks[a.TaskID]), "attachment before its task")
		assert.False(t, a.UploadedAt.After(end), "attachment past window end")
	}
}

func TestRunSubtasksInheritParent(t *testing.T) {
	ds := runPipeline(t, testSimConfig())

	byID := make(map[uuid.UUID]int, len(ds.Tasks))
	for i, task := range ds.Tasks {
		byID[task.ID] = i
	}

	subtasks := 0
	for _, task := range ds.Tasks {
		if task.ParentTaskID == nil {
			continue
		}
		subtasks++
		parentIdx, ok := byID[*task.ParentTaskID]
		require.True(t, ok, "dangling parent_task_id")
		parent := ds.Tasks[parentIdx]

		assert.Nil(t, parent.ParentTaskID, "subtasks nest one level only")
		assert.Equal(t, parent.ProjectID, task.ProjectID)
		assert.Equal(t, parent.Priority, task.Priority)
	}
	assert.NotZero(t, subtasks)
}

func TestRunAssigneesBelongToProjectTeam(t *testing.T) {
	ds := runPipeline(t, testSimConfig())

	memberOf := make(map[uuid.UUID]map[uuid.UUID]bool)
	for _, m := range ds.Memberships {
		if memberOf[m.TeamID] == nil {
			memberOf[m.TeamID] = make(map[uuid.UUID]bool)
		}
		memberOf[m.TeamID][m.UserID] = true
	}
	teamOf := make(map[uuid.UUID]uuid.UUID, len(ds.Projects))
	for _, p := range ds.Projects {
		teamOf[p.ID] = p.TeamID
		assert.True(t, memberOf[p.TeamID][p.CreatedBy], "project creator outside owning team")
	}

	for _, task := range ds.Tasks {
		if task.AssigneeID != nil {
			assert.True(t, memberOf[teamOf[task.ProjectID]][*task.AssigneeID],
				"assignee outside the project's team")
		}
	}
}

func TestRunAssignmentsSpreadAcrossMembers(t *testing.T) {
	ds := runPipeline(t, testSimConfig())

	assigned := 0
	perUser := make(map[uuid.UUID]int)
	for _, task := range ds.Tasks {
		if task.ParentTaskID != nil || task.AssigneeID == nil {
			continue
		}
		assigned++
		perUser[*task.AssigneeID]++
	}
	require.NotZero(t, assigned)

	// Soft balancing: work lands on many members, and nobody hoards a
	// majority of it.
	assert.Greater(t, len(perUser), 5)
	for id, n := range perUser {
		assert.Less(t, float64(n)/float64(assigned), 0.5, "user %s holds too many tasks", id)
	}
}

func TestRunFieldValuesMatchDefinitions(t *testing.T) {
	ds := runPipeline(t, testSimConfig())

	defs := make(map[uuid.UUID]string, len(ds.FieldDefs))
	for _, d := range ds.FieldDefs {
		defs[d.ID] = string(d.Type)
	}

	seen := make(map[[2]uuid.UUID]bool, len(ds.FieldValues))
	for _, v := range ds.FieldValues {
		_, ok := defs[v.FieldID]
		require.True(t, ok, "value references unknown field")

		pair := [2]uuid.UUID{v.TaskID, v.FieldID}
		assert.False(t, seen[pair], "duplicate (task, field) value")
		seen[pair] = true
	}
}

func TestRunDeterministicForSeed(t *testing.T) {
	a := runPipeline(t, testSimConfig())
	b := runPipeline(t, testSimConfig())

	assert.Equal(t, a.Organization, b.Organization)
	assert.Equal(t, a.Users, b.Users)
	assert.Equal(t, a.Teams, b.Teams)
	assert.Equal(t, a.Memberships, b.Memberships)
	assert.Equal(t, a.Projects, b.Projects)
	assert.Equal(t, a.Tasks, b.Tasks)
	assert.Equal(t, a.Comments, b.Comments)
	assert.Equal(t, a.Attachments, b.Attachments)
}

func TestRunDifferentSeedsDiverge(t *testing.T) {
	cfg := testSimConfig()
	a := runPipeline(t, cfg)

	cfg.Seed = 43
	b := runPipeline(t, cfg)

	assert.NotEqual(t, a.Organization.ID, b.Organization.ID)
}

func TestProjectCountDerivation(t *testing.T) {
	cfg := testSimConfig()
	cfg.NumProjects = 0

	// 100 users / 15 = 6, above the per-team floor of 5.
	p := newTestPipeline(t, cfg)
	assert.Equal(t, 6, p.projectCount())

	cfg.NumProjects = 25
	p = newTestPipeline(t, cfg)
	assert.Equal(t, 25, p.projectCount())

	cfg.NumProjects = 0
	cfg.OrgSize = 30_000
	p = newTestPipeline(t, cfg)
	assert.Equal(t, 500, p.projectCount())
}
