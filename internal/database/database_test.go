package database_test

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugh/worksim/internal/database"
	"github.com/hugh/worksim/internal/database/models"
	"github.com/hugh/worksim/internal/sim/content"
	"github.com/hugh/worksim/internal/sim/generate"
	"github.com/hugh/worksim/internal/sim/refdata"
	"github.com/hugh/worksim/internal/sim/simclock"
	"github.com/hugh/worksim/internal/testutil"
	"github.com/hugh/worksim/pkg/config"
)

func buildDataset(t *testing.T) *generate.Dataset {
	t.Helper()

	cfg := config.SimulationConfig{
		OrgSize:         40,
		NumTeams:        3,
		NumProjects:     5,
		TasksPerProject: 6,
		SubtaskRatio:    0.20,
		Seed:            42,
		StartDate:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	tables, err := refdata.Load()
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(cfg.Seed))
	clock, err := simclock.New(rng, simclock.Window{Start: cfg.StartDate, End: cfg.EndDate}, nil)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	provider := content.NewTemplateProvider(rng, tables)

	ds, err := generate.NewPipeline(logger, cfg, rng, clock, provider, tables).Run(context.Background())
	require.NoError(t, err)
	return ds
}

func TestOpenCreatesDirectoryAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.sqlite")
	logger := testutil.NewTestLogger()

	db, err := database.Open(&config.DatabaseConfig{Path: path}, logger)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
}

func TestOpenReplacesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.sqlite")
	logger := testutil.NewTestLogger()

	for i := 0; i < 2; i++ {
		db, err := database.Open(&config.DatabaseConfig{Path: path}, logger)
		require.NoError(t, err)
		require.NoError(t, database.AutoMigrate(db))
		sqlDB, err := db.DB()
		require.NoError(t, err)
		require.NoError(t, sqlDB.Close())
	}
}

func TestWriteSnapshotRoundTrip(t *testing.T) {
	ds := buildDataset(t)
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	require.NoError(t, database.WriteSnapshot(db, ds, testutil.NewTestLogger()))

	counts := []struct {
		model any
		want  int
	}{
		{&models.Organization{}, 1},
		{&models.User{}, len(ds.Users)},
		{&models.Team{}, len(ds.Teams)},
		{&models.TeamMembership{}, len(ds.Memberships)},
		{&models.Project{}, len(ds.Projects)},
		{&models.Section{}, len(ds.Sections)},
		{&models.CustomFieldDefinition{}, len(ds.FieldDefs)},
		{&models.Task{}, len(ds.Tasks)},
		{&models.Comment{}, len(ds.Comments)},
		{&models.Tag{}, len(ds.Tags)},
		{&models.TaskTag{}, len(ds.TaskTags)},
		{&models.CustomFieldValue{}, len(ds.FieldValues)},
		{&models.Attachment{}, len(ds.Attachments)},
	}

	for _, c := range counts {
		var got int64
		require.NoError(t, db.Model(c.model).Count(&got).Error)
		assert.Equal(t, int64(c.want), got, "%T", c.model)
	}
}

func TestWriteSnapshotPreservesFields(t *testing.T) {
	ds := buildDataset(t)
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	require.NoError(t, database.WriteSnapshot(db, ds, testutil.NewTestLogger()))

	var org models.Organization
	require.NoError(t, db.First(&org).Error)
	assert.Equal(t, ds.Organization.ID, org.ID)
	assert.Equal(t, ds.Organization.Name, org.Name)
	assert.Equal(t, ds.Organization.Domain, org.Domain)

	var user models.User
	require.NoError(t, db.Where("id = ?", ds.Users[0].ID).First(&user).Error)
	assert.Equal(t, ds.Users[0].Email, user.Email)
	assert.Equal(t, ds.Users[0].Department, user.Department)

	var task models.Task
	require.NoError(t, db.Where("id = ?", ds.Tasks[0].ID).First(&task).Error)
	assert.Equal(t, ds.Tasks[0].Name, task.Name)
	assert.Equal(t, ds.Tasks[0].Completed, task.Completed)
	assert.Equal(t, ds.Tasks[0].Priority, task.Priority)
}

func TestWriteSnapshotRejectsDuplicateEmails(t *testing.T) {
	ds := buildDataset(t)
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	users := append([]models.User(nil), ds.Users...)
	users[1].Email = users[0].Email
	ds.Users = users

	// The unique index backs up the validator at the storage layer.
	assert.Error(t, database.WriteSnapshot(db, ds, testutil.NewTestLogger()))
}
