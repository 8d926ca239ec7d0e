// Package database owns the SQLite snapshot: opening the file,
// migrating the schema and writing a validated dataset in one
// transaction.
package database

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/hugh/worksim/internal/database/models"
	"github.com/hugh/worksim/internal/sim/generate"
	"github.com/hugh/worksim/pkg/config"
)

const batchSize = 500

// Open creates a fresh SQLite database at the configured path. An
// existing file is removed first so every run starts from an empty
// snapshot.
func Open(cfg *config.DatabaseConfig, logger *slog.Logger) (*gorm.DB, error) {
	if cfg.Path != ":memory:" {
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory: %w", err)
			}
		}
		if err := os.Remove(cfg.Path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("removing previous database: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	logger.Info("database opened", "path", cfg.Path)
	return db, nil
}

// AutoMigrate creates the full schema in foreign-key dependency order.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.Team{},
		&models.TeamMembership{},
		&models.Project{},
		&models.Section{},
		&models.CustomFieldDefinition{},
		&models.Task{},
		&models.Comment{},
		&models.Tag{},
		&models.TaskTag{},
		&models.CustomFieldValue{},
		&models.Attachment{},
	)
}

// WriteSnapshot persists the dataset in a single transaction so a
// failed run leaves no partial snapshot behind. Tables are written in
// dependency order; the task slice already has parents ahead of their
// subtasks.
func WriteSnapshot(db *gorm.DB, ds *generate.Dataset, logger *slog.Logger) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&ds.Organization).Error; err != nil {
			return fmt.Errorf("writing organization: %w", err)
		}
		if err := createBatch(tx, "users", ds.Users); err != nil {
			return err
		}
		if err := createBatch(tx, "teams", ds.Teams); err != nil {
			return err
		}
		if err := createBatch(tx, "team memberships", ds.Memberships); err != nil {
			return err
		}
		if err := createBatch(tx, "projects", ds.Projects); err != nil {
			return err
		}
		if err := createBatch(tx, "sections", ds.Sections); err != nil {
			return err
		}
		if err := createBatch(tx, "custom field definitions", ds.FieldDefs); err != nil {
			return err
		}
		if err := createBatch(tx, "tasks", ds.Tasks); err != nil {
			return err
		}
		if err := createBatch(tx, "comments", ds.Comments); err != nil {
			return err
		}
		if err := createBatch(tx, "tags", ds.Tags); err != nil {
			return err
		}
		if err := createBatch(tx, "task tags", ds.TaskTags); err != nil {
			return err
		}
		if err := createBatch(tx, "custom field values", ds.FieldValues); err != nil {
			return err
		}
		if err := createBatch(tx, "attachments", ds.Attachments); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("snapshot written",
		"users", len(ds.Users),
		"teams", len(ds.Teams),
		"projects", len(ds.Projects),
		"tasks", len(ds.Tasks),
		"comments", len(ds.Comments),
		"attachments", len(ds.Attachments),
	)
	return nil
}

func createBatch[T any](tx *gorm.DB, label string, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	if err := tx.CreateInBatches(rows, batchSize).Error; err != nil {
		return fmt.Errorf("writing %s: %w", label, err)
	}
	return nil
}
