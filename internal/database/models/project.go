package models

import (
	"time"

	"github.com/google/uuid"
)

// ProjectType drives task-name templates and completion-rate distributions.
type ProjectType string

const (
	ProjectTypeEngineering ProjectType = "engineering"
	ProjectTypeMarketing   ProjectType = "marketing"
	ProjectTypeOperations  ProjectType = "operations"
)

type Project struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	TeamID      uuid.UUID   `gorm:"type:uuid;index;not null" json:"team_id"`
	Name        string      `gorm:"not null" json:"name"`
	Description string      `json:"description"`
	Type        ProjectType `gorm:"column:project_type;not null" json:"project_type"`
	Color       string      `json:"color"`
	Archived    bool        `gorm:"default:false" json:"archived"`
	CreatedAt   time.Time   `json:"created_at"`
	CreatedBy   uuid.UUID   `gorm:"type:uuid;not null" json:"created_by"`
}

func (Project) TableName() string {
	return "projects"
}

type Section struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;index;not null" json:"project_id"`
	Name      string    `gorm:"not null" json:"name"`
	Position  int       `gorm:"not null" json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

func (Section) TableName() string {
	return "sections"
}
