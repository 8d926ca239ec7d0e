package models

import (
	"time"

	"github.com/google/uuid"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

type Task struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID    uuid.UUID  `gorm:"type:uuid;index;not null" json:"project_id"`
	SectionID    *uuid.UUID `gorm:"type:uuid;index" json:"section_id,omitempty"`
	ParentTaskID *uuid.UUID `gorm:"type:uuid;index" json:"parent_task_id,omitempty"`
	Name         string     `gorm:"not null" json:"name"`
	Description  string     `json:"description"`
	AssigneeID   *uuid.UUID `gorm:"type:uuid;index" json:"assignee_id,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	Completed    bool       `gorm:"default:false" json:"completed"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CreatedBy    uuid.UUID  `gorm:"type:uuid;not null" json:"created_by"`
	Priority     Priority   `gorm:"not null;default:'normal'" json:"priority"`
}

func (Task) TableName() string {
	return "tasks"
}

type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TaskID    uuid.UUID `gorm:"type:uuid;index;not null" json:"task_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	Text      string    `gorm:"not null" json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

func (Comment) TableName() string {
	return "comments"
}

type Attachment struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TaskID     uuid.UUID `gorm:"type:uuid;index;not null" json:"task_id"`
	Name       string    `gorm:"not null" json:"name"`
	FileType   string    `gorm:"column:file_type" json:"file_type"`
	FileSize   int64     `gorm:"column:file_size" json:"file_size"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploaded_at"`
	UploadedBy uuid.UUID `gorm:"type:uuid;not null" json:"uploaded_by"`
}

func (Attachment) TableName() string {
	return "attachments"
}
