package models

import "github.com/google/uuid"

type Tag struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID uuid.UUID `gorm:"type:uuid;index;not null" json:"organization_id"`
	Name           string    `gorm:"not null" json:"name"`
	Color          string    `json:"color"`
}

func (Tag) TableName() string {
	return "tags"
}

type TaskTag struct {
	TaskID uuid.UUID `gorm:"type:uuid;primaryKey" json:"task_id"`
	TagID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"tag_id"`
}

func (TaskTag) TableName() string {
	return "task_tags"
}
