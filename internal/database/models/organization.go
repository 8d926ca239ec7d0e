package models

import (
	"time"

	"github.com/google/uuid"
)

type Organization struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Domain    string    `gorm:"not null" json:"domain"`
	CreatedAt time.Time `json:"created_at"`
}

func (Organization) TableName() string {
	return "organizations"
}

type Team struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID uuid.UUID `gorm:"type:uuid;index;not null" json:"organization_id"`
	Name           string    `gorm:"not null" json:"name"`
	Description    string    `json:"description"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Team) TableName() string {
	return "teams"
}

type TeamMembership struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TeamID   uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_team_user;not null" json:"team_id"`
	UserID   uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_team_user;not null" json:"user_id"`
	Role     string    `gorm:"not null;default:'member'" json:"role"` // member, admin
	JoinedAt time.Time `json:"joined_at"`
}

func (TeamMembership) TableName() string {
	return "team_memberships"
}
