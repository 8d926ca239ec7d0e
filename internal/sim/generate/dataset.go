package generate

import (
	"github.com/hugh/worksim/internal/database/models"
	"github.com/hugh/worksim/internal/sim/simclock"
)

// Dataset is the fully materialized entity graph for one run. Slices
// are append-only during generation and read-only afterwards; the
// validator and the persistence layer only read.
type Dataset struct {
	Window simclock.Window

	Organization models.Organization
	Teams        []models.Team
	Users        []models.User
	Memberships  []models.TeamMembership
	Projects     []models.Project
	Sections     []models.Section
	FieldDefs    []models.CustomFieldDefinition
	Tasks        []models.Task // top-level tasks followed by subtasks
	Comments     []models.Comment
	Tags         []models.Tag
	TaskTags     []models.TaskTag
	FieldValues  []models.CustomFieldValue
	Attachments  []models.Attachment
}
