// Package validate runs the post-generation consistency pass: every
// foreign key must resolve inside the run, no child may predate its
// parent, and the uniqueness and structural constraints of the schema
// must hold. Violations block persistence; there is no autocorrection.
package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hugh/worksim/internal/database/models"
	"github.com/hugh/worksim/internal/sim/generate"
)

// Violation identifies one broken invariant on one entity.
type Violation struct {
	Entity    string
	ID        string
	Invariant string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s %s: %s", v.Entity, v.ID, v.Invariant)
}

// Error aggregates every violation found in a run. The run fails as a
// whole; callers report the full list, not just the first.
type Error struct {
	Violations []Violation
}

func (e *Error) Error() string {
	return fmt.Sprintf("consistency check failed: %d violation(s)", len(e.Violations))
}

type checker struct {
	ds         *generate.Dataset
	violations []Violation

	teams    map[uuid.UUID]models.Team
	users    map[uuid.UUID]models.User
	projects map[uuid.UUID]models.Project
	sections map[uuid.UUID]models.Section
	tasks    map[uuid.UUID]models.Task
	tags     map[uuid.UUID]models.Tag
	fields   map[uuid.UUID]models.CustomFieldDefinition

	// team membership index for the role-based invariants
	memberOf map[uuid.UUID]map[uuid.UUID]bool // teamID -> userID
}

// Check validates the full dataset and returns an *Error carrying
// every violation found, or nil when the dataset is consistent.
func Check(ds *generate.Dataset) error {
	c := &checker{ds: ds}
	c.index()

	c.checkTeams()
	c.checkUsers()
	c.checkMemberships()
	c.checkProjects()
	c.checkSections()
	c.checkTasks()
	c.checkComments()
	c.checkFieldDefs()
	c.checkFieldValues()
	c.checkTags()
	c.checkAttachments()

	if len(c.violations) > 0 {
		return &Error{Violations: c.violations}
	}
	return nil
}

func (c *checker) add(entity string, id uuid.UUID, format string, args ...any) {
	c.violations = append(c.violations, Violation{
		Entity:    entity,
		ID:        id.String(),
		Invariant: fmt.Sprintf(format, args...),
	})
}

func (c *checker) index() {
	ds := c.ds
	c.teams = make(map[uuid.UUID]models.Team, len(ds.Teams))
	for _, t := range ds.Teams {
		c.teams[t.ID] = t
	}
	c.users = make(map[uuid.UUID]models.User, len(ds.Users))
	for _, u := range ds.Users {
		c.users[u.ID] = u
	}
	c.projects = make(map[uuid.UUID]models.Project, len(ds.Projects))
	for _, p := range ds.Projects {
		c.projects[p.ID] = p
	}
	c.sections = make(map[uuid.UUID]models.Section, len(ds.Sections))
	for _, s := range ds.Sections {
		c.sections[s.ID] = s
	}
	c.tasks = make(map[uuid.UUID]models.Task, len(ds.Tasks))
	for _, t := range ds.Tasks {
		c.tasks[t.ID] = t
	}
	c.tags = make(map[uuid.UUID]models.Tag, len(ds.Tags))
	for _, t := range ds.Tags {
		c.tags[t.ID] = t
	}
	c.fields = make(map[uuid.UUID]models.CustomFieldDefinition, len(ds.FieldDefs))
	for _, f := range ds.FieldDefs {
		c.fields[f.ID] = f
	}
	c.memberOf = make(map[uuid.UUID]map[uuid.UUID]bool, len(ds.Teams))
	for _, m := range ds.Memberships {
		if c.memberOf[m.TeamID] == nil {
			c.memberOf[m.TeamID] = make(map[uuid.UUID]bool)
		}
		c.memberOf[m.TeamID][m.UserID] = true
	}
}

func (c *checker) checkTeams() {
	org := c.ds.Organization
	for _, t := range c.ds.Teams {
		if t.OrganizationID != org.ID {
			c.add("team", t.ID, "organization_id %s does not resolve", t.OrganizationID)
		}
		if t.CreatedAt.Before(org.CreatedAt) {
			c.add("team", t.ID, "created_at precedes organization created_at")
		}
	}
}

func (c *checker) checkUsers() {
	org := c.ds.Organization
	emails := make(map[string]uuid.UUID, len(c.ds.Users))
	for _, u := range c.ds.Users {
		if u.OrganizationID != org.ID {
			c.add("user", u.ID, "organization_id %s does not resolve", u.OrganizationID)
		}
		if u.CreatedAt.Before(org.CreatedAt) {
			c.add("user", u.ID, "created_at precedes organization created_at")
		}
		if other, dup := emails[u.Email]; dup {
			c.add("user", u.ID, "email %q already used by user %s", u.Email, other)
		}
		emails[u.Email] = u.ID
	}
}

func (c *checker) checkMemberships() {
	seen := make(map[[2]uuid.UUID]bool, len(c.ds.Memberships))
	inTeam := make(map[uuid.UUID]bool, len(c.ds.Users))

	for _, m := range c.ds.Memberships {
		team, ok := c.teams[m.TeamID]
		if !ok {
			c.add("membership", m.ID, "team_id %s does not resolve", m.TeamID)
			continue
		}
		user, ok := c.users[m.UserID]
		if !ok {
			c.add("membership", m.ID, "user_id %s does not resolve", m.UserID)
			continue
		}
		pair := [2]uuid.UUID{m.TeamID, m.UserID}
		if seen[pair] {
			c.add("membership", m.ID, "duplicate (team_id, user_id) pair")
		}
		seen[pair] = true
		inTeam[m.UserID] = true

		if m.JoinedAt.Before(team.CreatedAt) || m.JoinedAt.Before(user.CreatedAt) {
			c.add("membership", m.ID, "joined_at precedes team or user created_at")
		}
	}

	for _, u := range c.ds.Users {
		if !inTeam[u.ID] {
			c.add("user", u.ID, "user belongs to no team")
		}
	}
}

func (c *checker) checkProjects() {
	for _, p := range c.ds.Projects {
		team, ok := c.teams[p.TeamID]
		if !ok {
			c.add("project", p.ID, "team_id %s does not resolve", p.TeamID)
			continue
		}
		if p.CreatedAt.Before(team.CreatedAt) {
			c.add("project", p.ID, "created_at precedes team created_at")
		}
		if _, ok := c.users[p.CreatedBy]; !ok {
			c.add("project", p.ID, "created_by %s does not resolve", p.CreatedBy)
		} else if !c.memberOf[p.TeamID][p.CreatedBy] {
			c.add("project", p.ID, "creator is not a member of the owning team")
		}
	}
}

func (c *checker) checkSections() {
	byProject := make(map[uuid.UUID][]int)
	for _, s := range c.ds.Sections {
		project, ok := c.projects[s.ProjectID]
		if !ok {
			c.add("section", s.ID, "project_id %s does not resolve", s.ProjectID)
			continue
		}
		if s.CreatedAt.Before(project.CreatedAt) {
			c.add("section", s.ID, "created_at precedes project created_at")
		}
		byProject[s.ProjectID] = append(byProject[s.ProjectID], s.Position)
	}

	// Positions must be unique and contiguous from zero within each
	// project.
	for _, p := range c.ds.Projects {
		positions := byProject[p.ID]
		seen := make(map[int]bool, len(positions))
		for _, pos := range positions {
			if seen[pos] {
				c.add("project", p.ID, "duplicate section position %d", pos)
			}
			seen[pos] = true
			if pos < 0 || pos >= len(positions) {
				c.add("project", p.ID, "section position %d breaks contiguity over %d sections", pos, len(positions))
			}
		}
	}
}

func (c *checker) checkTasks() {
	end := c.ds.Window.End
	for _, t := range c.ds.Tasks {
		project, ok := c.projects[t.ProjectID]
		if !ok {
			c.add("task", t.ID, "project_id %s does not resolve", t.ProjectID)
			continue
		}
		if t.CreatedAt.Before(project.CreatedAt) {
			c.add("task", t.ID, "created_at precedes project created_at")
		}
		if t.CreatedAt.After(end) {
			c.add("task", t.ID, "created_at exceeds window end")
		}

		if t.SectionID != nil {
			section, ok := c.sections[*t.SectionID]
			if !ok {
				c.add("task", t.ID, "section_id %s does not resolve", *t.SectionID)
			} else if section.ProjectID != t.ProjectID {
				c.add("task", t.ID, "section belongs to a different project")
			}
		}

		if t.ParentTaskID != nil {
			if *t.ParentTaskID == t.ID {
				c.add("task", t.ID, "task is its own parent")
			} else if parent, ok := c.tasks[*t.ParentTaskID]; !ok {
				c.add("task", t.ID, "parent_task_id %s does not resolve", *t.ParentTaskID)
			} else {
				if parent.ProjectID != t.ProjectID {
					c.add("task", t.ID, "subtask belongs to a different project than its parent")
				}
				if t.CreatedAt.Before(parent.CreatedAt) {
					c.add("task", t.ID, "created_at precedes parent task created_at")
				}
			}
		}

		if t.AssigneeID != nil {
			if _, ok := c.users[*t.AssigneeID]; !ok {
				c.add("task", t.ID, "assignee_id %s does not resolve", *t.AssigneeID)
			} else if !c.memberOf[project.TeamID][*t.AssigneeID] {
				c.add("task", t.ID, "assignee is not a member of the project's team")
			}
		}
		if _, ok := c.users[t.CreatedBy]; !ok {
			c.add("task", t.ID, "created_by %s does not resolve", t.CreatedBy)
		}

		if t.Completed != (t.CompletedAt != nil) {
			c.add("task", t.ID, "completed_at presence does not match completed flag")
		}
		if t.CompletedAt != nil && t.CompletedAt.Before(t.CreatedAt) {
			c.add("task", t.ID, "completed_at precedes created_at")
		}
		if t.DueDate != nil && t.DueDate.After(end) {
			c.add("task", t.ID, "due_date exceeds window end")
		}
	}
}

func (c *checker) checkComments() {
	for _, cm := range c.ds.Comments {
		task, ok := c.tasks[cm.TaskID]
		if !ok {
			c.add("comment", cm.ID, "task_id %s does not resolve", cm.TaskID)
			continue
		}
		if _, ok := c.users[cm.UserID]; !ok {
			c.add("comment", cm.ID, "user_id %s does not resolve", cm.UserID)
		}
		if cm.CreatedAt.Before(task.CreatedAt) {
			c.add("comment", cm.ID, "created_at precedes task created_at")
		}
	}
}

func (c *checker) checkFieldDefs() {
	for _, f := range c.ds.FieldDefs {
		if _, ok := c.projects[f.ProjectID]; !ok {
			c.add("custom_field", f.ID, "project_id %s does not resolve", f.ProjectID)
		}
		hasOptions := f.Options != nil && strings.TrimSpace(*f.Options) != ""
		if f.Type.RequiresOptions() != hasOptions {
			c.add("custom_field", f.ID, "options presence does not match field type %q", f.Type)
		}
	}
}

func (c *checker) checkFieldValues() {
	seen := make(map[[2]uuid.UUID]bool, len(c.ds.FieldValues))
	for _, v := range c.ds.FieldValues {
		if _, ok := c.tasks[v.TaskID]; !ok {
			c.add("field_value", v.ID, "task_id %s does not resolve", v.TaskID)
			continue
		}
		def, ok := c.fields[v.FieldID]
		if !ok {
			c.add("field_value", v.ID, "custom_field_id %s does not resolve", v.FieldID)
			continue
		}

		pair := [2]uuid.UUID{v.TaskID, v.FieldID}
		if seen[pair] {
			c.add("field_value", v.ID, "duplicate (task_id, custom_field_id) pair")
		}
		seen[pair] = true

		c.checkValueShape(v, def)
	}
}

// checkValueShape asserts the tagged variant carries exactly the slot
// its definition declares, and that enum values stay within the
// definition's option set.
func (c *checker) checkValueShape(v models.CustomFieldValue, def models.CustomFieldDefinition) {
	slots := 0
	if v.TextValue != nil {
		slots++
	}
	if v.NumberValue != nil {
		slots++
	}
	if v.EnumValue != nil {
		slots++
	}
	if v.DateValue != nil {
		slots++
	}
	if v.MultiEnumValues != nil {
		slots++
	}
	if slots != 1 {
		c.add("field_value", v.ID, "expected exactly one value slot, found %d", slots)
		return
	}

	var options map[string]bool
	if def.Options != nil {
		var opts []string
		if err := json.Unmarshal([]byte(*def.Options), &opts); err == nil {
			options = make(map[string]bool, len(opts))
			for _, o := range opts {
				options[o] = true
			}
		}
	}

	switch def.Type {
	case models.FieldTypeText:
		if v.TextValue == nil {
			c.add("field_value", v.ID, "text field carries a non-text slot")
		}
	case models.FieldTypeNumber:
		if v.NumberValue == nil {
			c.add("field_value", v.ID, "number field carries a non-number slot")
		}
	case models.FieldTypeDate:
		if v.DateValue == nil {
			c.add("field_value", v.ID, "date field carries a non-date slot")
		}
	case models.FieldTypeEnum:
		if v.EnumValue == nil {
			c.add("field_value", v.ID, "enum field carries a non-enum slot")
		} else if !options[*v.EnumValue] {
			c.add("field_value", v.ID, "enum value %q is not in the option set", *v.EnumValue)
		}
	case models.FieldTypeMultiEnum:
		if v.MultiEnumValues == nil {
			c.add("field_value", v.ID, "multi_enum field carries a non-multi-enum slot")
			return
		}
		var selected []string
		if err := json.Unmarshal([]byte(*v.MultiEnumValues), &selected); err != nil {
			c.add("field_value", v.ID, "multi_enum values are not a JSON array")
			return
		}
		for _, s := range selected {
			if !options[s] {
				c.add("field_value", v.ID, "multi_enum value %q is not in the option set", s)
			}
		}
	default:
		c.add("field_value", v.ID, "unknown field type %q", def.Type)
	}
}

func (c *checker) checkTags() {
	org := c.ds.Organization
	for _, t := range c.ds.Tags {
		if t.OrganizationID != org.ID {
			c.add("tag", t.ID, "organization_id %s does not resolve", t.OrganizationID)
		}
	}

	seen := make(map[[2]uuid.UUID]bool, len(c.ds.TaskTags))
	for _, tt := range c.ds.TaskTags {
		if _, ok := c.tasks[tt.TaskID]; !ok {
			c.add("task_tag", tt.TaskID, "task_id does not resolve")
		}
		if _, ok := c.tags[tt.TagID]; !ok {
			c.add("task_tag", tt.TagID, "tag_id does not resolve")
		}
		pair := [2]uuid.UUID{tt.TaskID, tt.TagID}
		if seen[pair] {
			c.add("task_tag", tt.TaskID, "duplicate (task_id, tag_id) pair")
		}
		seen[pair] = true
	}
}

func (c *checker) checkAttachments() {
	for _, a := range c.ds.Attachments {
		task, ok := c.tasks[a.TaskID]
		if !ok {
			c.add("attachment", a.ID, "task_id %s does not resolve", a.TaskID)
			continue
		}
		if _, ok := c.users[a.UploadedBy]; !ok {
			c.add("attachment", a.ID, "uploaded_by %s does not resolve", a.UploadedBy)
		}
		if a.UploadedAt.Before(task.CreatedAt) {
			c.add("attachment", a.ID, "uploaded_at precedes task created_at")
		}
	}
}
