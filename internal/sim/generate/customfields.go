package generate

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hugh/worksim/internal/database/models"
	"github.com/hugh/worksim/internal/sim/sampler"
)

// generateFieldDefs attaches 2-5 custom field definitions to 70% of
// engineering projects and 40% of everything else.
func (p *Pipeline) generateFieldDefs(projects []models.Project) ([]models.CustomFieldDefinition, error) {
	defs := make([]models.CustomFieldDefinition, 0, len(projects)*3)

	for _, project := range projects {
		prob := 0.40
		if project.Type == models.ProjectTypeEngineering {
			prob = 0.70
		}
		if !sampler.Bool(p.rng, prob) {
			continue
		}

		numFields := sampler.IntBetween(p.rng, 2, 5)
		for _, template := range sampler.Subset(p.rng, p.tables.FieldTemplates, numFields) {
			def := models.CustomFieldDefinition{
				ID:        p.newID(),
				ProjectID: project.ID,
				Name:      template.Name,
				Type:      models.FieldType(template.Type),
			}
			if len(template.Options) > 0 {
				raw, err := json.Marshal(template.Options)
				if err != nil {
					return nil, fmt.Errorf("encoding options for field %q: %w", template.Name, err)
				}
				options := string(raw)
				def.Options = &options
			}
			defs = append(defs, def)
		}
	}
	return defs, nil
}

// generateFieldValues fills each task's project-level fields at a 70%
// rate, with the value slot matching the field's declared type.
// Date-typed fields mirror the task's due date and are skipped for
// tasks without one rather than stored as an empty variant.
func (p *Pipeline) generateFieldValues(tasks []models.Task, defs []models.CustomFieldDefinition) []models.CustomFieldValue {
	byProject := make(map[uuid.UUID][]models.CustomFieldDefinition, len(defs))
	options := make(map[uuid.UUID][]string, len(defs))
	for _, def := range defs {
		byProject[def.ProjectID] = append(byProject[def.ProjectID], def)
		if def.Options != nil {
			var opts []string
			if err := json.Unmarshal([]byte(*def.Options), &opts); err == nil {
				options[def.ID] = opts
			}
		}
	}

	values := make([]models.CustomFieldValue, 0, len(tasks))
	for _, task := range tasks {
		for _, def := range byProject[task.ProjectID] {
			if !sampler.Bool(p.rng, 0.70) {
				continue
			}
			value, ok := p.fieldValue(task, def, options[def.ID])
			if !ok {
				continue
			}
			values = append(values, value)
		}
	}
	return values
}

func (p *Pipeline) fieldValue(task models.Task, def models.CustomFieldDefinition, opts []string) (models.CustomFieldValue, bool) {
	value := models.CustomFieldValue{
		ID:      p.newID(),
		TaskID:  task.ID,
		FieldID: def.ID,
	}

	switch def.Type {
	case models.FieldTypeText:
		text := "Sample text value"
		value.TextValue = &text
	case models.FieldTypeNumber:
		n := sampler.Float64Between(p.rng, 1, 1000)
		value.NumberValue = &n
	case models.FieldTypeEnum:
		if len(opts) == 0 {
			return value, false
		}
		choice := opts[p.rng.Intn(len(opts))]
		value.EnumValue = &choice
	case models.FieldTypeDate:
		if task.DueDate == nil {
			return value, false
		}
		due := *task.DueDate
		value.DateValue = &due
	case models.FieldTypeMultiEnum:
		if len(opts) == 0 {
			return value, false
		}
		max := 3
		if len(opts) < max {
			max = len(opts)
		}
		selected := sampler.Subset(p.rng, opts, sampler.IntBetween(p.rng, 1, max))
		raw, err := json.Marshal(selected)
		if err != nil {
			return value, false
		}
		encoded := string(raw)
		value.MultiEnumValues = &encoded
	default:
		return value, false
	}
	return value, true
}
