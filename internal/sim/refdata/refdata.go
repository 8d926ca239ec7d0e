// Package refdata holds the static lookup tables the generators draw
// from: name pools, project-type templates, custom-field templates and
// attachment file types. The tables ship embedded in the binary and
// are read-only after Load.
package refdata

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed tables.yaml
var tablesYAML []byte

type Company struct {
	Name   string `yaml:"name"`
	Domain string `yaml:"domain"`
}

type Department struct {
	Name   string   `yaml:"name"`
	Weight float64  `yaml:"weight"`
	Roles  []string `yaml:"roles"`
}

type CategoryWeight struct {
	Category string  `yaml:"category"`
	Weight   float64 `yaml:"weight"`
}

type ProjectType struct {
	Name                string           `yaml:"name"`
	Weight              float64          `yaml:"weight"`
	ProjectNames        []string         `yaml:"project_names"`
	TaskNames           []string         `yaml:"task_names"`
	DescriptionSuffixes []string         `yaml:"description_suffixes"`
	FileMix             []CategoryWeight `yaml:"file_mix"`
}

type FieldTemplate struct {
	Name    string   `yaml:"name"`
	Type    string   `yaml:"type"`
	Options []string `yaml:"options"`
}

type FileSpec struct {
	Name    string `yaml:"name"`
	Mime    string `yaml:"mime"`
	MinSize int64  `yaml:"min_size"`
	MaxSize int64  `yaml:"max_size"`
}

type FileCategory struct {
	Name  string     `yaml:"name"`
	Files []FileSpec `yaml:"files"`
}

type Tables struct {
	Companies                   []Company       `yaml:"companies"`
	Departments                 []Department    `yaml:"departments"`
	TeamNames                   []string        `yaml:"team_names"`
	SectionNames                []string        `yaml:"section_names"`
	Colors                      []string        `yaml:"colors"`
	ProjectTypes                []ProjectType   `yaml:"project_types"`
	ProjectDescriptionTemplates []string        `yaml:"project_description_templates"`
	TagNames                    []string        `yaml:"tag_names"`
	FieldTemplates              []FieldTemplate `yaml:"field_templates"`
	FileCategories              []FileCategory  `yaml:"file_categories"`
	StorageURLPatterns          []string        `yaml:"storage_url_patterns"`
	SubtaskVerbs                []string        `yaml:"subtask_verbs"`
	Comments                    []string        `yaml:"comments"`
}

// ProjectType returns the named type's tables, falling back to the
// first configured type for unknown names.
func (t *Tables) ProjectType(name string) *ProjectType {
	for i := range t.ProjectTypes {
		if t.ProjectTypes[i].Name == name {
			return &t.ProjectTypes[i]
		}
	}
	return &t.ProjectTypes[0]
}

// FileCategory returns the named category's file specs.
func (t *Tables) FileCategory(name string) *FileCategory {
	for i := range t.FileCategories {
		if t.FileCategories[i].Name == name {
			return &t.FileCategories[i]
		}
	}
	return &t.FileCategories[0]
}

// Load parses the embedded tables.
func Load() (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(tablesYAML, &t); err != nil {
		return nil, fmt.Errorf("parsing reference tables: %w", err)
	}
	if err := t.validate(); err != nil {
		return nil, fmt.Errorf("reference tables: %w", err)
	}
	return &t, nil
}

func (t *Tables) validate() error {
	switch {
	case len(t.Companies) == 0:
		return fmt.Errorf("no companies")
	case len(t.Departments) == 0:
		return fmt.Errorf("no departments")
	case len(t.TeamNames) == 0:
		return fmt.Errorf("no team names")
	case len(t.SectionNames) == 0:
		return fmt.Errorf("no section names")
	case len(t.Colors) == 0:
		return fmt.Errorf("no colors")
	case len(t.ProjectTypes) == 0:
		return fmt.Errorf("no project types")
	case len(t.ProjectDescriptionTemplates) == 0:
		return fmt.Errorf("no project description templates")
	case len(t.TagNames) == 0:
		return fmt.Errorf("no tag names")
	case len(t.FieldTemplates) == 0:
		return fmt.Errorf("no field templates")
	case len(t.FileCategories) == 0:
		return fmt.Errorf("no file categories")
	case len(t.StorageURLPatterns) == 0:
		return fmt.Errorf("no storage url patterns")
	case len(t.SubtaskVerbs) == 0:
		return fmt.Errorf("no subtask verbs")
	case len(t.Comments) == 0:
		return fmt.Errorf("no comment templates")
	}
	for _, d := range t.Departments {
		if len(d.Roles) == 0 {
			return fmt.Errorf("department %q has no roles", d.Name)
		}
	}
	for _, pt := range t.ProjectTypes {
		if len(pt.ProjectNames) == 0 || len(pt.TaskNames) == 0 {
			return fmt.Errorf("project type %q is missing name pools", pt.Name)
		}
	}
	for _, fc := range t.FileCategories {
		if len(fc.Files) == 0 {
			return fmt.Errorf("file category %q has no files", fc.Name)
		}
	}
	return nil
}
