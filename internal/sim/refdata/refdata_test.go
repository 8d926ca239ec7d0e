package refdata

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tables, err := Load()
	require.NoError(t, err)

	assert.NotEmpty(t, tables.Companies)
	assert.NotEmpty(t, tables.Departments)
	assert.NotEmpty(t, tables.TeamNames)
	assert.Len(t, tables.SectionNames, 4)
	assert.NotEmpty(t, tables.Colors)
	assert.Len(t, tables.ProjectTypes, 3)
	assert.NotEmpty(t, tables.TagNames)
	assert.NotEmpty(t, tables.FieldTemplates)
	assert.NotEmpty(t, tables.FileCategories)
	assert.NotEmpty(t, tables.StorageURLPatterns)
	assert.NotEmpty(t, tables.SubtaskVerbs)
	assert.NotEmpty(t, tables.Comments)
}

func TestProjectTypeLookup(t *testing.T) {
	tables, err := Load()
	require.NoError(t, err)

	eng := tables.ProjectType("engineering")
	assert.Equal(t, "engineering", eng.Name)
	assert.NotEmpty(t, eng.ProjectNames)
	assert.NotEmpty(t, eng.TaskNames)

	// Unknown names fall back to the first type instead of nil.
	fallback := tables.ProjectType("does-not-exist")
	require.NotNil(t, fallback)
	assert.Equal(t, tables.ProjectTypes[0].Name, fallback.Name)
}

func TestFileMixReferencesKnownCategories(t *testing.T) {
	tables, err := Load()
	require.NoError(t, err)

	known := make(map[string]bool, len(tables.FileCategories))
	for _, fc := range tables.FileCategories {
		known[fc.Name] = true
	}

	for _, pt := range tables.ProjectTypes {
		for _, cw := range pt.FileMix {
			assert.True(t, known[cw.Category],
				"project type %q references unknown file category %q", pt.Name, cw.Category)
			assert.Greater(t, cw.Weight, 0.0)
		}
	}
}

func TestFieldTemplatesWellFormed(t *testing.T) {
	tables, err := Load()
	require.NoError(t, err)

	for _, ft := range tables.FieldTemplates {
		switch ft.Type {
		case "enum", "multi_enum":
			assert.NotEmpty(t, ft.Options, "field %q needs options", ft.Name)
		case "text", "number", "date":
			assert.Empty(t, ft.Options, "field %q must not carry options", ft.Name)
		default:
			t.Errorf("field %q has unknown type %q", ft.Name, ft.Type)
		}
	}
}

func TestStorageURLPatternsFormat(t *testing.T) {
	tables, err := Load()
	require.NoError(t, err)

	for _, pattern := range tables.StorageURLPatterns {
		url := fmt.Sprintf(pattern, "some-id", "report.pdf")
		assert.NotContains(t, url, "%!", "pattern %q must take exactly two string verbs", pattern)
		assert.Contains(t, url, "some-id")
		assert.Contains(t, url, "report.pdf")
	}
}

func TestDepartmentWeightsAndRoles(t *testing.T) {
	tables, err := Load()
	require.NoError(t, err)

	for _, d := range tables.Departments {
		assert.Greater(t, d.Weight, 0.0, "department %q", d.Name)
		assert.NotEmpty(t, d.Roles, "department %q", d.Name)
	}
}

func TestEnumOptionsAreJSONEncodable(t *testing.T) {
	tables, err := Load()
	require.NoError(t, err)

	for _, ft := range tables.FieldTemplates {
		if len(ft.Options) == 0 {
			continue
		}
		_, err := json.Marshal(ft.Options)
		assert.NoError(t, err, "field %q", ft.Name)
	}
}
