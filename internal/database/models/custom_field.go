package models

import (
	"time"

	"github.com/google/uuid"
)

type FieldType string

const (
	FieldTypeText      FieldType = "text"
	FieldTypeNumber    FieldType = "number"
	FieldTypeEnum      FieldType = "enum"
	FieldTypeDate      FieldType = "date"
	FieldTypeMultiEnum FieldType = "multi_enum"
)

// RequiresOptions reports whether a field of this type must declare an
// option set.
func (t FieldType) RequiresOptions() bool {
	return t == FieldTypeEnum || t == FieldTypeMultiEnum
}

type CustomFieldDefinition struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;index;not null" json:"project_id"`
	Name      string    `gorm:"not null" json:"name"`
	Type      FieldType `gorm:"column:field_type;not null" json:"field_type"`
	// Options is a JSON array of option strings, set only for enum and
	// multi_enum fields.
	Options *string `gorm:"column:enum_options" json:"enum_options,omitempty"`
}

func (CustomFieldDefinition) TableName() string {
	return "custom_field_definitions"
}

// CustomFieldValue is a tagged variant: exactly the slot matching the
// definition's declared type is set.
type CustomFieldValue struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	TaskID          uuid.UUID  `gorm:"type:uuid;uniqueIndex:idx_task_field;not null" json:"task_id"`
	FieldID         uuid.UUID  `gorm:"column:custom_field_id;type:uuid;uniqueIndex:idx_task_field;not null" json:"custom_field_id"`
	TextValue       *string    `json:"text_value,omitempty"`
	NumberValue     *float64   `json:"number_value,omitempty"`
	EnumValue       *string    `json:"enum_value,omitempty"`
	DateValue       *time.Time `json:"date_value,omitempty"`
	MultiEnumValues *string    `json:"multi_enum_values,omitempty"` // JSON array of options
}

func (CustomFieldValue) TableName() string {
	return "custom_field_values"
}
