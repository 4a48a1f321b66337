package model

import (
	"time"

	"github.com/google/uuid"
)

// Field types a form template can render. select and radio additionally
// require a non-empty Options list.
const (
	FieldTypeText     = "text"
	FieldTypeNumber   = "number"
	FieldTypeEmail    = "email"
	FieldTypeDate     = "date"
	FieldTypePassword = "password"
	FieldTypeTextarea = "textarea"
	FieldTypeSelect   = "select"
	FieldTypeCheckbox = "checkbox"
	FieldTypeRadio    = "radio"
	FieldTypeFile     = "file"
)

var fieldTypes = map[string]bool{
	FieldTypeText:     true,
	FieldTypeNumber:   true,
	FieldTypeEmail:    true,
	FieldTypeDate:     true,
	FieldTypePassword: true,
	FieldTypeTextarea: true,
	FieldTypeSelect:   true,
	FieldTypeCheckbox: true,
	FieldTypeRadio:    true,
	FieldTypeFile:     true,
}

func ValidFieldType(t string) bool {
	return fieldTypes[t]
}

// FieldTypeNeedsOptions reports whether a field type is rendered from a
// choice list.
func FieldTypeNeedsOptions(t string) bool {
	return t == FieldTypeSelect || t == FieldTypeRadio
}

// FormTemplate is a named, ordered schema of fields driving dynamic
// data-entry forms.
type FormTemplate struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Name        string      `gorm:"size:200;uniqueIndex;not null" json:"name"`
	Description *string     `gorm:"type:text" json:"description,omitempty"`
	IsActive    bool        `gorm:"default:true" json:"is_active"`
	CreatedByID uuid.UUID   `gorm:"type:uuid;not null" json:"created_by"`
	CreatedBy   User        `gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE" json:"-"`
	Fields      []FormField `gorm:"constraint:OnDelete:CASCADE" json:"fields"`
	CreatedAt   time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

// FormField belongs to exactly one template. Order is the display and
// validation sort key within the template; it need not be contiguous.
type FormField struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	FormTemplateID  uint       `gorm:"index;not null" json:"form_template_id"`
	Label           string     `gorm:"size:200;not null" json:"label"`
	FieldType       string     `gorm:"size:20;not null" json:"field_type"`
	Required        bool       `gorm:"default:false" json:"required"`
	Placeholder     *string    `gorm:"size:200" json:"placeholder,omitempty"`
	Options         StringList `gorm:"type:jsonb" json:"options,omitempty"`
	Order           int        `gorm:"column:sort_order;default:0" json:"order"`
	ValidationRules JSONMap    `gorm:"type:jsonb" json:"validation_rules,omitempty"`
}
