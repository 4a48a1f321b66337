package dto

// FormFieldInput describes one field of a template being created or
// replaced. Order falls back to list position when absent.
type FormFieldInput struct {
	Label           string         `json:"label" binding:"required,max=200"`
	FieldType       string         `json:"field_type" binding:"required"`
	Required        bool           `json:"required"`
	Placeholder     *string        `json:"placeholder"`
	Options         []string       `json:"options"`
	Order           *int           `json:"order"`
	ValidationRules map[string]any `json:"validation_rules"`
}

type CreateTemplateRequest struct {
	Name        string           `json:"name" binding:"required,max=200"`
	Description *string          `json:"description"`
	IsActive    *bool            `json:"is_active"`
	Fields      []FormFieldInput `json:"fields" binding:"dive"`
}

// UpdateTemplateRequest carries the full replacement field list; fields
// omitted from it are dropped from the template.
type UpdateTemplateRequest struct {
	Name        *string          `json:"name" binding:"omitempty,max=200"`
	Description *string          `json:"description"`
	IsActive    *bool            `json:"is_active"`
	Fields      []FormFieldInput `json:"fields" binding:"dive"`
}
