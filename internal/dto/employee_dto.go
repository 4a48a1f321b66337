package dto

import (
	"employee-management/internal/model"

	"github.com/shopspring/decimal"
)

type CreateEmployeeRequest struct {
	EmployeeID  string          `json:"employee_id" binding:"required,min=3,max=50"`
	FirstName   string          `json:"first_name" binding:"required,max=100"`
	LastName    string          `json:"last_name" binding:"required,max=100"`
	Email       string          `json:"email" binding:"required,email"`
	Phone       string          `json:"phone" binding:"required,max=15"`
	DateOfBirth string          `json:"date_of_birth" binding:"required,datetime=2006-01-02"`
	HireDate    string          `json:"hire_date" binding:"required,datetime=2006-01-02"`
	Department  string          `json:"department" binding:"required,max=100"`
	Position    string          `json:"position" binding:"required,max=100"`
	Salary      decimal.Decimal `json:"salary" binding:"required"`
	Status      string          `json:"status" binding:"omitempty,oneof=active inactive terminated resigned"`

	AddressLine1 string  `json:"address_line1" binding:"required,max=200"`
	AddressLine2 *string `json:"address_line2"`
	City         string  `json:"city" binding:"required,max=100"`
	State        string  `json:"state" binding:"required,max=100"`
	PostalCode   string  `json:"postal_code" binding:"required,max=20"`
	Country      string  `json:"country"`

	EmergencyContactName         string `json:"emergency_contact_name" binding:"required,max=200"`
	EmergencyContactPhone        string `json:"emergency_contact_phone" binding:"required,max=15"`
	EmergencyContactRelationship string `json:"emergency_contact_relationship" binding:"required,max=100"`

	CustomFields map[string]any `json:"custom_fields"`
}

// UpdateEmployeeRequest resends the full fixed-attribute set. CustomFields
// semantics differ from create: an empty or absent map means "leave the
// stored custom fields alone", not "clear them".
type UpdateEmployeeRequest struct {
	EmployeeID  string          `json:"employee_id" binding:"required,min=3,max=50"`
	FirstName   string          `json:"first_name" binding:"required,max=100"`
	LastName    string          `json:"last_name" binding:"required,max=100"`
	Email       string          `json:"email" binding:"required,email"`
	Phone       string          `json:"phone" binding:"required,max=15"`
	DateOfBirth string          `json:"date_of_birth" binding:"required,datetime=2006-01-02"`
	HireDate    string          `json:"hire_date" binding:"required,datetime=2006-01-02"`
	Department  string          `json:"department" binding:"required,max=100"`
	Position    string          `json:"position" binding:"required,max=100"`
	Salary      decimal.Decimal `json:"salary" binding:"required"`
	Status      string          `json:"status" binding:"required,oneof=active inactive terminated resigned"`

	AddressLine1 string  `json:"address_line1" binding:"required,max=200"`
	AddressLine2 *string `json:"address_line2"`
	City         string  `json:"city" binding:"required,max=100"`
	State        string  `json:"state" binding:"required,max=100"`
	PostalCode   string  `json:"postal_code" binding:"required,max=20"`
	Country      string  `json:"country"`

	EmergencyContactName         string `json:"emergency_contact_name" binding:"required,max=200"`
	EmergencyContactPhone        string `json:"emergency_contact_phone" binding:"required,max=15"`
	EmergencyContactRelationship string `json:"emergency_contact_relationship" binding:"required,max=100"`

	CustomFields map[string]any `json:"custom_fields"`
}

type EmployeeFilter struct {
	Search           string `form:"search"`
	Department       string `form:"department"`
	Status           string `form:"status" binding:"omitempty,oneof=active inactive terminated resigned"`
	HireDateFrom     string `form:"hire_date_from" binding:"omitempty,datetime=2006-01-02"`
	HireDateTo       string `form:"hire_date_to" binding:"omitempty,datetime=2006-01-02"`
	CustomFieldName  string `form:"custom_field_name"`
	CustomFieldValue string `form:"custom_field_value"`
	Page             int    `form:"page" binding:"omitempty,min=1"`
	Limit            int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// EmployeeResponse wraps the entity with the derived attributes the clients
// expect alongside the stored ones.
type EmployeeResponse struct {
	*model.Employee
	FullName    string `json:"full_name"`
	FullAddress string `json:"full_address"`
}

func NewEmployeeResponse(e *model.Employee) EmployeeResponse {
	return EmployeeResponse{
		Employee:    e,
		FullName:    e.FullName(),
		FullAddress: e.FullAddress(),
	}
}

type PaginatedEmployeeResponse struct {
	Data []EmployeeResponse `json:"data"`
	Meta PaginationMeta     `json:"meta"`
}

type AttachDocumentRequest struct {
	DocumentType string  `form:"document_type" binding:"required"`
	Title        string  `form:"title" binding:"required,max=200"`
	Description  *string `form:"description"`
}

// EmployeeSummary is the shape indexed for quick search.
type EmployeeSummary struct {
	ID         uint   `json:"id"`
	EmployeeID string `json:"employee_id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Position   string `json:"position"`
	Status     string `json:"status"`
}

type DashboardResponse struct {
	TotalEmployees  int64              `json:"total_employees"`
	ActiveEmployees int64              `json:"active_employees"`
	RecentEmployees []EmployeeResponse `json:"recent_employees"`
}
