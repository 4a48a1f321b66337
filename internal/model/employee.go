package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Employment statuses. No transition graph is enforced; any status can move
// to any other.
const (
	StatusActive     = "active"
	StatusInactive   = "inactive"
	StatusTerminated = "terminated"
	StatusResigned   = "resigned"
)

// History actions.
const (
	ActionCreated       = "created"
	ActionUpdated       = "updated"
	ActionDeleted       = "deleted"
	ActionStatusChanged = "status_changed"
)

// Document types.
const (
	DocumentContract    = "contract"
	DocumentIDProof     = "id_proof"
	DocumentResume      = "resume"
	DocumentCertificate = "certificate"
	DocumentOther       = "other"
)

var documentTypes = map[string]bool{
	DocumentContract:    true,
	DocumentIDProof:     true,
	DocumentResume:      true,
	DocumentCertificate: true,
	DocumentOther:       true,
}

func ValidDocumentType(t string) bool {
	return documentTypes[t]
}

// Employee is the canonical registry entity. Custom fields, documents and
// history are owned children and go away with the row.
type Employee struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	EmployeeID  string          `gorm:"size:50;uniqueIndex;not null" json:"employee_id"`
	FirstName   string          `gorm:"size:100;not null" json:"first_name"`
	LastName    string          `gorm:"size:100;not null" json:"last_name"`
	Email       string          `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Phone       string          `gorm:"size:15;not null" json:"phone"`
	DateOfBirth time.Time       `gorm:"type:date;not null" json:"date_of_birth"`
	HireDate    time.Time       `gorm:"type:date;not null" json:"hire_date"`
	Department  string          `gorm:"size:100;not null" json:"department"`
	Position    string          `gorm:"size:100;not null" json:"position"`
	Salary      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"salary"`
	Status      string          `gorm:"size:20;default:active" json:"status"`

	AddressLine1 string  `gorm:"size:200;not null" json:"address_line1"`
	AddressLine2 *string `gorm:"size:200" json:"address_line2,omitempty"`
	City         string  `gorm:"size:100;not null" json:"city"`
	State        string  `gorm:"size:100;not null" json:"state"`
	PostalCode   string  `gorm:"size:20;not null" json:"postal_code"`
	Country      string  `gorm:"size:100;default:'United States'" json:"country"`

	EmergencyContactName         string `gorm:"size:200;not null" json:"emergency_contact_name"`
	EmergencyContactPhone        string `gorm:"size:15;not null" json:"emergency_contact_phone"`
	EmergencyContactRelationship string `gorm:"size:100;not null" json:"emergency_contact_relationship"`

	CreatedByID       uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	CreatedBy         User      `gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE" json:"-"`
	IsActive          bool      `gorm:"default:true" json:"is_active"`
	ProfilePictureURL *string   `gorm:"type:text" json:"profile_picture_url,omitempty"`

	CustomFields []EmployeeCustomField `gorm:"constraint:OnDelete:CASCADE" json:"custom_fields"`
	Documents    []EmployeeDocument    `gorm:"constraint:OnDelete:CASCADE" json:"documents"`
	History      []EmployeeHistory     `gorm:"constraint:OnDelete:CASCADE" json:"history"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// FullAddress joins the non-empty address parts with commas.
func (e *Employee) FullAddress() string {
	parts := []string{e.AddressLine1}
	if e.AddressLine2 != nil && *e.AddressLine2 != "" {
		parts = append(parts, *e.AddressLine2)
	}
	parts = append(parts, e.City, e.State, e.PostalCode, e.Country)
	return strings.Join(parts, ", ")
}

// EmployeeCustomField is a schema-less name/value pair attached to an
// employee. Values are stored as text whatever their original shape, and the
// whole set is replaced wholesale on update.
type EmployeeCustomField struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	EmployeeID uint      `gorm:"not null;uniqueIndex:idx_employee_field_name" json:"employee_id"`
	FieldName  string    `gorm:"size:200;not null;uniqueIndex:idx_employee_field_name" json:"field_name"`
	FieldValue string    `gorm:"type:text;not null" json:"field_value"`
	FieldType  string    `gorm:"size:20;not null" json:"field_type"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// EmployeeDocument is append-only: created on upload, gone only when the
// employee goes. The file bytes live in the blob store; FileURL is the handle.
type EmployeeDocument struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	EmployeeID   uint      `gorm:"index;not null" json:"employee_id"`
	DocumentType string    `gorm:"size:20;not null" json:"document_type"`
	Title        string    `gorm:"size:200;not null" json:"title"`
	FileURL      string    `gorm:"type:text;not null" json:"file_url"`
	Description  *string   `gorm:"type:text" json:"description,omitempty"`
	UploadedByID uuid.UUID `gorm:"type:uuid;not null" json:"uploaded_by"`
	UploadedBy   User      `gorm:"foreignKey:UploadedByID;constraint:OnDelete:CASCADE" json:"-"`
	UploadedAt   time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

// EmployeeHistory is the immutable audit trail. Rows are only ever inserted;
// no update or delete path exists outside the employee cascade.
type EmployeeHistory struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	EmployeeID  uint      `gorm:"index;not null" json:"employee_id"`
	Action      string    `gorm:"size:20;not null" json:"action"`
	ChangedByID uuid.UUID `gorm:"type:uuid;not null" json:"changed_by"`
	ChangedBy   User      `gorm:"foreignKey:ChangedByID;constraint:OnDelete:CASCADE" json:"-"`
	OldValues   JSONMap   `gorm:"type:jsonb" json:"old_values,omitempty"`
	NewValues   JSONMap   `gorm:"type:jsonb" json:"new_values,omitempty"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	ChangedAt   time.Time `gorm:"autoCreateTime" json:"changed_at"`
}

// EmployeeDeletionLog records deletions outside the cascade. It keeps a copy
// of the business key rather than a foreign key, so the entry survives the
// employee row it describes.
type EmployeeDeletionLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	EmployeeID  string    `gorm:"size:50;index;not null" json:"employee_id"`
	FullName    string    `gorm:"size:200;not null" json:"full_name"`
	DeletedByID uuid.UUID `gorm:"type:uuid;not null" json:"deleted_by"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	DeletedAt   time.Time `gorm:"autoCreateTime" json:"deleted_at"`
}
