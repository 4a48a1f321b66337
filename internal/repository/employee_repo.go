package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"employee-management/internal/dto"
	"employee-management/internal/model"

	"gorm.io/gorm"
)

type EmployeeRepository interface {
	// Create writes the employee row, its custom-field set and the initial
	// history entry as one transaction.
	Create(ctx context.Context, employee *model.Employee, customFields map[string]any, entry *model.EmployeeHistory) error
	FindByID(ctx context.Context, id uint) (*model.Employee, error)
	ExistsByEmployeeID(ctx context.Context, employeeID string, excludeID uint) (bool, error)
	ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error)
	// Update saves the row, replaces custom fields when the map is non-empty
	// and appends the history entry, all in one transaction.
	Update(ctx context.Context, employee *model.Employee, customFields map[string]any, entry *model.EmployeeHistory) error
	// Delete appends the final history entry, writes the deletion-ledger row
	// and removes the employee with all owned children.
	Delete(ctx context.Context, employee *model.Employee, entry *model.EmployeeHistory, ledger *model.EmployeeDeletionLog) error
	Search(ctx context.Context, filter dto.EmployeeFilter) ([]model.Employee, int64, error)
	FindRecent(ctx context.Context, limit int) ([]model.Employee, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
}

type employeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, employee *model.Employee, customFields map[string]any, entry *model.EmployeeHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("CustomFields", "Documents", "History").Create(employee).Error; err != nil {
			return err
		}

		if err := replaceCustomFields(tx, employee.ID, customFields); err != nil {
			return err
		}

		if entry != nil {
			entry.EmployeeID = employee.ID
			if err := tx.Create(entry).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *employeeRepository) FindByID(ctx context.Context, id uint) (*model.Employee, error) {
	var employee model.Employee
	if err := r.db.WithContext(ctx).
		Preload("CustomFields").
		Preload("Documents", func(db *gorm.DB) *gorm.DB {
			return db.Order("uploaded_at ASC, id ASC")
		}).
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("changed_at DESC, id DESC")
		}).
		First(&employee, id).Error; err != nil {
		return nil, err
	}

	return &employee, nil
}

func (r *employeeRepository) ExistsByEmployeeID(ctx context.Context, employeeID string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&model.Employee{}).Where("employee_id = ?", employeeID)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *employeeRepository) ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&model.Employee{}).Where("email = ?", email)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *employeeRepository) Update(ctx context.Context, employee *model.Employee, customFields map[string]any, entry *model.EmployeeHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("CustomFields", "Documents", "History").Save(employee).Error; err != nil {
			return err
		}

		// An empty map means "no change", unlike on create. Callers that
		// want a wipe must go through create semantics; this asymmetry is
		// load-bearing for existing clients.
		if len(customFields) > 0 {
			if err := replaceCustomFields(tx, employee.ID, customFields); err != nil {
				return err
			}
		}

		if entry != nil {
			entry.EmployeeID = employee.ID
			if err := tx.Create(entry).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *employeeRepository) Delete(ctx context.Context, employee *model.Employee, entry *model.EmployeeHistory, ledger *model.EmployeeDeletionLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The 'deleted' history entry is written first and then swept away
		// by the cascade below, exactly as the legacy system behaved. The
		// ledger row is the one that survives.
		if entry != nil {
			entry.EmployeeID = employee.ID
			if err := tx.Create(entry).Error; err != nil {
				return err
			}
		}

		if ledger != nil {
			if err := tx.Create(ledger).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("employee_id = ?", employee.ID).Delete(&model.EmployeeCustomField{}).Error; err != nil {
			return err
		}
		if err := tx.Where("employee_id = ?", employee.ID).Delete(&model.EmployeeDocument{}).Error; err != nil {
			return err
		}
		if err := tx.Where("employee_id = ?", employee.ID).Delete(&model.EmployeeHistory{}).Error; err != nil {
			return err
		}

		return tx.Delete(&model.Employee{}, employee.ID).Error
	})
}

func (r *employeeRepository) Search(ctx context.Context, filter dto.EmployeeFilter) ([]model.Employee, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Employee{})

	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(employee_id) LIKE ? OR LOWER(email) LIKE ? OR LOWER(department) LIKE ?",
			like, like, like, like, like,
		)
	}

	if filter.Department != "" {
		q = q.Where("department = ?", filter.Department)
	}

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	if filter.HireDateFrom != "" {
		q = q.Where("hire_date >= ?", filter.HireDateFrom)
	}

	if filter.HireDateTo != "" {
		q = q.Where("hire_date <= ?", filter.HireDateTo)
	}

	if filter.CustomFieldName != "" && filter.CustomFieldValue != "" {
		// (employee, field_name) is unique, so the join cannot duplicate rows.
		like := "%" + strings.ToLower(filter.CustomFieldValue) + "%"
		q = q.Joins("JOIN employee_custom_fields cf ON cf.employee_id = employees.id").
			Where("cf.field_name = ? AND LOWER(cf.field_value) LIKE ?", filter.CustomFieldName, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	var employees []model.Employee
	if err := q.
		Preload("CustomFields").
		Preload("Documents", func(db *gorm.DB) *gorm.DB {
			return db.Order("uploaded_at ASC, id ASC")
		}).
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("changed_at DESC, id DESC")
		}).
		Order("employees.created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&employees).Error; err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

func (r *employeeRepository) FindRecent(ctx context.Context, limit int) ([]model.Employee, error) {
	var employees []model.Employee
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&employees).Error; err != nil {
		return nil, err
	}

	return employees, nil
}

func (r *employeeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Employee{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *employeeRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Employee{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// replaceCustomFields wipes and rewrites the full custom-field set of an
// employee inside the caller's transaction. Every value is coerced to its
// text form and tagged "text"; the originating form field's type is not
// carried over.
func replaceCustomFields(tx *gorm.DB, employeeID uint, customFields map[string]any) error {
	if err := tx.Where("employee_id = ?", employeeID).
		Delete(&model.EmployeeCustomField{}).Error; err != nil {
		return err
	}

	names := make([]string, 0, len(customFields))
	for name := range customFields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		field := model.EmployeeCustomField{
			EmployeeID: employeeID,
			FieldName:  name,
			FieldValue: fmt.Sprint(customFields[name]),
			FieldType:  model.FieldTypeText,
		}
		if err := tx.Create(&field).Error; err != nil {
			return err
		}
	}

	return nil
}
