package repository

import (
	"context"

	"employee-management/internal/model"

	"gorm.io/gorm"
)

type DocumentRepository interface {
	Create(ctx context.Context, document *model.EmployeeDocument) error
	FindByEmployee(ctx context.Context, employeeID uint) ([]model.EmployeeDocument, error)
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, document *model.EmployeeDocument) error {
	return r.db.WithContext(ctx).Create(document).Error
}

func (r *documentRepository) FindByEmployee(ctx context.Context, employeeID uint) ([]model.EmployeeDocument, error) {
	var documents []model.EmployeeDocument
	if err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("uploaded_at ASC, id ASC").
		Find(&documents).Error; err != nil {
		return nil, err
	}

	return documents, nil
}
