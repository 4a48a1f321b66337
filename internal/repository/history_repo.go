package repository

import (
	"context"

	"employee-management/internal/model"

	"gorm.io/gorm"
)

// HistoryRepository reads the audit trail. Writes happen inside the employee
// repository's transactions; nothing here can mutate or remove an entry.
type HistoryRepository interface {
	Append(ctx context.Context, entry *model.EmployeeHistory) error
	ListForEmployee(ctx context.Context, employeeID uint) ([]model.EmployeeHistory, error)
	ListDeletions(ctx context.Context) ([]model.EmployeeDeletionLog, error)
}

type historyRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Append(ctx context.Context, entry *model.EmployeeHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListForEmployee returns entries newest-first. Re-querying reflects current
// state rather than a frozen cursor.
func (r *historyRepository) ListForEmployee(ctx context.Context, employeeID uint) ([]model.EmployeeHistory, error) {
	var entries []model.EmployeeHistory
	if err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("changed_at DESC, id DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *historyRepository) ListDeletions(ctx context.Context) ([]model.EmployeeDeletionLog, error) {
	var entries []model.EmployeeDeletionLog
	if err := r.db.WithContext(ctx).
		Order("deleted_at DESC, id DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}
