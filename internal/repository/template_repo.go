package repository

import (
	"context"

	"employee-management/internal/model"

	"gorm.io/gorm"
)

type TemplateRepository interface {
	Create(ctx context.Context, template *model.FormTemplate) error
	FindByID(ctx context.Context, id uint) (*model.FormTemplate, error)
	FindByName(ctx context.Context, name string) (*model.FormTemplate, error)
	FindByOwner(ctx context.Context, ownerID string) ([]model.FormTemplate, error)
	FindActive(ctx context.Context) ([]model.FormTemplate, error)
	Update(ctx context.Context, template *model.FormTemplate, fields []model.FormField) error
	Delete(ctx context.Context, id uint) error
}

type templateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

// Create persists the template together with its ordered field list in one
// transaction.
func (r *templateRepository) Create(ctx context.Context, template *model.FormTemplate) error {
	return r.db.WithContext(ctx).Create(template).Error
}

func (r *templateRepository) FindByID(ctx context.Context, id uint) (*model.FormTemplate, error) {
	var template model.FormTemplate
	if err := r.db.WithContext(ctx).
		Preload("Fields", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		First(&template, id).Error; err != nil {
		return nil, err
	}

	return &template, nil
}

func (r *templateRepository) FindByName(ctx context.Context, name string) (*model.FormTemplate, error) {
	var template model.FormTemplate
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&template).Error; err != nil {
		return nil, err
	}

	return &template, nil
}

func (r *templateRepository) FindByOwner(ctx context.Context, ownerID string) ([]model.FormTemplate, error) {
	var templates []model.FormTemplate
	if err := r.db.WithContext(ctx).
		Preload("Fields", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Where("created_by_id = ?", ownerID).
		Order("created_at DESC").
		Find(&templates).Error; err != nil {
		return nil, err
	}

	return templates, nil
}

func (r *templateRepository) FindActive(ctx context.Context) ([]model.FormTemplate, error) {
	var templates []model.FormTemplate
	if err := r.db.WithContext(ctx).
		Preload("Fields", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&templates).Error; err != nil {
		return nil, err
	}

	return templates, nil
}

// Update saves the template row and wholesale-replaces its field set: the
// old fields are discarded and the new list installed atomically. Fields
// omitted from the new list are gone for good; custom-field rows submitted
// against them remain, orphaned from schema.
func (r *templateRepository) Update(ctx context.Context, template *model.FormTemplate, fields []model.FormField) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Fields").Save(template).Error; err != nil {
			return err
		}

		if err := tx.Where("form_template_id = ?", template.ID).
			Delete(&model.FormField{}).Error; err != nil {
			return err
		}

		for i := range fields {
			fields[i].ID = 0
			fields[i].FormTemplateID = template.ID
			if err := tx.Create(&fields[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// Delete removes the template and cascades to its fields.
func (r *templateRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("form_template_id = ?", id).
			Delete(&model.FormField{}).Error; err != nil {
			return err
		}

		return tx.Delete(&model.FormTemplate{}, id).Error
	})
}
