package service

import (
	"context"
	"errors"
	"fmt"

	"employee-management/internal/dto"
	"employee-management/internal/model"
	"employee-management/internal/repository"
	"employee-management/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TemplateService interface {
	CreateTemplate(ctx context.Context, actorID uuid.UUID, input dto.CreateTemplateRequest) (*model.FormTemplate, error)
	GetTemplate(ctx context.Context, id uint) (*model.FormTemplate, error)
	ListTemplates(ctx context.Context, actorID uuid.UUID) ([]model.FormTemplate, error)
	ListActiveTemplates(ctx context.Context) ([]model.FormTemplate, error)
	UpdateTemplate(ctx context.Context, actorID uuid.UUID, id uint, input dto.UpdateTemplateRequest) (*model.FormTemplate, error)
	DeleteTemplate(ctx context.Context, actorID uuid.UUID, id uint) error
}

type templateService struct {
	repo repository.TemplateRepository
}

func NewTemplateService(repo repository.TemplateRepository) TemplateService {
	return &templateService{repo: repo}
}

func (s *templateService) CreateTemplate(ctx context.Context, actorID uuid.UUID, input dto.CreateTemplateRequest) (*model.FormTemplate, error) {
	fields, err := buildFormFields(input.Fields)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByName(ctx, input.Name); err == nil {
		return nil, apperror.NewValidation("name", "a template with this name already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check template name: %w", err)
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	template := &model.FormTemplate{
		Name:        input.Name,
		Description: input.Description,
		IsActive:    isActive,
		CreatedByID: actorID,
		Fields:      fields,
	}

	if err := s.repo.Create(ctx, template); err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}

	return s.GetTemplate(ctx, template.ID)
}

func (s *templateService) GetTemplate(ctx context.Context, id uint) (*model.FormTemplate, error) {
	template, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	return template, nil
}

func (s *templateService) ListTemplates(ctx context.Context, actorID uuid.UUID) ([]model.FormTemplate, error) {
	return s.repo.FindByOwner(ctx, actorID.String())
}

func (s *templateService) ListActiveTemplates(ctx context.Context) ([]model.FormTemplate, error) {
	return s.repo.FindActive(ctx)
}

func (s *templateService) UpdateTemplate(ctx context.Context, actorID uuid.UUID, id uint, input dto.UpdateTemplateRequest) (*model.FormTemplate, error) {
	template, err := s.GetTemplate(ctx, id)
	if err != nil {
		return nil, err
	}

	if template.CreatedByID != actorID {
		return nil, apperror.ErrForbidden
	}

	fields, err := buildFormFields(input.Fields)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != template.Name {
		if _, err := s.repo.FindByName(ctx, *input.Name); err == nil {
			return nil, apperror.NewValidation("name", "a template with this name already exists")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check template name: %w", err)
		}
		template.Name = *input.Name
	}

	if input.Description != nil {
		template.Description = input.Description
	}
	if input.IsActive != nil {
		template.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, template, fields); err != nil {
		return nil, fmt.Errorf("failed to update template: %w", err)
	}

	return s.GetTemplate(ctx, template.ID)
}

func (s *templateService) DeleteTemplate(ctx context.Context, actorID uuid.UUID, id uint) error {
	template, err := s.GetTemplate(ctx, id)
	if err != nil {
		return err
	}

	if template.CreatedByID != actorID {
		return apperror.ErrForbidden
	}

	return s.repo.Delete(ctx, id)
}

// buildFormFields validates field definitions and assigns order by list
// position when not explicitly given.
func buildFormFields(inputs []dto.FormFieldInput) ([]model.FormField, error) {
	fields := make([]model.FormField, 0, len(inputs))
	for i, input := range inputs {
		if !model.ValidFieldType(input.FieldType) {
			return nil, apperror.NewValidation("fields",
				fmt.Sprintf("field %q has unknown type %q", input.Label, input.FieldType))
		}

		if model.FieldTypeNeedsOptions(input.FieldType) && len(input.Options) == 0 {
			return nil, apperror.NewValidation("fields",
				fmt.Sprintf("field %q of type %s requires at least one option", input.Label, input.FieldType))
		}

		order := i
		if input.Order != nil {
			order = *input.Order
		}

		fields = append(fields, model.FormField{
			Label:           input.Label,
			FieldType:       input.FieldType,
			Required:        input.Required,
			Placeholder:     input.Placeholder,
			Options:         input.Options,
			Order:           order,
			ValidationRules: input.ValidationRules,
		})
	}

	return fields, nil
}
