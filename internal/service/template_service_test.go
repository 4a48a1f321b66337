package service

import (
	"context"
	"testing"

	"employee-management/internal/dto"
	"employee-management/internal/model"
	"employee-management/internal/repository"
	"employee-management/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTemplateService(t *testing.T) (TemplateService, *gorm.DB, *model.User) {
	t.Helper()

	db := openTestDB(t)
	actor := seedActor(t, db, "form_builder")

	svc := NewTemplateService(repository.NewTemplateRepository(db))
	return svc, db, actor
}

func intPtr(i int) *int { return &i }

func TestTemplateCreateAssignsOrderByPosition(t *testing.T) {
	svc, _, actor := newTemplateService(t)

	template, err := svc.CreateTemplate(context.Background(), actor.ID, dto.CreateTemplateRequest{
		Name: "Onboarding",
		Fields: []dto.FormFieldInput{
			{Label: "Full Name", FieldType: model.FieldTypeText},
			{Label: "Start Date", FieldType: model.FieldTypeDate},
		},
	})
	require.NoError(t, err)

	assert.True(t, template.IsActive, "templates default to active")
	assert.Equal(t, actor.ID, template.CreatedByID)
	require.Len(t, template.Fields, 2)
	assert.Equal(t, "Full Name", template.Fields[0].Label)
	assert.Equal(t, 0, template.Fields[0].Order)
	assert.Equal(t, 1, template.Fields[1].Order)
}

func TestTemplateCreateHonorsExplicitOrder(t *testing.T) {
	svc, _, actor := newTemplateService(t)

	template, err := svc.CreateTemplate(context.Background(), actor.ID, dto.CreateTemplateRequest{
		Name: "Exit Interview",
		Fields: []dto.FormFieldInput{
			{Label: "Feedback", FieldType: model.FieldTypeTextarea, Order: intPtr(5)},
			{Label: "Last Day", FieldType: model.FieldTypeDate, Order: intPtr(1)},
		},
	})
	require.NoError(t, err)

	require.Len(t, template.Fields, 2)
	assert.Equal(t, "Last Day", template.Fields[0].Label, "fields come back sorted by order")
	assert.Equal(t, "Feedback", template.Fields[1].Label)
}

func TestTemplateCreateRejectsDuplicateName(t *testing.T) {
	svc, _, actor := newTemplateService(t)
	ctx := context.Background()

	_, err := svc.CreateTemplate(ctx, actor.ID, dto.CreateTemplateRequest{Name: "Onboarding"})
	require.NoError(t, err)

	_, err = svc.CreateTemplate(ctx, actor.ID, dto.CreateTemplateRequest{Name: "Onboarding"})
	ve, ok := apperror.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "name")
}

func TestTemplateCreateRejectsBadFields(t *testing.T) {
	svc, _, actor := newTemplateService(t)
	ctx := context.Background()

	_, err := svc.CreateTemplate(ctx, actor.ID, dto.CreateTemplateRequest{
		Name: "Broken",
		Fields: []dto.FormFieldInput{
			{Label: "Department", FieldType: "dropdown"},
		},
	})
	_, ok := apperror.AsValidation(err)
	assert.True(t, ok, "unknown field types are rejected")

	_, err = svc.CreateTemplate(ctx, actor.ID, dto.CreateTemplateRequest{
		Name: "Also Broken",
		Fields: []dto.FormFieldInput{
			{Label: "Department", FieldType: model.FieldTypeSelect},
		},
	})
	_, ok = apperror.AsValidation(err)
	assert.True(t, ok, "select fields require options")
}

func TestTemplateUpdateReplacesFieldList(t *testing.T) {
	svc, _, actor := newTemplateService(t)
	ctx := context.Background()

	template, err := svc.CreateTemplate(ctx, actor.ID, dto.CreateTemplateRequest{
		Name: "Onboarding",
		Fields: []dto.FormFieldInput{
			{Label: "Full Name", FieldType: model.FieldTypeText},
			{Label: "Department", FieldType: model.FieldTypeSelect, Options: []string{"Engineering", "Sales"}},
			{Label: "Start Date", FieldType: model.FieldTypeDate},
		},
	})
	require.NoError(t, err)

	updated, err := svc.UpdateTemplate(ctx, actor.ID, template.ID, dto.UpdateTemplateRequest{
		Fields: []dto.FormFieldInput{
			{Label: "Badge Number", FieldType: model.FieldTypeNumber},
		},
	})
	require.NoError(t, err)

	require.Len(t, updated.Fields, 1, "fields omitted from the replacement list are dropped")
	assert.Equal(t, "Badge Number", updated.Fields[0].Label)
}

func TestTemplateUpdateByNonOwnerForbidden(t *testing.T) {
	svc, db, actor := newTemplateService(t)
	ctx := context.Background()

	template, err := svc.CreateTemplate(ctx, actor.ID, dto.CreateTemplateRequest{Name: "Onboarding"})
	require.NoError(t, err)

	other := seedActor(t, db, "someone_else")
	_, err = svc.UpdateTemplate(ctx, other.ID, template.ID, dto.UpdateTemplateRequest{})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	err = svc.DeleteTemplate(ctx, other.ID, template.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestTemplateListActiveExcludesInactive(t *testing.T) {
	svc, _, actor := newTemplateService(t)
	ctx := context.Background()

	_, err := svc.CreateTemplate(ctx, actor.ID, dto.CreateTemplateRequest{Name: "Active One"})
	require.NoError(t, err)

	inactive := false
	_, err = svc.CreateTemplate(ctx, actor.ID, dto.CreateTemplateRequest{
		Name:     "Retired One",
		IsActive: &inactive,
	})
	require.NoError(t, err)

	active, err := svc.ListActiveTemplates(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Active One", active[0].Name)
}

func TestTemplateDelete(t *testing.T) {
	svc, db, actor := newTemplateService(t)
	ctx := context.Background()

	template, err := svc.CreateTemplate(ctx, actor.ID, dto.CreateTemplateRequest{
		Name: "Onboarding",
		Fields: []dto.FormFieldInput{
			{Label: "Full Name", FieldType: model.FieldTypeText},
		},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTemplate(ctx, actor.ID, template.ID))

	_, err = svc.GetTemplate(ctx, template.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	var fields int64
	require.NoError(t, db.Model(&model.FormField{}).
		Where("form_template_id = ?", template.ID).Count(&fields).Error)
	assert.Zero(t, fields, "fields do not outlive their template")
}

func TestTemplateGetMissing(t *testing.T) {
	svc, _, _ := newTemplateService(t)

	_, err := svc.GetTemplate(context.Background(), 9999)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
