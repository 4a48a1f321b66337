package service

import (
	"context"
	"fmt"
	"testing"

	"employee-management/internal/dto"
	"employee-management/internal/model"
	"employee-management/internal/repository"
	"employee-management/pkg/apperror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newEmployeeService(t *testing.T) (EmployeeService, repository.HistoryRepository, *gorm.DB, *model.User) {
	t.Helper()

	db := openTestDB(t)
	actor := seedActor(t, db, "hr_admin")

	employeeRepo := repository.NewEmployeeRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	svc := NewEmployeeService(employeeRepo, historyRepo, nil, nil)

	return svc, historyRepo, db, actor
}

func employeeRequest(n int) dto.CreateEmployeeRequest {
	return dto.CreateEmployeeRequest{
		EmployeeID:  fmt.Sprintf("EMP%03d", n),
		FirstName:   "Jane",
		LastName:    fmt.Sprintf("Doe%d", n),
		Email:       fmt.Sprintf("jane.doe%d@example.com", n),
		Phone:       "555-0100",
		DateOfBirth: "1990-04-15",
		HireDate:    "2024-06-01",
		Department:  "Engineering",
		Position:    "Developer",
		Salary:      decimal.NewFromInt(85000),

		AddressLine1: "1 Main St",
		City:         "Springfield",
		State:        "IL",
		PostalCode:   "62701",

		EmergencyContactName:         "John Doe",
		EmergencyContactPhone:        "555-0101",
		EmergencyContactRelationship: "spouse",
	}
}

func updateRequestFrom(req dto.CreateEmployeeRequest, status string) dto.UpdateEmployeeRequest {
	return dto.UpdateEmployeeRequest{
		EmployeeID:  req.EmployeeID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
		HireDate:    req.HireDate,
		Department:  req.Department,
		Position:    req.Position,
		Salary:      req.Salary,
		Status:      status,

		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
		Country:      req.Country,

		EmergencyContactName:         req.EmergencyContactName,
		EmergencyContactPhone:        req.EmergencyContactPhone,
		EmergencyContactRelationship: req.EmergencyContactRelationship,
	}
}

func TestEmployeeCreateAndGet(t *testing.T) {
	svc, _, _, actor := newEmployeeService(t)
	ctx := context.Background()

	req := employeeRequest(1)
	req.CustomFields = map[string]any{
		"blood_type":   "O+",
		"badge_number": 42,
		"remote":       true,
	}

	created, err := svc.Create(ctx, actor.ID, req)
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, "EMP001", got.EmployeeID)
	assert.Equal(t, "Jane Doe1", got.FullName)
	assert.Equal(t, model.StatusActive, got.Status, "status defaults to active")
	assert.Equal(t, "United States", got.Country, "country defaults when omitted")
	assert.Equal(t, actor.ID, got.CreatedByID)

	require.Len(t, got.CustomFields, 3)
	byName := map[string]model.EmployeeCustomField{}
	for _, cf := range got.CustomFields {
		byName[cf.FieldName] = cf
	}
	assert.Equal(t, "O+", byName["blood_type"].FieldValue)
	assert.Equal(t, "42", byName["badge_number"].FieldValue, "non-string values are stored as text")
	assert.Equal(t, "true", byName["remote"].FieldValue)
	for _, cf := range byName {
		assert.Equal(t, model.FieldTypeText, cf.FieldType)
	}

	require.Len(t, got.History, 1)
	assert.Equal(t, model.ActionCreated, got.History[0].Action)
	assert.Equal(t, actor.ID, got.History[0].ChangedByID)
}

func TestEmployeeCreateRejectsDuplicates(t *testing.T) {
	svc, _, _, actor := newEmployeeService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, actor.ID, employeeRequest(1))
	require.NoError(t, err)

	dupID := employeeRequest(2)
	dupID.EmployeeID = "EMP001"
	_, err = svc.Create(ctx, actor.ID, dupID)
	ve, ok := apperror.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "employee_id")

	dupEmail := employeeRequest(3)
	dupEmail.Email = "jane.doe1@example.com"
	_, err = svc.Create(ctx, actor.ID, dupEmail)
	ve, ok = apperror.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "email")
}

func TestEmployeeCreateRejectsBadDate(t *testing.T) {
	svc, _, _, actor := newEmployeeService(t)

	req := employeeRequest(1)
	req.DateOfBirth = "15-04-1990"

	_, err := svc.Create(context.Background(), actor.ID, req)
	ve, ok := apperror.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "date_of_birth")
}

func TestEmployeeUpdateReplacesCustomFieldsWholesale(t *testing.T) {
	svc, _, _, actor := newEmployeeService(t)
	ctx := context.Background()

	req := employeeRequest(1)
	req.CustomFields = map[string]any{
		"blood_type":   "O+",
		"t_shirt_size": "M",
	}
	created, err := svc.Create(ctx, actor.ID, req)
	require.NoError(t, err)

	update := updateRequestFrom(req, model.StatusActive)
	update.CustomFields = map[string]any{"blood_type": "A-"}

	got, err := svc.Update(ctx, actor.ID, created.ID, update)
	require.NoError(t, err)

	require.Len(t, got.CustomFields, 1, "fields omitted from a non-empty set are dropped")
	assert.Equal(t, "blood_type", got.CustomFields[0].FieldName)
	assert.Equal(t, "A-", got.CustomFields[0].FieldValue)
}

func TestEmployeeUpdateEmptyCustomFieldsIsNoOp(t *testing.T) {
	svc, _, _, actor := newEmployeeService(t)
	ctx := context.Background()

	req := employeeRequest(1)
	req.CustomFields = map[string]any{
		"blood_type":   "O+",
		"t_shirt_size": "M",
	}
	created, err := svc.Create(ctx, actor.ID, req)
	require.NoError(t, err)

	update := updateRequestFrom(req, model.StatusActive)
	update.Position = "Senior Developer"

	got, err := svc.Update(ctx, actor.ID, created.ID, update)
	require.NoError(t, err)

	assert.Equal(t, "Senior Developer", got.Position)
	assert.Len(t, got.CustomFields, 2, "an absent custom-field map leaves the stored set alone")
}

func TestEmployeeUpdateRecordsHistory(t *testing.T) {
	svc, historyRepo, _, actor := newEmployeeService(t)
	ctx := context.Background()

	req := employeeRequest(1)
	created, err := svc.Create(ctx, actor.ID, req)
	require.NoError(t, err)

	update := updateRequestFrom(req, model.StatusActive)
	update.Salary = decimal.NewFromInt(95000)
	_, err = svc.Update(ctx, actor.ID, created.ID, update)
	require.NoError(t, err)

	entries, err := historyRepo.ListForEmployee(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	newest := entries[0]
	assert.Equal(t, model.ActionUpdated, newest.Action)
	assert.Equal(t, "85000", newest.OldValues["salary"], "salary snapshots are text")
	assert.Equal(t, "95000", newest.NewValues["salary"])
	assert.Equal(t, model.ActionCreated, entries[1].Action)
}

func TestEmployeeStatusChangeGetsOwnAction(t *testing.T) {
	svc, historyRepo, _, actor := newEmployeeService(t)
	ctx := context.Background()

	req := employeeRequest(1)
	created, err := svc.Create(ctx, actor.ID, req)
	require.NoError(t, err)

	update := updateRequestFrom(req, model.StatusInactive)
	got, err := svc.Update(ctx, actor.ID, created.ID, update)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInactive, got.Status)

	entries, err := historyRepo.ListForEmployee(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, model.ActionStatusChanged, entries[0].Action)
	assert.Equal(t, model.StatusActive, entries[0].OldValues["status"])
	assert.Equal(t, model.StatusInactive, entries[0].NewValues["status"])
}

func TestEmployeeDelete(t *testing.T) {
	svc, historyRepo, db, actor := newEmployeeService(t)
	ctx := context.Background()

	req := employeeRequest(1)
	req.CustomFields = map[string]any{"blood_type": "O+"}
	created, err := svc.Create(ctx, actor.ID, req)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, actor.ID, created.ID))

	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	entries, err := historyRepo.ListForEmployee(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, entries, "history rows go away with the employee")

	var customFields int64
	require.NoError(t, db.Model(&model.EmployeeCustomField{}).
		Where("employee_id = ?", created.ID).Count(&customFields).Error)
	assert.Zero(t, customFields)

	deletions, err := historyRepo.ListDeletions(ctx)
	require.NoError(t, err)
	require.Len(t, deletions, 1, "the deletion ledger survives the cascade")
	assert.Equal(t, "EMP001", deletions[0].EmployeeID)
	assert.Equal(t, "Jane Doe1", deletions[0].FullName)
	assert.Equal(t, actor.ID, deletions[0].DeletedByID)
}

func TestEmployeeDeleteMissing(t *testing.T) {
	svc, _, _, actor := newEmployeeService(t)

	err := svc.Delete(context.Background(), actor.ID, 9999)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestEmployeeSearchFilters(t *testing.T) {
	svc, _, _, actor := newEmployeeService(t)
	ctx := context.Background()

	first := employeeRequest(1)
	first.FirstName = "Alice"
	first.LastName = "Anderson"
	first.Department = "Engineering"
	first.HireDate = "2023-02-01"
	first.CustomFields = map[string]any{"blood_type": "O+"}

	second := employeeRequest(2)
	second.FirstName = "Bob"
	second.LastName = "Brown"
	second.Department = "Sales"
	second.HireDate = "2024-06-01"

	third := employeeRequest(3)
	third.FirstName = "Carol"
	third.LastName = "Chen"
	third.Department = "Engineering"
	third.HireDate = "2025-01-15"
	third.Status = model.StatusInactive

	for _, req := range []dto.CreateEmployeeRequest{first, second, third} {
		_, err := svc.Create(ctx, actor.ID, req)
		require.NoError(t, err)
	}

	t.Run("free text matches name case-insensitively", func(t *testing.T) {
		result, err := svc.Search(ctx, dto.EmployeeFilter{Search: "aLiCe"})
		require.NoError(t, err)
		require.Len(t, result.Data, 1)
		assert.Equal(t, "Alice", result.Data[0].FirstName)
	})

	t.Run("department", func(t *testing.T) {
		result, err := svc.Search(ctx, dto.EmployeeFilter{Department: "Engineering"})
		require.NoError(t, err)
		assert.Len(t, result.Data, 2)
		assert.EqualValues(t, 2, result.Meta.TotalItems)
	})

	t.Run("status", func(t *testing.T) {
		result, err := svc.Search(ctx, dto.EmployeeFilter{Status: model.StatusInactive})
		require.NoError(t, err)
		require.Len(t, result.Data, 1)
		assert.Equal(t, "Carol", result.Data[0].FirstName)
	})

	t.Run("hire date range", func(t *testing.T) {
		result, err := svc.Search(ctx, dto.EmployeeFilter{
			HireDateFrom: "2024-01-01",
			HireDateTo:   "2024-12-31",
		})
		require.NoError(t, err)
		require.Len(t, result.Data, 1)
		assert.Equal(t, "Bob", result.Data[0].FirstName)
	})

	t.Run("custom field", func(t *testing.T) {
		result, err := svc.Search(ctx, dto.EmployeeFilter{
			CustomFieldName:  "blood_type",
			CustomFieldValue: "o+",
		})
		require.NoError(t, err)
		require.Len(t, result.Data, 1)
		assert.Equal(t, "Alice", result.Data[0].FirstName)
	})

	t.Run("pagination", func(t *testing.T) {
		result, err := svc.Search(ctx, dto.EmployeeFilter{Page: 2, Limit: 2})
		require.NoError(t, err)
		assert.Len(t, result.Data, 1)
		assert.Equal(t, 2, result.Meta.CurrentPage)
		assert.Equal(t, 2, result.Meta.TotalPages)
		assert.EqualValues(t, 3, result.Meta.TotalItems)
	})
}

func TestEmployeeQuickSearchFallsBackToDatabase(t *testing.T) {
	svc, _, _, actor := newEmployeeService(t)
	ctx := context.Background()

	req := employeeRequest(1)
	req.FirstName = "Alice"
	_, err := svc.Create(ctx, actor.ID, req)
	require.NoError(t, err)

	summaries, err := svc.QuickSearch(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "EMP001", summaries[0].EmployeeID)
	assert.Equal(t, "Alice Doe1", summaries[0].FullName)
}

func TestEmployeeDashboard(t *testing.T) {
	svc, _, _, actor := newEmployeeService(t)
	ctx := context.Background()

	active := employeeRequest(1)
	inactive := employeeRequest(2)
	inactive.Status = model.StatusTerminated

	_, err := svc.Create(ctx, actor.ID, active)
	require.NoError(t, err)
	_, err = svc.Create(ctx, actor.ID, inactive)
	require.NoError(t, err)

	dashboard, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, dashboard.TotalEmployees)
	assert.EqualValues(t, 1, dashboard.ActiveEmployees)
	assert.Len(t, dashboard.RecentEmployees, 2)
}

func TestEmployeeHistoryMissingEmployee(t *testing.T) {
	svc, _, _, _ := newEmployeeService(t)

	_, err := svc.History(context.Background(), 9999)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
