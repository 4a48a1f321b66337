package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"employee-management/internal/dto"
	"employee-management/internal/events"
	"employee-management/internal/model"
	"employee-management/internal/repository"
	"employee-management/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmployeeService interface {
	Create(ctx context.Context, actorID uuid.UUID, input dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error)
	Get(ctx context.Context, id uint) (*dto.EmployeeResponse, error)
	Update(ctx context.Context, actorID uuid.UUID, id uint, input dto.UpdateEmployeeRequest) (*dto.EmployeeResponse, error)
	Delete(ctx context.Context, actorID uuid.UUID, id uint) error
	Search(ctx context.Context, filter dto.EmployeeFilter) (*dto.PaginatedEmployeeResponse, error)
	QuickSearch(ctx context.Context, query string) ([]dto.EmployeeSummary, error)
	History(ctx context.Context, employeeID uint) ([]model.EmployeeHistory, error)
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
}

type employeeService struct {
	employeeRepo repository.EmployeeRepository
	historyRepo  repository.HistoryRepository
	searchIndex  EmployeeSearchIndex // optional
	publisher    events.Publisher    // optional
}

func NewEmployeeService(
	employeeRepo repository.EmployeeRepository,
	historyRepo repository.HistoryRepository,
	searchIndex EmployeeSearchIndex,
	publisher events.Publisher,
) EmployeeService {
	return &employeeService{
		employeeRepo: employeeRepo,
		historyRepo:  historyRepo,
		searchIndex:  searchIndex,
		publisher:    publisher,
	}
}

func (s *employeeService) Create(ctx context.Context, actorID uuid.UUID, input dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error) {
	if exists, err := s.employeeRepo.ExistsByEmployeeID(ctx, input.EmployeeID, 0); err != nil {
		return nil, fmt.Errorf("failed to check employee id: %w", err)
	} else if exists {
		return nil, apperror.NewValidation("employee_id", "an employee with this ID already exists")
	}

	if exists, err := s.employeeRepo.ExistsByEmail(ctx, input.Email, 0); err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	} else if exists {
		return nil, apperror.NewValidation("email", "an employee with this email already exists")
	}

	dateOfBirth, hireDate, err := parseEmployeeDates(input.DateOfBirth, input.HireDate)
	if err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = model.StatusActive
	}

	country := input.Country
	if country == "" {
		country = "United States"
	}

	employee := &model.Employee{
		EmployeeID:  input.EmployeeID,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Email:       input.Email,
		Phone:       input.Phone,
		DateOfBirth: dateOfBirth,
		HireDate:    hireDate,
		Department:  input.Department,
		Position:    input.Position,
		Salary:      input.Salary,
		Status:      status,

		AddressLine1: input.AddressLine1,
		AddressLine2: input.AddressLine2,
		City:         input.City,
		State:        input.State,
		PostalCode:   input.PostalCode,
		Country:      country,

		EmergencyContactName:         input.EmergencyContactName,
		EmergencyContactPhone:        input.EmergencyContactPhone,
		EmergencyContactRelationship: input.EmergencyContactRelationship,

		CreatedByID: actorID,
		IsActive:    true,
	}

	description := fmt.Sprintf("Employee %s was created", employee.FullName())
	entry := &model.EmployeeHistory{
		Action:      model.ActionCreated,
		ChangedByID: actorID,
		Description: &description,
	}

	if err := s.employeeRepo.Create(ctx, employee, input.CustomFields, entry); err != nil {
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}

	s.afterMutation(ctx, employee, model.ActionCreated, actorID, description)

	return s.Get(ctx, employee.ID)
}

func (s *employeeService) Get(ctx context.Context, id uint) (*dto.EmployeeResponse, error) {
	employee, err := s.employeeRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	resp := dto.NewEmployeeResponse(employee)
	return &resp, nil
}

func (s *employeeService) Update(ctx context.Context, actorID uuid.UUID, id uint, input dto.UpdateEmployeeRequest) (*dto.EmployeeResponse, error) {
	employee, err := s.employeeRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if exists, err := s.employeeRepo.ExistsByEmployeeID(ctx, input.EmployeeID, employee.ID); err != nil {
		return nil, fmt.Errorf("failed to check employee id: %w", err)
	} else if exists {
		return nil, apperror.NewValidation("employee_id", "an employee with this ID already exists")
	}

	if exists, err := s.employeeRepo.ExistsByEmail(ctx, input.Email, employee.ID); err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	} else if exists {
		return nil, apperror.NewValidation("email", "an employee with this email already exists")
	}

	dateOfBirth, hireDate, err := parseEmployeeDates(input.DateOfBirth, input.HireDate)
	if err != nil {
		return nil, err
	}

	oldValues := trackedSnapshot(employee)
	oldStatus := employee.Status

	employee.EmployeeID = input.EmployeeID
	employee.FirstName = input.FirstName
	employee.LastName = input.LastName
	employee.Email = input.Email
	employee.Phone = input.Phone
	employee.DateOfBirth = dateOfBirth
	employee.HireDate = hireDate
	employee.Department = input.Department
	employee.Position = input.Position
	employee.Salary = input.Salary
	employee.Status = input.Status
	employee.AddressLine1 = input.AddressLine1
	employee.AddressLine2 = input.AddressLine2
	employee.City = input.City
	employee.State = input.State
	employee.PostalCode = input.PostalCode
	if input.Country != "" {
		employee.Country = input.Country
	}
	employee.EmergencyContactName = input.EmergencyContactName
	employee.EmergencyContactPhone = input.EmergencyContactPhone
	employee.EmergencyContactRelationship = input.EmergencyContactRelationship

	newValues := trackedSnapshot(employee)

	action := model.ActionUpdated
	if employee.Status != oldStatus {
		action = model.ActionStatusChanged
	}

	description := fmt.Sprintf("Employee %s was updated", employee.FullName())
	entry := &model.EmployeeHistory{
		Action:      action,
		ChangedByID: actorID,
		OldValues:   oldValues,
		NewValues:   newValues,
		Description: &description,
	}

	if err := s.employeeRepo.Update(ctx, employee, input.CustomFields, entry); err != nil {
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}

	s.afterMutation(ctx, employee, action, actorID, description)

	return s.Get(ctx, employee.ID)
}

func (s *employeeService) Delete(ctx context.Context, actorID uuid.UUID, id uint) error {
	employee, err := s.employeeRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	description := fmt.Sprintf("Employee %s was deleted", employee.FullName())
	entry := &model.EmployeeHistory{
		Action:      model.ActionDeleted,
		ChangedByID: actorID,
		Description: &description,
	}
	ledger := &model.EmployeeDeletionLog{
		EmployeeID:  employee.EmployeeID,
		FullName:    employee.FullName(),
		DeletedByID: actorID,
		Description: &description,
	}

	if err := s.employeeRepo.Delete(ctx, employee, entry, ledger); err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}

	if s.searchIndex != nil {
		if err := s.searchIndex.Remove(employee.ID); err != nil {
			log.Printf("failed to remove employee %d from search index: %v", employee.ID, err)
		}
	}

	s.publish(ctx, employee, model.ActionDeleted, actorID, description)

	return nil
}

func (s *employeeService) Search(ctx context.Context, filter dto.EmployeeFilter) (*dto.PaginatedEmployeeResponse, error) {
	employees, total, err := s.employeeRepo.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search employees: %w", err)
	}

	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}

	data := make([]dto.EmployeeResponse, 0, len(employees))
	for i := range employees {
		data = append(data, dto.NewEmployeeResponse(&employees[i]))
	}

	return &dto.PaginatedEmployeeResponse{
		Data: data,
		Meta: dto.PaginationMeta{
			CurrentPage: page,
			TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
			TotalItems:  total,
			Limit:       limit,
		},
	}, nil
}

// QuickSearch serves typeahead from the search index; without an index it
// degrades to a plain database search.
func (s *employeeService) QuickSearch(ctx context.Context, query string) ([]dto.EmployeeSummary, error) {
	if s.searchIndex != nil {
		return s.searchIndex.Search(query, 10)
	}

	employees, _, err := s.employeeRepo.Search(ctx, dto.EmployeeFilter{Search: query, Limit: 10})
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.EmployeeSummary, 0, len(employees))
	for i := range employees {
		summaries = append(summaries, summarize(&employees[i]))
	}
	return summaries, nil
}

func (s *employeeService) History(ctx context.Context, employeeID uint) ([]model.EmployeeHistory, error) {
	if _, err := s.employeeRepo.FindByID(ctx, employeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	return s.historyRepo.ListForEmployee(ctx, employeeID)
}

func (s *employeeService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	total, err := s.employeeRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	active, err := s.employeeRepo.CountByStatus(ctx, model.StatusActive)
	if err != nil {
		return nil, err
	}

	recent, err := s.employeeRepo.FindRecent(ctx, 5)
	if err != nil {
		return nil, err
	}

	recentResponses := make([]dto.EmployeeResponse, 0, len(recent))
	for i := range recent {
		recentResponses = append(recentResponses, dto.NewEmployeeResponse(&recent[i]))
	}

	return &dto.DashboardResponse{
		TotalEmployees:  total,
		ActiveEmployees: active,
		RecentEmployees: recentResponses,
	}, nil
}

// afterMutation keeps the sidecars in sync. Failures are logged and
// swallowed; the database transaction already committed.
func (s *employeeService) afterMutation(ctx context.Context, employee *model.Employee, action string, actorID uuid.UUID, description string) {
	if s.searchIndex != nil {
		if err := s.searchIndex.Index(employee); err != nil {
			log.Printf("failed to index employee %d: %v", employee.ID, err)
		}
	}

	s.publish(ctx, employee, action, actorID, description)
}

func (s *employeeService) publish(ctx context.Context, employee *model.Employee, action string, actorID uuid.UUID, description string) {
	if s.publisher == nil {
		return
	}

	event := events.EmployeeEvent{
		Action:       action,
		EmployeeID:   employee.ID,
		EmployeeCode: employee.EmployeeID,
		FullName:     employee.FullName(),
		ActorID:      actorID.String(),
		Description:  description,
		OccurredAt:   time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Printf("failed to publish employee event: %v", err)
	}
}

// trackedSnapshot captures the eight fields the audit trail diffs across
// updates. Salary goes in as text so the snapshot is stable JSON.
func trackedSnapshot(e *model.Employee) model.JSONMap {
	return model.JSONMap{
		"first_name": e.FirstName,
		"last_name":  e.LastName,
		"email":      e.Email,
		"phone":      e.Phone,
		"department": e.Department,
		"position":   e.Position,
		"salary":     e.Salary.String(),
		"status":     e.Status,
	}
}

func summarize(e *model.Employee) dto.EmployeeSummary {
	return dto.EmployeeSummary{
		ID:         e.ID,
		EmployeeID: e.EmployeeID,
		FullName:   e.FullName(),
		Email:      e.Email,
		Department: e.Department,
		Position:   e.Position,
		Status:     e.Status,
	}
}

func parseEmployeeDates(dateOfBirth, hireDate string) (time.Time, time.Time, error) {
	dob, err := time.Parse("2006-01-02", dateOfBirth)
	if err != nil {
		return time.Time{}, time.Time{}, apperror.NewValidation("date_of_birth", "must be a date in YYYY-MM-DD format")
	}

	hire, err := time.Parse("2006-01-02", hireDate)
	if err != nil {
		return time.Time{}, time.Time{}, apperror.NewValidation("hire_date", "must be a date in YYYY-MM-DD format")
	}

	return dob, hire, nil
}
