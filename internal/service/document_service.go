package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"employee-management/internal/dto"
	"employee-management/internal/model"
	"employee-management/internal/repository"
	"employee-management/pkg/apperror"
	"employee-management/pkg/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentService interface {
	Attach(ctx context.Context, actorID uuid.UUID, employeeID uint, input dto.AttachDocumentRequest, file *multipart.FileHeader) (*model.EmployeeDocument, error)
	ListForEmployee(ctx context.Context, employeeID uint) ([]model.EmployeeDocument, error)
}

type documentService struct {
	documentRepo repository.DocumentRepository
	employeeRepo repository.EmployeeRepository
	fileStorage  storage.FileStorage
}

func NewDocumentService(documentRepo repository.DocumentRepository, employeeRepo repository.EmployeeRepository, fileStorage storage.FileStorage) DocumentService {
	return &documentService{
		documentRepo: documentRepo,
		employeeRepo: employeeRepo,
		fileStorage:  fileStorage,
	}
}

// Attach uploads the file to the blob store and records the document.
// Multiple documents of the same type per employee are allowed.
func (s *documentService) Attach(ctx context.Context, actorID uuid.UUID, employeeID uint, input dto.AttachDocumentRequest, file *multipart.FileHeader) (*model.EmployeeDocument, error) {
	if !model.ValidDocumentType(input.DocumentType) {
		return nil, apperror.NewValidation("document_type", "unknown document type")
	}

	if _, err := s.employeeRepo.FindByID(ctx, employeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	f, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer f.Close()

	url, err := s.fileStorage.UploadFile(ctx, f, "employee_documents", file.Filename)
	if err != nil {
		return nil, fmt.Errorf("failed to upload document: %w", err)
	}

	document := &model.EmployeeDocument{
		EmployeeID:   employeeID,
		DocumentType: input.DocumentType,
		Title:        input.Title,
		FileURL:      url,
		Description:  input.Description,
		UploadedByID: actorID,
	}

	if err := s.documentRepo.Create(ctx, document); err != nil {
		return nil, fmt.Errorf("failed to record document: %w", err)
	}

	return document, nil
}

func (s *documentService) ListForEmployee(ctx context.Context, employeeID uint) ([]model.EmployeeDocument, error) {
	if _, err := s.employeeRepo.FindByID(ctx, employeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	return s.documentRepo.FindByEmployee(ctx, employeeID)
}
