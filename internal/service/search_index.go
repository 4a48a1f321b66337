package service

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"employee-management/internal/dto"
	"employee-management/internal/model"

	"github.com/meilisearch/meilisearch-go"
)

// EmployeeSearchIndex keeps a denormalized copy of employee summaries for
// typeahead search. It is strictly a sidecar: the database stays canonical.
type EmployeeSearchIndex interface {
	Index(employee *model.Employee) error
	Remove(id uint) error
	Search(query string, limit int) ([]dto.EmployeeSummary, error)
}

const employeeIndex = "employees"

type meiliSearchIndex struct {
	client meilisearch.ServiceManager
}

func NewMeiliSearchIndex(client meilisearch.ServiceManager) EmployeeSearchIndex {
	s := &meiliSearchIndex{client: client}
	s.initIndex()
	return s
}

func (s *meiliSearchIndex) initIndex() {
	filterableAttrs := []string{"department", "status"}
	filterableInterface := make([]any, len(filterableAttrs))
	for i, v := range filterableAttrs {
		filterableInterface[i] = v
	}
	if _, err := s.client.Index(employeeIndex).UpdateFilterableAttributes(&filterableInterface); err != nil {
		log.Printf("Failed to update employees filterable attributes: %v", err)
	}

	sortableAttrs := []string{"full_name", "department"}
	if _, err := s.client.Index(employeeIndex).UpdateSortableAttributes(&sortableAttrs); err != nil {
		log.Printf("Failed to update employees sortable attributes: %v", err)
	}

	log.Println("Meilisearch employee index initialized")
}

func (s *meiliSearchIndex) Index(employee *model.Employee) error {
	doc := dto.EmployeeSummary{
		ID:         employee.ID,
		EmployeeID: employee.EmployeeID,
		FullName:   employee.FullName(),
		Email:      employee.Email,
		Department: employee.Department,
		Position:   employee.Position,
		Status:     employee.Status,
	}

	primaryKey := "id"
	if _, err := s.client.Index(employeeIndex).AddDocuments([]dto.EmployeeSummary{doc}, &primaryKey); err != nil {
		return fmt.Errorf("failed to index employee document: %w", err)
	}

	return nil
}

func (s *meiliSearchIndex) Remove(id uint) error {
	if _, err := s.client.Index(employeeIndex).DeleteDocument(strconv.FormatUint(uint64(id), 10)); err != nil {
		return fmt.Errorf("failed to delete employee document: %w", err)
	}

	return nil
}

func (s *meiliSearchIndex) Search(query string, limit int) ([]dto.EmployeeSummary, error) {
	resp, err := s.client.Index(employeeIndex).Search(query, &meilisearch.SearchRequest{
		Limit: int64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("employee search failed: %w", err)
	}

	summaries := make([]dto.EmployeeSummary, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		raw, err := json.Marshal(hit)
		if err != nil {
			continue
		}
		var summary dto.EmployeeSummary
		if err := json.Unmarshal(raw, &summary); err != nil {
			continue
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}
