package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dakflow/dakflow/internal/model"
	"github.com/dakflow/dakflow/internal/repository"
	"github.com/google/uuid"
)

var (
	ErrDepartmentNameRequired = errors.New("name is required")
)

type DepartmentService struct {
	departmentRepo repository.DepartmentRepository
}

func NewDepartmentService(departmentRepo repository.DepartmentRepository) *DepartmentService {
	return &DepartmentService{departmentRepo: departmentRepo}
}

func (s *DepartmentService) List() ([]*model.Department, error) {
	return s.departmentRepo.All()
}

// Create adds a department. Departments added through the API (as
// opposed to seeded ones) are flagged as custom.
func (s *DepartmentService) Create(name string, isCustom bool) (*model.Department, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrDepartmentNameRequired
	}

	department := &model.Department{
		ID:        uuid.New().String(),
		Name:      name,
		IsCustom:  isCustom,
		CreatedAt: time.Now(),
	}

	err := s.departmentRepo.Create(department)
	if err != nil {
		return nil, fmt.Errorf("failed to create department: %w", err)
	}

	return department, nil
}
