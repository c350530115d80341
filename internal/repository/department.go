package repository

import (
	"github.com/dakflow/dakflow/internal/model"
	"github.com/jmoiron/sqlx"
)

type DepartmentRepository interface {
	Create(department *model.Department) error
	All() ([]*model.Department, error)
}

type departmentRepository struct {
	db *sqlx.DB
}

func NewDepartmentRepository(db *sqlx.DB) DepartmentRepository {
	return &departmentRepository{db: db}
}

func (r *departmentRepository) Create(department *model.Department) error {
	query := `INSERT INTO departments (id, name, is_custom, created_at) VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(query, department.ID, department.Name, department.IsCustom, department.CreatedAt)
	return err
}

func (r *departmentRepository) All() ([]*model.Department, error) {
	departments := []*model.Department{}
	query := `SELECT * FROM departments ORDER BY name`

	err := r.db.Select(&departments, query)
	if err != nil {
		return nil, err
	}

	return departments, nil
}
