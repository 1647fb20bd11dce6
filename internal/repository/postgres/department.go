package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/najma-se/Hospital-Appointment-sys/internal/model"
	apperrors "github.com/najma-se/Hospital-Appointment-sys/pkg/errors"
)

func (r *departmentRepository) Create(ctx context.Context, dept *model.Department) error {
	query := `
		INSERT INTO departments (id, name, description)
		VALUES ($1, $2, $3)
	`
	_, err := r.db.ExecContext(ctx, query, dept.ID, dept.Name, dept.Description)
	if err != nil {
		return fmt.Errorf("failed to create department: %w", err)
	}
	return nil
}

func (r *departmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Department, error) {
	query := `
		SELECT id, name, description
		FROM departments
		WHERE id = $1
	`
	var dept model.Department
	if err := r.db.GetContext(ctx, &dept, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound("department", err)
		}
		return nil, fmt.Errorf("failed to get department: %w", err)
	}
	return &dept, nil
}

func (r *departmentRepository) List(ctx context.Context) ([]*model.Department, error) {
	query := `
		SELECT id, name, description
		FROM departments
		ORDER BY name ASC
	`
	var depts []*model.Department
	if err := r.db.SelectContext(ctx, &depts, query); err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return depts, nil
}

// Delete removes the department; doctors cascade at the storage layer.
func (r *departmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM departments
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete department: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("department", nil)
	}
	return nil
}
