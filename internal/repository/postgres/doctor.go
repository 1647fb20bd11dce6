package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/najma-se/Hospital-Appointment-sys/internal/model"
	apperrors "github.com/najma-se/Hospital-Appointment-sys/pkg/errors"
)

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	query := `
		INSERT INTO doctors (
			id, full_name, email, phone, department_id,
			specialization, registration_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		doctor.ID,
		doctor.FullName,
		doctor.Email,
		doctor.Phone,
		doctor.DepartmentID,
		doctor.Specialization,
		doctor.RegistrationDate,
	)
	if err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	return nil
}

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	query := `
		SELECT id, full_name, email, phone, department_id,
		       specialization, registration_date
		FROM doctors
		WHERE id = $1
	`
	var doctor model.Doctor
	if err := r.db.GetContext(ctx, &doctor, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound("doctor", err)
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *model.Doctor) error {
	query := `
		UPDATE doctors
		SET full_name = $1, email = $2, phone = $3,
		    department_id = $4, specialization = $5
		WHERE id = $6
	`
	result, err := r.db.ExecContext(ctx, query,
		doctor.FullName,
		doctor.Email,
		doctor.Phone,
		doctor.DepartmentID,
		doctor.Specialization,
		doctor.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update doctor: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("doctor", nil)
	}
	return nil
}

func (r *doctorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM doctors
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete doctor: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("doctor", nil)
	}
	return nil
}

func (r *doctorRepository) List(ctx context.Context) ([]*model.Doctor, error) {
	query := `
		SELECT id, full_name, email, phone, department_id,
		       specialization, registration_date
		FROM doctors
		ORDER BY registration_date DESC
	`
	var doctors []*model.Doctor
	if err := r.db.SelectContext(ctx, &doctors, query); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

func (r *doctorRepository) ListRefsByDepartment(ctx context.Context, departmentID uuid.UUID) ([]*model.DoctorRef, error) {
	query := `
		SELECT id, full_name
		FROM doctors
		WHERE department_id = $1
		ORDER BY full_name ASC
	`
	var refs []*model.DoctorRef
	if err := r.db.SelectContext(ctx, &refs, query, departmentID); err != nil {
		return nil, fmt.Errorf("failed to list doctors for department: %w", err)
	}
	return refs, nil
}
