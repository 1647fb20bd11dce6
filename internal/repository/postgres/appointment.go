package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/najma-se/Hospital-Appointment-sys/internal/model"
	apperrors "github.com/najma-se/Hospital-Appointment-sys/pkg/errors"
)

const appointmentColumns = `
	id, full_name, email, phone, department_id, doctor_id,
	to_char(appointment_date, 'YYYY-MM-DD') AS appointment_date,
	to_char(appointment_time, 'HH24:MI') AS appointment_time,
	description, status, submitted_at
`

func insertAppointment(ctx context.Context, q sqlx.ExtContext, appt *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, full_name, email, phone, department_id, doctor_id,
			appointment_date, appointment_time, description, status, submitted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7::date, $8::time, $9, $10, $11)
	`
	_, err := q.ExecContext(ctx, query,
		appt.ID,
		appt.FullName,
		appt.Email,
		appt.Phone,
		appt.DepartmentID,
		appt.DoctorID,
		appt.AppointmentDate,
		appt.AppointmentTime,
		appt.Description,
		appt.Status,
		appt.SubmittedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("that time is already booked for this doctor", err)
		}
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

// Create inserts without a pre-check; the unique constraint over
// (doctor_id, appointment_date, appointment_time) is the authority and a
// violation surfaces as a Conflict.
func (r *appointmentRepository) Create(ctx context.Context, appt *model.Appointment) error {
	return insertAppointment(ctx, r.db, appt)
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`
	var appt model.Appointment
	if err := r.db.GetContext(ctx, &appt, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound("appointment", err)
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appt, nil
}

// Cancel flips the status; repeating it is harmless.
func (r *appointmentRepository) Cancel(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE appointments
		SET status = $1
		WHERE id = $2
	`
	result, err := r.db.ExecContext(ctx, query, model.AppointmentStatusCancelled, id)
	if err != nil {
		return fmt.Errorf("failed to cancel appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("appointment", nil)
	}
	return nil
}

func (r *appointmentRepository) List(ctx context.Context) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments ORDER BY appointment_date DESC`
	var appts []*model.Appointment
	if err := r.db.SelectContext(ctx, &appts, query); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appts, nil
}
