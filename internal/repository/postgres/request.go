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

const requestColumns = `
	id, patient_id, full_name, email, phone, department_id, doctor_id,
	to_char(date, 'YYYY-MM-DD') AS date,
	to_char(time, 'HH24:MI') AS time,
	description, status, submitted_at
`

// Create inserts a request. The partial unique index over non-rejected rows
// is the real slot guard; racing submissions that both passed the advisory
// check resolve here, second committer getting a Conflict.
func (r *requestRepository) Create(ctx context.Context, req *model.AppointmentRequest) error {
	query := `
		INSERT INTO appointment_requests (
			id, patient_id, full_name, email, phone, department_id, doctor_id,
			date, time, description, status, submitted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8::date, $9::time, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		req.ID,
		req.PatientID,
		req.FullName,
		req.Email,
		req.Phone,
		req.DepartmentID,
		req.DoctorID,
		req.Date,
		req.Time,
		req.Description,
		req.Status,
		req.SubmittedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("this time slot is already booked for the selected doctor", err)
		}
		return fmt.Errorf("failed to create appointment request: %w", err)
	}
	return nil
}

func (r *requestRepository) Get(ctx context.Context, id uuid.UUID) (*model.AppointmentRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM appointment_requests WHERE id = $1`
	var req model.AppointmentRequest
	if err := r.db.GetContext(ctx, &req, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound("appointment request", err)
		}
		return nil, fmt.Errorf("failed to get appointment request: %w", err)
	}
	return &req, nil
}

func (r *requestRepository) Update(ctx context.Context, req *model.AppointmentRequest) error {
	query := `
		UPDATE appointment_requests
		SET full_name = $1, email = $2, phone = $3, department_id = $4,
		    doctor_id = $5, date = $6::date, time = $7::time, description = $8
		WHERE id = $9
	`
	result, err := r.db.ExecContext(ctx, query,
		req.FullName,
		req.Email,
		req.Phone,
		req.DepartmentID,
		req.DoctorID,
		req.Date,
		req.Time,
		req.Description,
		req.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("this time slot is already booked for the selected doctor", err)
		}
		return fmt.Errorf("failed to update appointment request: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("appointment request", nil)
	}
	return nil
}

func (r *requestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM appointment_requests
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment request: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("appointment request", nil)
	}
	return nil
}

func (r *requestRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.AppointmentRequest, error) {
	query := `SELECT ` + requestColumns + `
		FROM appointment_requests
		WHERE patient_id = $1
		ORDER BY submitted_at DESC`
	var reqs []*model.AppointmentRequest
	if err := r.db.SelectContext(ctx, &reqs, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list appointment requests: %w", err)
	}
	return reqs, nil
}

func (r *requestRepository) ListAll(ctx context.Context) ([]*model.AppointmentRequest, error) {
	query := `SELECT ` + requestColumns + `
		FROM appointment_requests
		ORDER BY submitted_at DESC`
	var reqs []*model.AppointmentRequest
	if err := r.db.SelectContext(ctx, &reqs, query); err != nil {
		return nil, fmt.Errorf("failed to list appointment requests: %w", err)
	}
	return reqs, nil
}

// ExistsBlockingForSlot is the advisory pre-check: any request for the slot
// in a status other than rejected blocks a new submission.
func (r *requestRepository) ExistsBlockingForSlot(ctx context.Context, doctorID uuid.UUID, date, timeOfDay string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM appointment_requests
			WHERE doctor_id = $1
			AND date = $2::date
			AND time = $3::time
			AND status <> $4
		)
	`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, doctorID, date, timeOfDay, model.RequestStatusRejected)
	if err != nil {
		return false, fmt.Errorf("failed to check slot: %w", err)
	}
	return exists, nil
}

// SetStatus transitions a request from one status to another, reporting
// whether a row actually moved.
func (r *requestRepository) SetStatus(ctx context.Context, id uuid.UUID, from, to model.RequestStatus) (bool, error) {
	query := `
		UPDATE appointment_requests
		SET status = $1
		WHERE id = $2 AND status = $3
	`
	result, err := r.db.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return false, fmt.Errorf("failed to update request status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// Approve atomically inserts the materialized appointment and marks the
// request accepted. If the appointment insert hits the slot constraint the
// transaction rolls back and the request stays pending.
func (r *requestRepository) Approve(ctx context.Context, requestID uuid.UUID, appt *model.Appointment) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE appointment_requests
			SET status = $1
			WHERE id = $2 AND status = $3
		`, model.RequestStatusAccepted, requestID, model.RequestStatusPending)
		if err != nil {
			return fmt.Errorf("failed to mark request accepted: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			// Lost a race with another approval or rejection; no-op.
			return apperrors.Denied()
		}

		return insertAppointment(ctx, tx, appt)
	})
}
