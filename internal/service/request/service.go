package request

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/najma-se/Hospital-Appointment-sys/internal/model"
	"github.com/najma-se/Hospital-Appointment-sys/internal/repository"
	apperrors "github.com/najma-se/Hospital-Appointment-sys/pkg/errors"
)

// Service is the patient request ledger plus the approval workflow that
// turns a pending request into a confirmed appointment.
type Service struct {
	repo repository.RequestRepository
}

func NewService(repo repository.RequestRepository) *Service {
	return &Service{repo: repo}
}

// Submit files a new request. The existence check is advisory, for fast
// user feedback; the partial unique index is the real guard, so two racing
// submissions that both pass the check resolve at insert time.
func (s *Service) Submit(ctx context.Context, patientID uuid.UUID, req *model.SubmitRequestRequest) (*model.AppointmentRequest, error) {
	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("invalid doctor ID: %w", err)
	}

	blocked, err := s.repo.ExistsBlockingForSlot(ctx, doctorID, req.Date, req.Time)
	if err != nil {
		return nil, fmt.Errorf("failed to check slot: %w", err)
	}
	if blocked {
		return nil, apperrors.Validation("this time slot is already booked for the selected doctor", nil)
	}

	r := &model.AppointmentRequest{
		ID:          uuid.New(),
		PatientID:   patientID,
		FullName:    req.FullName,
		Email:       req.Email,
		Phone:       req.Phone,
		DoctorID:    doctorID,
		Date:        req.Date,
		Time:        req.Time,
		Description: req.Description,
		Status:      model.RequestStatusPending,
		SubmittedAt: time.Now(),
	}

	if req.DepartmentID != "" {
		departmentID, err := uuid.Parse(req.DepartmentID)
		if err != nil {
			return nil, fmt.Errorf("invalid department ID: %w", err)
		}
		r.DepartmentID = &departmentID
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Update edits a request. Only the owner may edit, and only while pending;
// anything else is a silent Denied, not an error.
func (s *Service) Update(ctx context.Context, id, patientID uuid.UUID, req *model.UpdateRequestRequest) (*model.AppointmentRequest, error) {
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if r.PatientID != patientID || r.Status != model.RequestStatusPending {
		return nil, apperrors.Denied()
	}

	if req.FullName != nil {
		r.FullName = *req.FullName
	}
	if req.Email != nil {
		r.Email = *req.Email
	}
	if req.Phone != nil {
		r.Phone = *req.Phone
	}
	if req.Description != nil {
		r.Description = *req.Description
	}
	if req.DoctorID != nil {
		doctorID, err := uuid.Parse(*req.DoctorID)
		if err != nil {
			return nil, fmt.Errorf("invalid doctor ID: %w", err)
		}
		r.DoctorID = doctorID
	}
	if req.DepartmentID != nil {
		departmentID, err := uuid.Parse(*req.DepartmentID)
		if err != nil {
			return nil, fmt.Errorf("invalid department ID: %w", err)
		}
		r.DepartmentID = &departmentID
	}
	if req.Date != nil {
		r.Date = *req.Date
	}
	if req.Time != nil {
		r.Time = *req.Time
	}

	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Delete removes a request. Accepted requests stay: they have a live
// appointment behind them. Non-owners and accepted-state deletes are a
// silent Denied.
func (s *Service) Delete(ctx context.Context, id, patientID uuid.UUID) error {
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if r.PatientID != patientID || r.Status == model.RequestStatusAccepted {
		return apperrors.Denied()
	}

	return s.repo.Delete(ctx, id)
}

func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.AppointmentRequest, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *Service) ListAll(ctx context.Context) ([]*model.AppointmentRequest, error) {
	return s.repo.ListAll(ctx)
}

// Approve transitions a pending request to accepted and materializes the
// appointment, both in one transaction. A non-pending request is a no-op.
// If the slot was taken by a direct booking in the meantime, the Conflict
// propagates and the request stays pending.
func (s *Service) Approve(ctx context.Context, id uuid.UUID) error {
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if r.Status != model.RequestStatusPending {
		return nil
	}

	appt := &model.Appointment{
		ID:              uuid.New(),
		FullName:        r.FullName,
		Email:           r.Email,
		Phone:           r.Phone,
		DepartmentID:    r.DepartmentID,
		DoctorID:        &r.DoctorID,
		AppointmentDate: r.Date,
		AppointmentTime: r.Time,
		Description:     r.Description,
		Status:          model.AppointmentStatusActive,
		SubmittedAt:     time.Now(),
	}

	if err := s.repo.Approve(ctx, id, appt); err != nil {
		if apperrors.IsDenied(err) {
			// Raced another transition; treat as the no-op it is.
			return nil
		}
		if apperrors.IsConflict(err) {
			log.Info().
				Str("request_id", id.String()).
				Str("doctor_id", r.DoctorID.String()).
				Str("date", r.Date).
				Str("time", r.Time).
				Msg("approval lost slot to a concurrent booking")
		}
		return err
	}
	return nil
}

// Reject marks a pending request rejected, freeing the slot for
// resubmission. A non-pending request is a no-op.
func (s *Service) Reject(ctx context.Context, id uuid.UUID) error {
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if r.Status != model.RequestStatusPending {
		return nil
	}

	if _, err := s.repo.SetStatus(ctx, id, model.RequestStatusPending, model.RequestStatusRejected); err != nil {
		return err
	}
	return nil
}
