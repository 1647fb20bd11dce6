package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/najma-se/Hospital-Appointment-sys/internal/model"
	"github.com/najma-se/Hospital-Appointment-sys/internal/repository"
)

// Service is the direct booking ledger used by admins. It does not
// pre-validate the slot: the insert either lands or comes back as a
// Conflict from the unique constraint, and the caller surfaces that as
// "already booked".
type Service struct {
	repo repository.AppointmentRepository
}

func NewService(repo repository.AppointmentRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Book(ctx context.Context, req *model.BookAppointmentRequest) (*model.Appointment, error) {
	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("invalid doctor ID: %w", err)
	}

	appt := &model.Appointment{
		ID:              uuid.New(),
		FullName:        req.FullName,
		Email:           req.Email,
		Phone:           req.Phone,
		DoctorID:        &doctorID,
		AppointmentDate: req.AppointmentDate,
		AppointmentTime: req.AppointmentTime,
		Description:     req.Description,
		Status:          model.AppointmentStatusActive,
		SubmittedAt:     time.Now(),
	}

	if req.DepartmentID != "" {
		departmentID, err := uuid.Parse(req.DepartmentID)
		if err != nil {
			return nil, fmt.Errorf("invalid department ID: %w", err)
		}
		appt.DepartmentID = &departmentID
	}

	if err := s.repo.Create(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// Cancel sets the status to Cancelled. Idempotent, and deliberately without
// an ownership check: any admin may cancel any appointment.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) error {
	return s.repo.Cancel(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*model.Appointment, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.repo.Get(ctx, id)
}
