package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/najma-se/Hospital-Appointment-sys/internal/model"
)

// All repository interfaces in one file
type (
	// UserRepository handles identity records keyed by email
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
	}

	DepartmentRepository interface {
		Create(ctx context.Context, dept *model.Department) error
		Get(ctx context.Context, id uuid.UUID) (*model.Department, error)
		List(ctx context.Context) ([]*model.Department, error)
		Delete(ctx context.Context, id uuid.UUID) error
	}

	DoctorRepository interface {
		Create(ctx context.Context, doctor *model.Doctor) error
		Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
		Update(ctx context.Context, doctor *model.Doctor) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]*model.Doctor, error)
		ListRefsByDepartment(ctx context.Context, departmentID uuid.UUID) ([]*model.DoctorRef, error)
	}

	// AppointmentRepository is the direct booking ledger. Create relies on
	// the storage-layer unique constraint over (doctor_id, appointment_date,
	// appointment_time) and returns a Conflict error when it fires.
	AppointmentRepository interface {
		Create(ctx context.Context, appt *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Cancel(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]*model.Appointment, error)
	}

	// RequestRepository is the patient request ledger. A partial unique
	// index over non-rejected rows is the authoritative slot guard;
	// ExistsBlockingForSlot is only the advisory pre-check.
	RequestRepository interface {
		Create(ctx context.Context, req *model.AppointmentRequest) error
		Get(ctx context.Context, id uuid.UUID) (*model.AppointmentRequest, error)
		Update(ctx context.Context, req *model.AppointmentRequest) error
		Delete(ctx context.Context, id uuid.UUID) error
		ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.AppointmentRequest, error)
		ListAll(ctx context.Context) ([]*model.AppointmentRequest, error)
		ExistsBlockingForSlot(ctx context.Context, doctorID uuid.UUID, date, timeOfDay string) (bool, error)
		SetStatus(ctx context.Context, id uuid.UUID, from, to model.RequestStatus) (bool, error)
		// Approve inserts the appointment and marks the request accepted in
		// one transaction; neither write is visible unless both succeed.
		Approve(ctx context.Context, requestID uuid.UUID, appt *model.Appointment) error
	}
)
