package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/najma-se/Hospital-Appointment-sys/internal/repository"
)

type userRepository struct {
	db *sqlx.DB
}

type departmentRepository struct {
	db *sqlx.DB
}

type doctorRepository struct {
	db *sqlx.DB
}

type appointmentRepository struct {
	db *sqlx.DB
}

type requestRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func NewDepartmentRepository(db *sqlx.DB) repository.DepartmentRepository {
	return &departmentRepository{db: db}
}

func NewDoctorRepository(db *sqlx.DB) repository.DoctorRepository {
	return &doctorRepository{db: db}
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func NewRequestRepository(db *sqlx.DB) repository.RequestRepository {
	return &requestRepository{db: db}
}
