package model

import (
	"time"

	"github.com/google/uuid"
)

// Doctor belongs to exactly one department. Deleting the department deletes
// its doctors (hard cascade at the storage layer).
type Doctor struct {
	ID               uuid.UUID `json:"id" db:"id"`
	FullName         string    `json:"full_name" db:"full_name"`
	Email            string    `json:"email" db:"email"`
	Phone            string    `json:"phone" db:"phone"`
	DepartmentID     uuid.UUID `json:"department_id" db:"department_id"`
	Specialization   string    `json:"specialization" db:"specialization"`
	RegistrationDate time.Time `json:"registration_date" db:"registration_date"`
}

// DoctorRef is the reduced shape served to dependent selectors.
type DoctorRef struct {
	ID       uuid.UUID `json:"id" db:"id"`
	FullName string    `json:"full_name" db:"full_name"`
}

// CreateDoctorRequest represents doctor creation parameters
type CreateDoctorRequest struct {
	FullName       string `json:"full_name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Phone          string `json:"phone" binding:"required,max=15"`
	DepartmentID   string `json:"department_id" binding:"required,uuid"`
	Specialization string `json:"specialization" binding:"required"`
}

// UpdateDoctorRequest represents doctor update parameters
type UpdateDoctorRequest struct {
	FullName       *string `json:"full_name"`
	Email          *string `json:"email" binding:"omitempty,email"`
	Phone          *string `json:"phone" binding:"omitempty,max=15"`
	DepartmentID   *string `json:"department_id" binding:"omitempty,uuid"`
	Specialization *string `json:"specialization"`
}
