package model

import (
	"time"

	"github.com/google/uuid"
)

// Appointment status is free text; these are the two values the application
// itself writes.
const (
	AppointmentStatusActive    = "Active"
	AppointmentStatusCancelled = "Cancelled"
)

// Appointment is a confirmed booking, created by an admin directly or
// materialized from an accepted request. The (doctor_id, appointment_date,
// appointment_time) tuple is unique at the storage layer. Appointments are
// never hard-deleted; cancellation only flips the status.
type Appointment struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	FullName        string     `json:"full_name" db:"full_name"`
	Email           string     `json:"email" db:"email"`
	Phone           string     `json:"phone" db:"phone"`
	DepartmentID    *uuid.UUID `json:"department_id" db:"department_id"`
	DoctorID        *uuid.UUID `json:"doctor_id" db:"doctor_id"`
	AppointmentDate string     `json:"appointment_date" db:"appointment_date"`
	AppointmentTime string     `json:"appointment_time" db:"appointment_time"`
	Description     string     `json:"description" db:"description"`
	Status          string     `json:"status" db:"status"`
	SubmittedAt     time.Time  `json:"submitted_at" db:"submitted_at"`
}

// BookAppointmentRequest represents a direct admin booking
type BookAppointmentRequest struct {
	FullName        string `json:"full_name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone" binding:"required,max=20"`
	DepartmentID    string `json:"department_id" binding:"omitempty,uuid"`
	DoctorID        string `json:"doctor_id" binding:"required,uuid"`
	AppointmentDate string `json:"appointment_date" binding:"required,dateonly"`
	AppointmentTime string `json:"appointment_time" binding:"required,clocktime"`
	Description     string `json:"description" binding:"max=1000"`
}
