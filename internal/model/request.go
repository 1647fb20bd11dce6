package model

import (
	"time"

	"github.com/google/uuid"
)

// RequestStatus is the approval-workflow state of an appointment request.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusAccepted RequestStatus = "accepted"
	RequestStatusRejected RequestStatus = "rejected"
	// RequestStatusCancelled is a declared state with no exposed transition.
	RequestStatusCancelled RequestStatus = "cancelled"
)

// Blocking reports whether a request in this status holds its slot. Only
// rejected requests free the slot for resubmission.
func (s RequestStatus) Blocking() bool {
	return s != RequestStatusRejected
}

// AppointmentRequest is a patient-initiated booking proposal subject to
// admin approval.
type AppointmentRequest struct {
	ID           uuid.UUID     `json:"id" db:"id"`
	PatientID    uuid.UUID     `json:"patient_id" db:"patient_id"`
	FullName     string        `json:"full_name" db:"full_name"`
	Email        string        `json:"email" db:"email"`
	Phone        string        `json:"phone" db:"phone"`
	DepartmentID *uuid.UUID    `json:"department_id" db:"department_id"`
	DoctorID     uuid.UUID     `json:"doctor_id" db:"doctor_id"`
	Date         string        `json:"date" db:"date"`
	Time         string        `json:"time" db:"time"`
	Description  string        `json:"description" db:"description"`
	Status       RequestStatus `json:"status" db:"status"`
	SubmittedAt  time.Time     `json:"submitted_at" db:"submitted_at"`
}

// SubmitRequestRequest represents a patient booking submission
type SubmitRequestRequest struct {
	FullName     string `json:"full_name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Phone        string `json:"phone" binding:"required,max=20"`
	DepartmentID string `json:"department_id" binding:"omitempty,uuid"`
	DoctorID     string `json:"doctor_id" binding:"required,uuid"`
	Date         string `json:"date" binding:"required,dateonly"`
	Time         string `json:"time" binding:"required,clocktime"`
	Description  string `json:"description" binding:"max=1000"`
}

// UpdateRequestRequest represents a patient edit of a pending request
type UpdateRequestRequest struct {
	FullName     *string `json:"full_name"`
	Email        *string `json:"email" binding:"omitempty,email"`
	Phone        *string `json:"phone" binding:"omitempty,max=20"`
	DepartmentID *string `json:"department_id" binding:"omitempty,uuid"`
	DoctorID     *string `json:"doctor_id" binding:"omitempty,uuid"`
	Date         *string `json:"date" binding:"omitempty,dateonly"`
	Time         *string `json:"time" binding:"omitempty,clocktime"`
	Description  *string `json:"description" binding:"omitempty,max=1000"`
}
