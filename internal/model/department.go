package model

import "github.com/google/uuid"

// Department groups doctors by medical specialty area.
type Department struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
}

// CreateDepartmentRequest represents department creation parameters
type CreateDepartmentRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}
