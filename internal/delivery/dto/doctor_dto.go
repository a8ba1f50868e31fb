package dto

import "time"

// Request DTOs

type CreateDoctorRequest struct {
	Name        string     `json:"name" validate:"required,notblank,max=200"`
	Email       string     `json:"email" validate:"required,email,max=100"`
	Phone       string     `json:"phone" validate:"omitempty,max=50"`
	Photo       string     `json:"photo" validate:"omitempty,max=255"`
	Description string     `json:"description" validate:"omitempty"`
	IsMVP       bool       `json:"is_mvp"`
	HireDate    *time.Time `json:"hire_date" validate:"omitempty"`
}

type UpdateDoctorRequest struct {
	Name        string     `json:"name" validate:"omitempty,max=200"`
	Email       string     `json:"email" validate:"omitempty,email,max=100"`
	Phone       string     `json:"phone" validate:"omitempty,max=50"`
	Photo       string     `json:"photo" validate:"omitempty,max=255"`
	Description string     `json:"description" validate:"omitempty"`
	IsMVP       *bool      `json:"is_mvp" validate:"omitempty"`
	HireDate    *time.Time `json:"hire_date" validate:"omitempty"`
}

// Response DTOs

type DoctorResponse struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Photo       string     `json:"photo,omitempty"`
	Description string     `json:"description,omitempty"`
	IsMVP       bool       `json:"is_mvp"`
	HireDate    *time.Time `json:"hire_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}
