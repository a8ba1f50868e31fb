package dto

import "time"

// Request DTOs

type CreateListingRequest struct {
	DoctorID        int64      `json:"doctor_id" validate:"required,gt=0"`
	Title           string     `json:"title" validate:"required,notblank,max=200"`
	Address         string     `json:"address" validate:"omitempty,max=255"`
	District        string     `json:"district" validate:"omitempty,max=100"`
	Description     string     `json:"description" validate:"omitempty"`
	Service         int        `json:"service" validate:"gte=0"`
	Screen          int        `json:"screen" validate:"gte=0"`
	Professional    int        `json:"professional" validate:"gte=0"`
	RoomType        string     `json:"room_type" validate:"omitempty,max=100"`
	Rooms           string     `json:"rooms" validate:"omitempty,max=20"`
	PhotoMain       string     `json:"photo_main" validate:"omitempty,max=255"`
	IsPublished     *bool      `json:"is_published"`
	ListDate        *time.Time `json:"list_date"`
	ProfessionalIDs []int64    `json:"professional_ids" validate:"omitempty,dive,gt=0"`
	Services        []string   `json:"services" validate:"omitempty,dive,required,notblank,max=100"`
}

// UpdateListingRequest replaces only the fields that are present.
// A non-nil ProfessionalIDs or Services replaces the whole set.
type UpdateListingRequest struct {
	DoctorID        *int64     `json:"doctor_id" validate:"omitempty,gt=0"`
	Title           *string    `json:"title" validate:"omitempty,notblank,max=200"`
	Address         *string    `json:"address" validate:"omitempty,max=255"`
	District        *string    `json:"district" validate:"omitempty,max=100"`
	Description     *string    `json:"description"`
	Service         *int       `json:"service" validate:"omitempty,gte=0"`
	Screen          *int       `json:"screen" validate:"omitempty,gte=0"`
	Professional    *int       `json:"professional" validate:"omitempty,gte=0"`
	RoomType        *string    `json:"room_type" validate:"omitempty,max=100"`
	Rooms           *string    `json:"rooms" validate:"omitempty,max=20"`
	PhotoMain       *string    `json:"photo_main" validate:"omitempty,max=255"`
	IsPublished     *bool      `json:"is_published"`
	ListDate        *time.Time `json:"list_date"`
	ProfessionalIDs []int64    `json:"professional_ids" validate:"omitempty,dive,gt=0"`
	Services        []string   `json:"services" validate:"omitempty,dive,required,notblank,max=100"`
}

// Response DTOs

type ListingDoctorResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	IsMVP bool   `json:"is_mvp"`
}

type ListingResponse struct {
	ID            int64                  `json:"id"`
	Title         string                 `json:"title"`
	Address       string                 `json:"address"`
	District      string                 `json:"district"`
	DistrictLabel string                 `json:"district_label"`
	Description   string                 `json:"description,omitempty"`
	Service       int                    `json:"service"`
	Screen        int                    `json:"screen"`
	Professional  int                    `json:"professional"`
	RoomType      string                 `json:"room_type"`
	RoomTypeLabel string                 `json:"room_type_label"`
	Rooms         string                 `json:"rooms"`
	PhotoMain     string                 `json:"photo_main,omitempty"`
	IsPublished   bool                   `json:"is_published"`
	ListDate      time.Time              `json:"list_date"`
	Doctor        *ListingDoctorResponse `json:"doctor,omitempty"`
	Professionals []SubjectResponse      `json:"professionals"`
	Services      []string               `json:"services"`
}

type ListingListResponse struct {
	Listings []ListingResponse `json:"listings"`
	Total    int               `json:"total"`
}
