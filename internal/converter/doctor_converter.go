package converter

import (
	"clinic-directory/internal/delivery/dto"
	"clinic-directory/internal/domain/entity"
)

// DoctorToResponse converts a Doctor entity to DoctorResponse DTO
func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	return &dto.DoctorResponse{
		ID:          doctor.ID,
		Name:        doctor.Name,
		Email:       doctor.Email,
		Phone:       doctor.Phone,
		Photo:       doctor.Photo,
		Description: doctor.Description,
		IsMVP:       doctor.IsMVP,
		HireDate:    doctor.HireDate,
		CreatedAt:   doctor.CreatedAt,
	}
}

// DoctorsToResponses converts a slice of Doctor entities to slice of DoctorResponse DTOs
func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i := range doctors {
		responses[i] = *DoctorToResponse(&doctors[i])
	}
	return responses
}
