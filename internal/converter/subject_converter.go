package converter

import (
	"clinic-directory/internal/delivery/dto"
	"clinic-directory/internal/domain/entity"
)

func SubjectToResponse(subject *entity.Subject) *dto.SubjectResponse {
	if subject == nil {
		return nil
	}
	return &dto.SubjectResponse{ID: subject.ID, Name: subject.Name}
}

func SubjectsToResponses(subjects []entity.Subject) []dto.SubjectResponse {
	responses := make([]dto.SubjectResponse, len(subjects))
	for i, s := range subjects {
		responses[i] = dto.SubjectResponse{ID: s.ID, Name: s.Name}
	}
	return responses
}
