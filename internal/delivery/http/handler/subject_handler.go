package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"clinic-directory/internal/delivery/dto"
	"clinic-directory/internal/usecase"
	"clinic-directory/pkg/response"
	"clinic-directory/pkg/validator"
)

type SubjectHandler struct {
	subjectUsecase usecase.SubjectUsecase
	validator      *validator.CustomValidator
}

func NewSubjectHandler(subjectUsecase usecase.SubjectUsecase, validator *validator.CustomValidator) *SubjectHandler {
	return &SubjectHandler{
		subjectUsecase: subjectUsecase,
		validator:      validator,
	}
}

func (h *SubjectHandler) CreateSubject(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSubjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	subject, err := h.subjectUsecase.CreateSubject(r.Context(), &req)
	if err != nil {
		if errors.Is(err, usecase.ErrSubjectNameExists) {
			response.Conflict(w, "Subject name already exists")
			return
		}
		response.InternalServerError(w, "Failed to create subject")
		return
	}

	response.Success(w, http.StatusCreated, "Subject created successfully", subject)
}

func (h *SubjectHandler) GetSubject(w http.ResponseWriter, r *http.Request) {
	subjectID, err := pathID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid subject ID")
		return
	}

	subject, err := h.subjectUsecase.GetSubject(r.Context(), subjectID)
	if err != nil {
		if errors.Is(err, usecase.ErrSubjectNotFound) {
			response.NotFound(w, "Subject not found")
			return
		}
		response.InternalServerError(w, "Failed to get subject")
		return
	}

	response.Success(w, http.StatusOK, "Subject retrieved successfully", subject)
}

func (h *SubjectHandler) GetAllSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.subjectUsecase.GetAllSubjects(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get subjects")
		return
	}

	response.Success(w, http.StatusOK, "Subjects retrieved successfully", subjects)
}

func (h *SubjectHandler) UpdateSubject(w http.ResponseWriter, r *http.Request) {
	subjectID, err := pathID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid subject ID")
		return
	}

	var req dto.UpdateSubjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	subject, err := h.subjectUsecase.UpdateSubject(r.Context(), subjectID, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrSubjectNotFound):
			response.NotFound(w, "Subject not found")
		case errors.Is(err, usecase.ErrSubjectNameExists):
			response.Conflict(w, "Subject name already exists")
		default:
			response.InternalServerError(w, "Failed to update subject")
		}
		return
	}

	response.Success(w, http.StatusOK, "Subject updated successfully", subject)
}

func (h *SubjectHandler) DeleteSubject(w http.ResponseWriter, r *http.Request) {
	subjectID, err := pathID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid subject ID")
		return
	}

	if err := h.subjectUsecase.DeleteSubject(r.Context(), subjectID); err != nil {
		switch {
		case errors.Is(err, usecase.ErrSubjectNotFound):
			response.NotFound(w, "Subject not found")
		case errors.Is(err, usecase.ErrSubjectInUse):
			response.Conflict(w, "Subject is linked to listings")
		default:
			response.InternalServerError(w, "Failed to delete subject")
		}
		return
	}

	response.Success(w, http.StatusOK, "Subject deleted successfully", nil)
}
