package handler

import (
	"net/http"
	"strings"
	"testing"

	"clinic-directory/internal/delivery/dto"
	"clinic-directory/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func TestCreateSubject(t *testing.T) {
	uc := &fakeSubjectUsecase{create: func(req *dto.CreateSubjectRequest) (*dto.SubjectResponse, error) {
		if req.Name == "內科" {
			return nil, usecase.ErrSubjectNameExists
		}
		return &dto.SubjectResponse{ID: 3, Name: req.Name}, nil
	}}
	h := NewSubjectHandler(uc, newValidator())

	rec := serve(h.CreateSubject, http.MethodPost, "/api/v1/admin/subjects", `{"name":"牙科"}`, nil)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = serve(h.CreateSubject, http.MethodPost, "/api/v1/admin/subjects", `{"name":"內科"}`, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = serve(h.CreateSubject, http.MethodPost, "/api/v1/admin/subjects", `{"name":"`+strings.Repeat("x", 101)+`"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(h.CreateSubject, http.MethodPost, "/api/v1/admin/subjects", `{"name":"   "}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, string(decodeEnvelope(t, rec).Error), `"name"`)
}

func TestGetAllSubjects(t *testing.T) {
	uc := &fakeSubjectUsecase{list: func() (*dto.SubjectListResponse, error) {
		return &dto.SubjectListResponse{Subjects: []dto.SubjectResponse{{ID: 1, Name: "眼科"}}, Total: 1}, nil
	}}
	h := NewSubjectHandler(uc, newValidator())

	rec := serve(h.GetAllSubjects, http.MethodGet, "/api/v1/subjects", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(decodeEnvelope(t, rec).Data), "眼科")
}

func TestGetSubject_NotFound(t *testing.T) {
	uc := &fakeSubjectUsecase{get: func(int64) (*dto.SubjectResponse, error) {
		return nil, usecase.ErrSubjectNotFound
	}}
	h := NewSubjectHandler(uc, newValidator())

	rec := serve(h.GetSubject, http.MethodGet, "/api/v1/subjects/4", "", map[string]string{"id": "4"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateSubject(t *testing.T) {
	uc := &fakeSubjectUsecase{update: func(id int64, req *dto.UpdateSubjectRequest) (*dto.SubjectResponse, error) {
		if id == 2 {
			return nil, usecase.ErrSubjectNameExists
		}
		return &dto.SubjectResponse{ID: id, Name: req.Name}, nil
	}}
	h := NewSubjectHandler(uc, newValidator())

	rec := serve(h.UpdateSubject, http.MethodPut, "/api/v1/admin/subjects/1", `{"name":"皮膚科"}`, map[string]string{"id": "1"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(h.UpdateSubject, http.MethodPut, "/api/v1/admin/subjects/2", `{"name":"皮膚科"}`, map[string]string{"id": "2"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = serve(h.UpdateSubject, http.MethodPut, "/api/v1/admin/subjects/1", `{"name":""}`, map[string]string{"id": "1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteSubject_InUse(t *testing.T) {
	uc := &fakeSubjectUsecase{delete: func(int64) error { return usecase.ErrSubjectInUse }}
	h := NewSubjectHandler(uc, newValidator())

	rec := serve(h.DeleteSubject, http.MethodDelete, "/api/v1/admin/subjects/1", "", map[string]string{"id": "1"})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Subject is linked to listings", decodeEnvelope(t, rec).Message)
}
