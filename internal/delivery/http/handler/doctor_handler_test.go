package handler

import (
	"errors"
	"net/http"
	"testing"

	"clinic-directory/internal/delivery/dto"
	"clinic-directory/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDoctor(t *testing.T) {
	var got *dto.CreateDoctorRequest
	uc := &fakeDoctorUsecase{create: func(req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
		got = req
		return &dto.DoctorResponse{ID: 1, Name: req.Name, Email: req.Email}, nil
	}}
	h := NewDoctorHandler(uc, newValidator())

	rec := serve(h.CreateDoctor, http.MethodPost, "/api/v1/admin/doctors", `{"name":"陳大明","email":"chen@example.com","is_mvp":true}`, nil)

	assert.Equal(t, http.StatusCreated, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	assert.Equal(t, "Doctor created successfully", env.Message)
	require.NotNil(t, got)
	assert.True(t, got.IsMVP)
}

func TestCreateDoctor_Validation(t *testing.T) {
	h := NewDoctorHandler(&fakeDoctorUsecase{}, newValidator())

	rec := serve(h.CreateDoctor, http.MethodPost, "/api/v1/admin/doctors", `{"name":"陳大明","email":"not-an-email"}`, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "Validation failed", env.Message)
	assert.Contains(t, string(env.Error), "email")
}

func TestCreateDoctor_InvalidBody(t *testing.T) {
	h := NewDoctorHandler(&fakeDoctorUsecase{}, newValidator())

	rec := serve(h.CreateDoctor, http.MethodPost, "/api/v1/admin/doctors", `{`, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", decodeEnvelope(t, rec).Message)
}

func TestCreateDoctor_EmailExists(t *testing.T) {
	uc := &fakeDoctorUsecase{create: func(*dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
		return nil, usecase.ErrDoctorEmailExists
	}}
	h := NewDoctorHandler(uc, newValidator())

	rec := serve(h.CreateDoctor, http.MethodPost, "/api/v1/admin/doctors", `{"name":"陳大明","email":"chen@example.com"}`, nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetDoctor(t *testing.T) {
	uc := &fakeDoctorUsecase{get: func(id int64) (*dto.DoctorResponse, error) {
		if id == 5 {
			return &dto.DoctorResponse{ID: 5, Name: "林醫師"}, nil
		}
		return nil, usecase.ErrDoctorNotFound
	}}
	h := NewDoctorHandler(uc, newValidator())

	rec := serve(h.GetDoctor, http.MethodGet, "/api/v1/doctors/5", "", map[string]string{"id": "5"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(decodeEnvelope(t, rec).Data), "林醫師")

	rec = serve(h.GetDoctor, http.MethodGet, "/api/v1/doctors/6", "", map[string]string{"id": "6"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(h.GetDoctor, http.MethodGet, "/api/v1/doctors/abc", "", map[string]string{"id": "abc"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(h.GetDoctor, http.MethodGet, "/api/v1/doctors/0", "", map[string]string{"id": "0"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetAllDoctors_Error(t *testing.T) {
	uc := &fakeDoctorUsecase{list: func() (*dto.DoctorListResponse, error) {
		return nil, errors.New("boom")
	}}
	h := NewDoctorHandler(uc, newValidator())

	rec := serve(h.GetAllDoctors, http.MethodGet, "/api/v1/doctors", "", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to get doctors", decodeEnvelope(t, rec).Message)
}

func TestUpdateDoctor(t *testing.T) {
	uc := &fakeDoctorUsecase{update: func(id int64, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
		switch id {
		case 1:
			return &dto.DoctorResponse{ID: 1, Phone: req.Phone}, nil
		case 2:
			return nil, usecase.ErrDoctorEmailExists
		default:
			return nil, usecase.ErrDoctorNotFound
		}
	}}
	h := NewDoctorHandler(uc, newValidator())

	rec := serve(h.UpdateDoctor, http.MethodPut, "/api/v1/admin/doctors/1", `{"phone":"02-1234"}`, map[string]string{"id": "1"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(decodeEnvelope(t, rec).Data), "02-1234")

	rec = serve(h.UpdateDoctor, http.MethodPut, "/api/v1/admin/doctors/2", `{"email":"taken@example.com"}`, map[string]string{"id": "2"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = serve(h.UpdateDoctor, http.MethodPut, "/api/v1/admin/doctors/3", `{}`, map[string]string{"id": "3"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteDoctor(t *testing.T) {
	uc := &fakeDoctorUsecase{delete: func(id int64) error {
		switch id {
		case 1:
			return nil
		case 2:
			return usecase.ErrDoctorHasListings
		default:
			return usecase.ErrDoctorNotFound
		}
	}}
	h := NewDoctorHandler(uc, newValidator())

	rec := serve(h.DeleteDoctor, http.MethodDelete, "/api/v1/admin/doctors/1", "", map[string]string{"id": "1"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(h.DeleteDoctor, http.MethodDelete, "/api/v1/admin/doctors/2", "", map[string]string{"id": "2"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = serve(h.DeleteDoctor, http.MethodDelete, "/api/v1/admin/doctors/9", "", map[string]string{"id": "9"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
