package handler

import (
	"net/http"
	"testing"

	"clinic-directory/internal/delivery/dto"
	"clinic-directory/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAllAuditLogs_Pagination(t *testing.T) {
	var got *dto.AuditLogListRequest
	uc := &fakeAuditLogUsecase{list: func(req *dto.AuditLogListRequest) (*dto.AuditLogListResponse, error) {
		got = req
		return &dto.AuditLogListResponse{Logs: []dto.AuditLogResponse{{ID: 1, Action: "doctor.create"}}, Total: 45}, nil
	}}
	h := NewAuditLogHandler(uc, newValidator())

	rec := serve(h.GetAllAuditLogs, http.MethodGet, "/api/v1/admin/audit-logs?page=2&limit=10&actor=cli&action=data.seed", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, dto.AuditLogListRequest{Page: 2, Limit: 10, Actor: "cli", Action: "data.seed"}, *got)
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(45), env.Meta.Total)
	assert.Equal(t, 5, env.Meta.TotalPages)
}

func TestGetAllAuditLogs_Defaults(t *testing.T) {
	var got *dto.AuditLogListRequest
	uc := &fakeAuditLogUsecase{list: func(req *dto.AuditLogListRequest) (*dto.AuditLogListResponse, error) {
		got = req
		return &dto.AuditLogListResponse{}, nil
	}}
	h := NewAuditLogHandler(uc, newValidator())

	serve(h.GetAllAuditLogs, http.MethodGet, "/api/v1/admin/audit-logs", "", nil)

	require.NotNil(t, got)
	assert.Equal(t, 1, got.Page)
	assert.Equal(t, 20, got.Limit)
}

func TestGetAllAuditLogs_InvalidQuery(t *testing.T) {
	h := NewAuditLogHandler(&fakeAuditLogUsecase{}, newValidator())

	rec := serve(h.GetAllAuditLogs, http.MethodGet, "/api/v1/admin/audit-logs?limit=1000", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(h.GetAllAuditLogs, http.MethodGet, "/api/v1/admin/audit-logs?page=0", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetAuditLog_NotFound(t *testing.T) {
	uc := &fakeAuditLogUsecase{get: func(int64) (*dto.AuditLogResponse, error) {
		return nil, usecase.ErrAuditLogNotFound
	}}
	h := NewAuditLogHandler(uc, newValidator())

	rec := serve(h.GetAuditLog, http.MethodGet, "/api/v1/admin/audit-logs/3", "", map[string]string{"id": "3"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
