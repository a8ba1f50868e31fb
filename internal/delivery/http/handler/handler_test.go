package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"clinic-directory/internal/delivery/dto"
	"clinic-directory/internal/delivery/http/web"
	"clinic-directory/pkg/validator"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
	Meta    *struct {
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		Total      int64 `json:"total"`
		TotalPages int   `json:"total_pages"`
	} `json:"meta"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

// serve runs h against a request with the given mux route vars.
func serve(h http.HandlerFunc, method, target, body string, vars map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func newValidator() *validator.CustomValidator {
	return validator.NewValidator()
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newRenderer(t *testing.T) *web.Renderer {
	t.Helper()
	r, err := web.NewRenderer()
	require.NoError(t, err)
	return r
}

type fakeDoctorUsecase struct {
	create func(req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	get    func(id int64) (*dto.DoctorResponse, error)
	list   func() (*dto.DoctorListResponse, error)
	update func(id int64, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error)
	delete func(id int64) error
}

func (f *fakeDoctorUsecase) CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	return f.create(req)
}

func (f *fakeDoctorUsecase) GetDoctor(ctx context.Context, id int64) (*dto.DoctorResponse, error) {
	return f.get(id)
}

func (f *fakeDoctorUsecase) GetAllDoctors(ctx context.Context) (*dto.DoctorListResponse, error) {
	return f.list()
}

func (f *fakeDoctorUsecase) UpdateDoctor(ctx context.Context, id int64, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	return f.update(id, req)
}

func (f *fakeDoctorUsecase) DeleteDoctor(ctx context.Context, id int64) error {
	return f.delete(id)
}

type fakeSubjectUsecase struct {
	create func(req *dto.CreateSubjectRequest) (*dto.SubjectResponse, error)
	get    func(id int64) (*dto.SubjectResponse, error)
	list   func() (*dto.SubjectListResponse, error)
	update func(id int64, req *dto.UpdateSubjectRequest) (*dto.SubjectResponse, error)
	delete func(id int64) error
}

func (f *fakeSubjectUsecase) CreateSubject(ctx context.Context, req *dto.CreateSubjectRequest) (*dto.SubjectResponse, error) {
	return f.create(req)
}

func (f *fakeSubjectUsecase) GetSubject(ctx context.Context, id int64) (*dto.SubjectResponse, error) {
	return f.get(id)
}

func (f *fakeSubjectUsecase) GetAllSubjects(ctx context.Context) (*dto.SubjectListResponse, error) {
	return f.list()
}

func (f *fakeSubjectUsecase) UpdateSubject(ctx context.Context, id int64, req *dto.UpdateSubjectRequest) (*dto.SubjectResponse, error) {
	return f.update(id, req)
}

func (f *fakeSubjectUsecase) DeleteSubject(ctx context.Context, id int64) error {
	return f.delete(id)
}

type fakeListingUsecase struct {
	create func(req *dto.CreateListingRequest) (*dto.ListingResponse, error)
	get    func(id int64) (*dto.ListingResponse, error)
	list   func(publishedOnly bool, limit int) (*dto.ListingListResponse, error)
	update func(id int64, req *dto.UpdateListingRequest) (*dto.ListingResponse, error)
	delete func(id int64) error
}

func (f *fakeListingUsecase) CreateListing(ctx context.Context, req *dto.CreateListingRequest) (*dto.ListingResponse, error) {
	return f.create(req)
}

func (f *fakeListingUsecase) GetListing(ctx context.Context, id int64) (*dto.ListingResponse, error) {
	return f.get(id)
}

func (f *fakeListingUsecase) GetAllListings(ctx context.Context, publishedOnly bool, limit int) (*dto.ListingListResponse, error) {
	return f.list(publishedOnly, limit)
}

func (f *fakeListingUsecase) UpdateListing(ctx context.Context, id int64, req *dto.UpdateListingRequest) (*dto.ListingResponse, error) {
	return f.update(id, req)
}

func (f *fakeListingUsecase) DeleteListing(ctx context.Context, id int64) error {
	return f.delete(id)
}

type fakeAuditLogUsecase struct {
	list func(req *dto.AuditLogListRequest) (*dto.AuditLogListResponse, error)
	get  func(id int64) (*dto.AuditLogResponse, error)
}

func (f *fakeAuditLogUsecase) GetAllAuditLogs(ctx context.Context, req *dto.AuditLogListRequest) (*dto.AuditLogListResponse, error) {
	return f.list(req)
}

func (f *fakeAuditLogUsecase) GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error) {
	return f.get(id)
}
