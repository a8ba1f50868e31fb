package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"clinic-directory/config"
	"clinic-directory/internal/delivery/dto"
	"clinic-directory/internal/delivery/http/handler"
	"clinic-directory/internal/delivery/http/middleware"
	"clinic-directory/internal/delivery/http/web"
	"clinic-directory/internal/domain/entity"
	"clinic-directory/internal/infrastructure/metrics"
	"clinic-directory/internal/usecase"
	"clinic-directory/pkg/jwt"
	"clinic-directory/pkg/validator"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubListings serves one published and one draft listing.
type stubListings struct {
	usecase.ListingUsecase
}

func (stubListings) GetListing(ctx context.Context, id int64) (*dto.ListingResponse, error) {
	switch id {
	case 1:
		return &dto.ListingResponse{ID: 1, Title: "陽光診所", IsPublished: true}, nil
	case 2:
		return &dto.ListingResponse{ID: 2, Title: "草稿診所", IsPublished: false}, nil
	}
	return nil, usecase.ErrListingNotFound
}

// stubDoctors answers every read with a single doctor and echoes creates.
type stubDoctors struct {
	usecase.DoctorUsecase
}

func (stubDoctors) GetAllDoctors(ctx context.Context) (*dto.DoctorListResponse, error) {
	return &dto.DoctorListResponse{Doctors: []dto.DoctorResponse{{ID: 1, Name: "陳大明"}}, Total: 1}, nil
}

func (stubDoctors) CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	return &dto.DoctorResponse{ID: 2, Name: req.Name, Email: req.Email}, nil
}

func newTestRouter(t *testing.T, jwtService *jwt.JWTService) *mux.Router {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	renderer, err := web.NewRenderer()
	require.NoError(t, err)

	v := validator.NewValidator()
	doctors := stubDoctors{}
	r := NewRouter(
		handler.NewDoctorHandler(doctors, v),
		handler.NewSubjectHandler(nil, v),
		handler.NewListingHandler(stubListings{}, v),
		handler.NewAuditLogHandler(nil, v),
		handler.NewPageHandler(nil, doctors, renderer, log),
		middleware.NewAuthMiddleware(jwtService, nil),
		middleware.NewCORSMiddleware(""),
		middleware.NewObserveMiddleware(log),
		middleware.NewRateLimitMiddleware(0, 0),
	)
	return r.Setup()
}

func testJWT() *jwt.JWTService {
	return jwt.NewJWTService(config.JWTConfig{Secret: "router-secret", AccessExpiry: time.Hour})
}

func do(router http.Handler, method, target, body, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(t, testJWT())

	rec := do(router, http.MethodGet, "/api/v1/health", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestPublicDoctorsRoute(t *testing.T) {
	router := newTestRouter(t, testJWT())

	rec := do(router, http.MethodGet, "/api/v1/doctors", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "陳大明")
}

func TestAdminRoutesRequireAdminToken(t *testing.T) {
	svc := testJWT()
	router := newTestRouter(t, svc)
	body := `{"name":"林小華","email":"lin@example.com"}`

	rec := do(router, http.MethodPost, "/api/v1/admin/doctors", body, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	viewer, _, err := svc.GenerateAccessToken("viewer@example.com", entity.RoleViewer)
	require.NoError(t, err)
	rec = do(router, http.MethodPost, "/api/v1/admin/doctors", body, viewer)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin, _, err := svc.GenerateAccessToken("ops@example.com", entity.RoleAdmin)
	require.NoError(t, err)
	rec = do(router, http.MethodPost, "/api/v1/admin/doctors", body, admin)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "lin@example.com")
}

func TestMutationsAreNotPublic(t *testing.T) {
	router := newTestRouter(t, testJWT())

	rec := do(router, http.MethodPost, "/api/v1/doctors", `{}`, "")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestUnknownPathRendersNotFoundPage(t *testing.T) {
	router := newTestRouter(t, testJWT())

	rec := do(router, http.MethodGet, "/no/such/page", "", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "找不到頁面")
}

func TestUnknownPathIsObserved(t *testing.T) {
	router := newTestRouter(t, testJWT())
	counter := metrics.HTTPRequests.WithLabelValues("unmatched", http.MethodGet, "404")
	before := testutil.ToFloat64(counter)

	rec := do(router, http.MethodGet, "/missing/route", "", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestDraftListingOnlyVisibleToAdmin(t *testing.T) {
	svc := testJWT()
	router := newTestRouter(t, svc)

	rec := do(router, http.MethodGet, "/api/v1/listings/1", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(router, http.MethodGet, "/api/v1/listings/2", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(router, http.MethodGet, "/api/v1/admin/listings/2", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	admin, _, err := svc.GenerateAccessToken("ops@example.com", entity.RoleAdmin)
	require.NoError(t, err)
	rec = do(router, http.MethodGet, "/api/v1/admin/listings/2", "", admin)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "草稿診所")
}

func TestAboutPageRoute(t *testing.T) {
	router := newTestRouter(t, testJWT())

	rec := do(router, http.MethodGet, "/about", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}
