package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryExposesDirectoryMetrics(t *testing.T) {
	reg := NewRegistry()

	ObserveHTTP("/listings", http.MethodGet, http.StatusOK, 12*time.Millisecond)
	ObserveCache("listings", "miss")
	ObserveImport("csv", "doctor", "created", 2)
	ObserveImport("csv", "doctor", "skipped", 0)

	rr := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	assert.True(t, strings.Contains(out, "clinic_http_requests_total"))
	assert.True(t, strings.Contains(out, `clinic_import_rows_total{entity="doctor",outcome="created",source="csv"}`))
	assert.False(t, strings.Contains(out, `outcome="skipped"`))
}
