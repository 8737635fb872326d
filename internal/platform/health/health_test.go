package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Apurer/go-inventory-service/internal/shared/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := serve(t, NewRouter("test", nil), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestReadyz_AllChecksPass(t *testing.T) {
	router := NewRouter("test", map[string]Check{
		"postgres": func(context.Context) error { return nil },
		"temporal": nil,
	})
	rec := serve(t, router, "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready"}`, rec.Body.String())
}

func TestReadyz_FailingCheckReturnsProblem(t *testing.T) {
	router := NewRouter("test", map[string]Check{
		"postgres": func(context.Context) error { return errors.New("connection refused") },
		"cache":    func(context.Context) error { return nil },
	})
	rec := serve(t, router, "/readyz")

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, apperrors.ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	var problem apperrors.ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, apperrors.TypeUnavailable, problem.Type)
	assert.Equal(t, "/readyz", problem.Instance)
	checks, ok := problem.Extensions["checks"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "connection refused", checks["postgres"])
	assert.NotContains(t, checks, "cache")
}

func TestNewServer(t *testing.T) {
	srv := NewServer(":0", "test", nil)
	assert.Equal(t, ":0", srv.Addr)
	require.NotNil(t, srv.Handler)
}

func TestUnknownRouteReturnsNotFoundProblem(t *testing.T) {
	rec := serve(t, NewRouter("test", nil), "/metrics")

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apperrors.ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	var problem apperrors.ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, apperrors.TypeNotFound, problem.Type)
	assert.Equal(t, "route /metrics not found", problem.Detail)
	assert.Equal(t, "/metrics", problem.Instance)
}

func TestPanicReturnsInternalProblem(t *testing.T) {
	router := NewRouter("test", nil)
	router.GET("/boom", func(*gin.Context) { panic("kaput") })
	rec := serve(t, router, "/boom")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var problem apperrors.ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, apperrors.TypeInternal, problem.Type)
	assert.Contains(t, problem.Detail, "kaput")
}
