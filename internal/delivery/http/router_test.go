package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hospital-admin/config"
	"hospital-admin/internal/delivery/http/handler"
	"hospital-admin/internal/delivery/http/middleware"
	"hospital-admin/internal/engine"
	"hospital-admin/internal/infrastructure/metrics"
	"hospital-admin/pkg/jwt"
	"hospital-admin/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type allowAllSessions struct{}

func (allowAllSessions) IsAccessActive(context.Context, uuid.UUID, string) (bool, error) {
	return true, nil
}

// setupRouter wires real middleware around handlers whose usecases are never reached
func setupRouter(t *testing.T) (*mux.Router, *jwt.JWTService) {
	t.Helper()
	registry, err := engine.NewRegistry(engine.DefaultTable())
	require.NoError(t, err)
	eng := engine.New(registry)

	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "router-secret", AccessExpiry: time.Minute, RefreshExpiry: time.Hour})
	v := validator.NewValidator()

	r := NewRouter(
		eng,
		metrics.New(prometheus.NewRegistry()),
		"/metrics",
		handler.NewAuthHandler(nil, v, jwtService),
		handler.NewPatientRecordHandler(nil, v),
		handler.NewLeaveRequestHandler(nil, v),
		middleware.NewAuthMiddleware(jwtService, allowAllSessions{}),
		middleware.NewCORSMiddleware(),
	)
	return r.Setup(), jwtService
}

func TestHealthAndMetrics(t *testing.T) {
	router, _ := setupRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hospital_http_requests_total")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router, _ := setupRouter(t)

	for _, path := range []string{"/api/v1/patients", "/api/v1/leave-requests", "/api/v1/auth/me"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestAccountManagementIsAdministratorOnly(t *testing.T) {
	router, jwtService := setupRouter(t)

	token, _, err := jwtService.GenerateAccessToken(uuid.New(), "nurse@hospital.test", "nurse")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/users/"+uuid.NewString()+"/deactivate", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
