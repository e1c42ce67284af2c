package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"skoleadmin/backend/config"
	"skoleadmin/backend/internal/api/handler"
	"skoleadmin/backend/internal/repository"
	"skoleadmin/backend/internal/service"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	goleak.VerifyTestMain(m)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()

	cfg := &config.Config{
		Server:    config.ServerConfig{Port: 8080, MaxBodyBytes: 1 << 20},
		Calendar:  config.CalendarConfig{Timezone: "UTC", YearsAhead: 1, SelectableLimit: 3, BoundaryPolicy: "inclusive"},
		RateLimit: config.RateLimitConfig{Requests: 100, Window: time.Minute},
	}
	clock := fixedClock{now: time.Date(2026, time.June, 1, 10, 0, 0, 0, time.UTC)}
	svc := service.NewService(cfg, &repository.Repository{}, nil, clock, zap.NewNop())

	r, err := Setup(cfg, handler.NewHandler(svc), nil, zap.NewNop())
	if err != nil {
		t.Fatalf("Setup 失败: %v", err)
	}
	return r
}

func TestSetup_Health(t *testing.T) {
	r := setupRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("响应应带 X-Request-ID")
	}
}

func TestSetup_ModulperiodeRoutes(t *testing.T) {
	r := setupRouter(t)

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/api/v1/modulperioder", http.StatusOK},
		{"/api/v1/modulperioder/options", http.StatusOK},
		{"/api/v1/modulperioder/current", http.StatusOK},
		{"/api/v1/modulperioder/calendar.ics", http.StatusOK},
		{"/api/v1/modulperioder/26-1-M3", http.StatusOK},
		{"/api/v1/modulperioder/26-3-M1", http.StatusBadRequest},
		{"/api/v1/modulperioder/25-2-M3/validate", http.StatusOK},
		{"/api/v1/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest("GET", tt.path, nil))
			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestSetup_ValidationRegistered(t *testing.T) {
	r := setupRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/classes?modulperiode=26-9-M1", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("非法模块期应在绑定阶段被拒绝，got %d", w.Code)
	}
}
