package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/erp/payroll/internal/application/assistant"
	payrollapp "github.com/erp/payroll/internal/application/payroll"
	"github.com/erp/payroll/internal/domain/payroll"
	"github.com/erp/payroll/internal/infrastructure/auth"
	"github.com/erp/payroll/internal/infrastructure/config"
	"github.com/erp/payroll/internal/infrastructure/persistence"
	"github.com/erp/payroll/internal/infrastructure/persistence/models"
	"github.com/erp/payroll/internal/interfaces/http/dto"
	"github.com/erp/payroll/internal/interfaces/http/handler"
	"github.com/erp/payroll/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type engineEnv struct {
	engine    *gin.Engine
	jwt       *auth.JWTService
	blacklist *revokedTokens
}

// revokedTokens is a blacklist holding the JTIs revoked by a test
type revokedTokens struct {
	mu   sync.Mutex
	jtis map[string]bool
}

func (r *revokedTokens) revoke(jti string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jtis[jti] = true
}

func (r *revokedTokens) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.jtis[jti], nil
}

func (r *revokedTokens) IsUserTokenInvalidated(context.Context, string, time.Time) (bool, error) {
	return false, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "payroll", Env: "test"},
		JWT: config.JWTConfig{
			Secret:                "router-test-secret-at-least-32-chars",
			Issuer:                "erp-backend",
			AccessTokenExpiration: 15 * time.Minute,
		},
		HTTP: config.HTTPConfig{
			MaxBodySize:      1 << 20,
			RequestTimeout:   5 * time.Second,
			CORSAllowOrigins: []string{"https://erp.example.com"},
		},
		Swagger:   config.SwaggerConfig{Enabled: false},
		Telemetry: config.TelemetryConfig{ServiceName: "payroll"},
	}
}

func newEngineEnv(t *testing.T, cfg *config.Config) *engineEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&models.PayslipModel{}))

	log := zap.NewNop()
	svc := payrollapp.NewPayslipService(persistence.NewGormPayslipRepository(db), log)
	registry := assistant.NewRegistry()
	require.NoError(t, assistant.RegisterPayrollTools(registry, svc))

	jwtService := auth.NewJWTService(cfg.JWT)
	blacklist := &revokedTokens{jtis: map[string]bool{}}
	rateLimiter := middleware.NewRateLimiter(1000, time.Minute)
	t.Cleanup(rateLimiter.Stop)

	engine := NewEngine(EngineDeps{
		Config:         cfg,
		Logger:         log,
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		RateLimiter:    rateLimiter,
		System:         handler.NewSystemHandler(nil, "test", log),
		Payroll: PayrollHandlers{
			Payslips:  handler.NewPayslipHandler(svc, log),
			Module:    handler.NewModuleHandler(svc, log),
			Assistant: handler.NewAssistantHandler(registry, log),
		},
	})
	return &engineEnv{engine: engine, jwt: jwtService, blacklist: blacklist}
}

func (e *engineEnv) token(t *testing.T, tenantID uuid.UUID, perms ...string) string {
	t.Helper()
	token, _, err := e.jwt.GenerateAccessToken(auth.GenerateTokenInput{
		TenantID:    tenantID,
		UserID:      uuid.New(),
		Username:    "clerk",
		Permissions: perms,
	})
	require.NoError(t, err)
	return token
}

func (e *engineEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) *dto.ErrorInfo {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error, "body: %s", w.Body.String())
	return resp.Error
}

func TestEngine_HealthIsPublic(t *testing.T) {
	env := newEngineEnv(t, testConfig())

	w := env.do(http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

func TestEngine_SwaggerDisabled(t *testing.T) {
	env := newEngineEnv(t, testConfig())

	w := env.do(http.MethodGet, "/swagger/index.html", "", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEngine_RequiresToken(t *testing.T) {
	env := newEngineEnv(t, testConfig())

	w := env.do(http.MethodGet, "/api/v1/payroll/payslips", "", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeTokenInvalid, decodeError(t, w).Code)
}

func TestEngine_RequiresTenant(t *testing.T) {
	env := newEngineEnv(t, testConfig())
	token := env.token(t, uuid.Nil, payroll.PermissionViewPayslip)

	w := env.do(http.MethodGet, "/api/v1/payroll/payslips", token, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeTenantRequired, decodeError(t, w).Code)
}

func TestEngine_TenantFromHeader(t *testing.T) {
	env := newEngineEnv(t, testConfig())
	token := env.token(t, uuid.Nil, payroll.PermissionViewPayslip)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payroll/payslips", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(middleware.TenantHeaderKey, uuid.NewString())
	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Limit"))
}

func TestEngine_PermissionPerRoute(t *testing.T) {
	env := newEngineEnv(t, testConfig())
	tenantID := uuid.New()
	viewer := env.token(t, tenantID, payroll.PermissionViewPayslip)

	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/v1/payroll/payslips", viewer, nil).Code)
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/v1/payroll/dashboard", viewer, nil).Code)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/payroll/payslips"},
		{http.MethodPost, "/api/v1/payroll/payslips/bulk"},
		{http.MethodPut, "/api/v1/payroll/payslips/" + uuid.NewString()},
		{http.MethodDelete, "/api/v1/payroll/payslips/" + uuid.NewString()},
		{http.MethodGet, "/api/v1/payroll/payslips/all"},
		{http.MethodGet, "/api/v1/payroll/settings"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := env.do(tt.method, tt.path, viewer, map[string]any{})

			assert.Equal(t, http.StatusForbidden, w.Code)
			assert.Equal(t, dto.ErrCodeForbidden, decodeError(t, w).Code)
		})
	}
}

func TestEngine_CreateAndFetch(t *testing.T) {
	env := newEngineEnv(t, testConfig())
	tenantID := uuid.New()
	token := env.token(t, tenantID,
		payroll.PermissionViewPayslip,
		payroll.PermissionAddPayslip,
	)

	w := env.do(http.MethodPost, "/api/v1/payroll/payslips", token, map[string]any{
		"employee_id":   "E-1",
		"employee_name": "Ana Garcia",
		"period_start":  "2026-01-01",
		"period_end":    "2026-01-31",
		"gross_salary":  "2500.00",
		"deductions":    "400.00",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Data struct {
			ID        string `json:"id"`
			NetSalary string `json:"net_salary"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "2100.00", created.Data.NetSalary)

	w = env.do(http.MethodGet, "/api/v1/payroll/payslips/"+created.Data.ID, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	other := env.token(t, uuid.New(), payroll.PermissionViewPayslip)
	w = env.do(http.MethodGet, "/api/v1/payroll/payslips/"+created.Data.ID, other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEngine_RevokedToken(t *testing.T) {
	env := newEngineEnv(t, testConfig())
	token := env.token(t, uuid.New(), payroll.PermissionViewPayslip)
	claims, err := env.jwt.ValidateAccessToken(token)
	require.NoError(t, err)
	env.blacklist.revoke(claims.ID)

	w := env.do(http.MethodGet, "/api/v1/payroll/payslips", token, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeTokenRevoked, decodeError(t, w).Code)
}

func TestEngine_CORSPreflight(t *testing.T) {
	env := newEngineEnv(t, testConfig())

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/payroll/payslips", nil)
	req.Header.Set("Origin", "https://erp.example.com")
	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://erp.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestEngine_SystemInfoRequiresAuth(t *testing.T) {
	env := newEngineEnv(t, testConfig())

	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/api/v1/system/info", "", nil).Code)

	token := env.token(t, uuid.New())
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/v1/system/info", token, nil).Code)
}
