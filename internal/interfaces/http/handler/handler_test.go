package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erp/payroll/internal/application/assistant"
	payrollapp "github.com/erp/payroll/internal/application/payroll"
	"github.com/erp/payroll/internal/domain/payroll"
	"github.com/erp/payroll/internal/infrastructure/auth"
	"github.com/erp/payroll/internal/infrastructure/export"
	"github.com/erp/payroll/internal/infrastructure/persistence"
	"github.com/erp/payroll/internal/infrastructure/persistence/models"
	"github.com/erp/payroll/internal/interfaces/http/dto"
	"github.com/erp/payroll/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var allPermissions = []string{
	payroll.PermissionViewPayslip,
	payroll.PermissionAddPayslip,
	payroll.PermissionChangePayslip,
	payroll.PermissionDeletePayslip,
	payroll.PermissionManageSettings,
}

type testEnv struct {
	engine   *gin.Engine
	service  *payrollapp.PayslipService
	registry *assistant.Registry
	tenantID uuid.UUID
	userID   uuid.UUID
	perms    []string
}

// newTestEnv wires the handlers to a sqlite backed service. Authentication is
// simulated by setting claims directly; the tenant comes from X-Tenant-ID
// through the real tenant middleware.
func newTestEnv(t *testing.T) *testEnv {
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
	svc.RegisterExportEncoder(export.NewCSVEncoder("payslips"))
	svc.RegisterExportEncoder(export.NewExcelEncoder("payslips", "Payslips"))

	registry := assistant.NewRegistry()
	require.NoError(t, assistant.RegisterPayrollTools(registry, svc))

	env := &testEnv{
		service:  svc,
		registry: registry,
		tenantID: uuid.New(),
		userID:   uuid.New(),
		perms:    allPermissions,
	}

	payslips := NewPayslipHandler(svc, log)
	module := NewModuleHandler(svc, log)
	tools := NewAssistantHandler(registry, log)

	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(env.fakeAuth(), middleware.TenantMiddleware(log))
	api.GET("/payroll/dashboard", module.Dashboard)
	api.GET("/payroll/module", module.Module)
	api.GET("/payroll/settings", module.Settings)
	api.GET("/payroll/payslips", payslips.List)
	api.GET("/payroll/payslips/all", payslips.ListAll)
	api.GET("/payroll/payslips/:id", payslips.GetByID)
	api.GET("/payroll/payslips/:id/print", payslips.Print)
	api.POST("/payroll/payslips", payslips.Create)
	api.PUT("/payroll/payslips/:id", payslips.Update)
	api.POST("/payroll/payslips/:id/transition", payslips.Transition)
	api.DELETE("/payroll/payslips/:id", payslips.Delete)
	api.POST("/payroll/payslips/bulk", payslips.Bulk)
	api.GET("/payroll/summary", payslips.Summary)
	api.GET("/payroll/assistant/tools", tools.ListTools)
	api.POST("/payroll/assistant/tools/:name", tools.InvokeTool)
	env.engine = r
	return env
}

func (e *testEnv) fakeAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.JWTClaimsKey, &auth.Claims{
			UserID:      e.userID.String(),
			Permissions: e.perms,
		})
		c.Set(middleware.JWTUserIDKey, e.userID.String())
		c.Next()
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return e.doAs(t, e.tenantID, method, path, body)
}

func (e *testEnv) doAs(t *testing.T, tenantID uuid.UUID, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	req.Header.Set("Content-Type", "application/json")
	if tenantID != uuid.Nil {
		req.Header.Set(middleware.TenantHeaderKey, tenantID.String())
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

// envelope mirrors dto.Response with the data left raw for typed decoding
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details []struct {
			Field string `json:"field"`
			Tag   string `json:"tag"`
		} `json:"details"`
	} `json:"error"`
	Meta *dto.Meta `json:"meta"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func validPayslipBody(name, gross, deductions string) map[string]any {
	return map[string]any{
		"employee_id":   "E-" + name,
		"employee_name": name,
		"period_start":  "2024-01-01",
		"period_end":    "2024-01-31",
		"gross_salary":  gross,
		"deductions":    deductions,
	}
}

func (e *testEnv) createPayslip(t *testing.T, name, gross, deductions string) payrollapp.PayslipResponse {
	t.Helper()
	w := e.do(t, http.MethodPost, "/payroll/payslips", validPayslipBody(name, gross, deductions))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var p payrollapp.PayslipResponse
	decode(t, w, &p)
	return p
}
