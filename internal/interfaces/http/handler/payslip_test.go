package handler

import (
	"net/http"
	"strings"
	"testing"

	payrollapp "github.com/erp/payroll/internal/application/payroll"
	"github.com/erp/payroll/internal/infrastructure/printing"
	"github.com/erp/payroll/internal/interfaces/http/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayslipHandler_Create(t *testing.T) {
	env := newTestEnv(t)

	t.Run("derives net salary and records creator", func(t *testing.T) {
		body := validPayslipBody("Ana", "150.00", "25.00")
		body["net_salary"] = "999.99"

		w := env.do(t, http.MethodPost, "/payroll/payslips", body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var p payrollapp.PayslipResponse
		resp := decode(t, w, &p)
		assert.True(t, resp.Success)
		assert.Equal(t, "125.00", p.NetSalary)
		assert.Equal(t, "draft", p.Status)
		assert.Equal(t, env.tenantID, p.TenantID)
		require.NotNil(t, p.CreatedBy)
		assert.Equal(t, env.userID, *p.CreatedBy)
	})

	t.Run("missing required fields", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/payroll/payslips", map[string]any{"employee_name": "Ana"})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		resp := decode(t, w, nil)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.NotEmpty(t, resp.Error.Details)
	})

	t.Run("deductions above gross", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/payroll/payslips", validPayslipBody("Bob", "100.00", "100.01"))
		assert.Equal(t, http.StatusBadRequest, w.Code)

		resp := decode(t, w, nil)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Equal(t, "Deductions cannot exceed gross salary", resp.Error.Message)
	})

	t.Run("empty gross salary is zero", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/payroll/payslips", validPayslipBody("Cleo", "", ""))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var p payrollapp.PayslipResponse
		decode(t, w, &p)
		assert.Equal(t, "0.00", p.GrossSalary)
		assert.Equal(t, "0.00", p.NetSalary)
	})

	t.Run("omitted gross salary is zero", func(t *testing.T) {
		body := validPayslipBody("Dan", "", "")
		delete(body, "gross_salary")
		delete(body, "deductions")

		w := env.do(t, http.MethodPost, "/payroll/payslips", body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var p payrollapp.PayslipResponse
		decode(t, w, &p)
		assert.Equal(t, "0.00", p.GrossSalary)
	})

	t.Run("malformed money", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/payroll/payslips", validPayslipBody("Bob", "12.345", "0"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPayslipHandler_RequiresTenant(t *testing.T) {
	env := newTestEnv(t)

	w := env.doAs(t, uuid.Nil, http.MethodGet, "/payroll/payslips", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	resp := decode(t, w, nil)
	assert.False(t, resp.Success)
	assert.Equal(t, dto.ErrCodeTenantRequired, resp.Error.Code)
}

func TestPayslipHandler_TenantIsolation(t *testing.T) {
	env := newTestEnv(t)
	p := env.createPayslip(t, "Ana", "100.00", "10.00")
	other := uuid.New()

	w := env.doAs(t, other, http.MethodGet, "/payroll/payslips/"+p.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrCodeNotFound, decode(t, w, nil).Error.Code)

	w = env.doAs(t, other, http.MethodGet, "/payroll/payslips", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []payrollapp.PayslipResponse
	resp := decode(t, w, &items)
	assert.Empty(t, items)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(0), resp.Meta.Total)

	w = env.doAs(t, other, http.MethodDelete, "/payroll/payslips/"+p.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPayslipHandler_GetByID(t *testing.T) {
	env := newTestEnv(t)
	p := env.createPayslip(t, "Ana", "100.00", "10.00")

	w := env.do(t, http.MethodGet, "/payroll/payslips/"+p.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got payrollapp.PayslipResponse
	decode(t, w, &got)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, "90.00", got.NetSalary)

	w = env.do(t, http.MethodGet, "/payroll/payslips/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeBadRequest, decode(t, w, nil).Error.Code)
}

func TestPayslipHandler_List(t *testing.T) {
	env := newTestEnv(t)
	env.createPayslip(t, "Carla", "300.00", "30.00")
	env.createPayslip(t, "Ana", "100.00", "10.00")
	env.createPayslip(t, "Bruno", "200.00", "20.00")

	t.Run("sort and search", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/payroll/payslips?sort=employee_name&dir=desc", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var items []payrollapp.PayslipResponse
		resp := decode(t, w, &items)
		require.Len(t, items, 3)
		assert.Equal(t, "Carla", items[0].EmployeeName)
		assert.Equal(t, "Ana", items[2].EmployeeName)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(3), resp.Meta.Total)
		assert.Equal(t, 1, resp.Meta.TotalPages)

		w = env.do(t, http.MethodGet, "/payroll/payslips?search=BRU", nil)
		items = nil
		decode(t, w, &items)
		require.Len(t, items, 1)
		assert.Equal(t, "Bruno", items[0].EmployeeName)
	})

	t.Run("invalid paging is normalized", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/payroll/payslips?per_page=37&page=abc&sort=bogus", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var items []payrollapp.PayslipResponse
		resp := decode(t, w, &items)
		assert.Len(t, items, 3)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, 10, resp.Meta.PageSize)
		assert.Equal(t, 1, resp.Meta.Page)
	})

	t.Run("csv export", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/payroll/payslips?export=csv&sort=employee_name", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, `attachment; filename="payslips.csv"`, w.Header().Get("Content-Disposition"))
		assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/csv"))

		lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
		require.Len(t, lines, 4)
		assert.Equal(t, "Status,Net Salary,Deductions,Gross Salary,Employee Id,Employee Name", strings.TrimSpace(lines[0]))
		assert.Contains(t, lines[1], "Ana")
	})

	t.Run("excel export", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/payroll/payslips?export=excel", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, `attachment; filename="payslips.xlsx"`, w.Header().Get("Content-Disposition"))
		assert.NotEmpty(t, w.Body.Bytes())
	})

	t.Run("unknown export format returns the listing", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/payroll/payslips?export=pdf", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "application/json"))
		assert.Empty(t, w.Header().Get("Content-Disposition"))

		var items []payrollapp.PayslipResponse
		resp := decode(t, w, &items)
		assert.Len(t, items, 3)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(3), resp.Meta.Total)
	})
}

func TestPayslipHandler_UpdateAndTransition(t *testing.T) {
	env := newTestEnv(t)
	p := env.createPayslip(t, "Ana", "100.00", "10.00")
	path := "/payroll/payslips/" + p.ID.String()

	t.Run("update re-derives net and applies status", func(t *testing.T) {
		body := validPayslipBody("Ana", "120.00", "20.00")
		body["status"] = "confirmed"
		w := env.do(t, http.MethodPut, path, body)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var got payrollapp.PayslipResponse
		decode(t, w, &got)
		assert.Equal(t, "100.00", got.NetSalary)
		assert.Equal(t, "confirmed", got.Status)
	})

	t.Run("draft is unreachable", func(t *testing.T) {
		body := validPayslipBody("Ana", "120.00", "20.00")
		body["status"] = "draft"
		w := env.do(t, http.MethodPut, path, body)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidTransition, decode(t, w, nil).Error.Code)
	})

	t.Run("pay stamps paid date", func(t *testing.T) {
		w := env.do(t, http.MethodPost, path+"/transition", map[string]string{"action": "pay"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var got payrollapp.PayslipResponse
		decode(t, w, &got)
		assert.Equal(t, "paid", got.Status)
		assert.NotNil(t, got.PaidDate)
	})

	t.Run("paid is terminal", func(t *testing.T) {
		w := env.do(t, http.MethodPost, path+"/transition", map[string]string{"action": "cancel"})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		resp := decode(t, w, nil)
		assert.Equal(t, dto.ErrCodeInvalidTransition, resp.Error.Code)
		assert.Equal(t, "Cannot cancel a paid payslip", resp.Error.Message)
	})

	t.Run("missing action", func(t *testing.T) {
		w := env.do(t, http.MethodPost, path+"/transition", map[string]string{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPayslipHandler_DeleteAndListAll(t *testing.T) {
	env := newTestEnv(t)
	p := env.createPayslip(t, "Ana", "100.00", "10.00")
	env.createPayslip(t, "Bruno", "200.00", "20.00")

	w := env.do(t, http.MethodDelete, "/payroll/payslips/"+p.ID.String(), nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, "/payroll/payslips/"+p.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/payroll/payslips", nil)
	resp := decode(t, w, nil)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(1), resp.Meta.Total)

	w = env.do(t, http.MethodGet, "/payroll/payslips/all", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all []payrollapp.AdminPayslipResponse
	resp = decode(t, w, &all)
	require.NotNil(t, resp.Meta)
	require.Equal(t, int64(2), resp.Meta.Total)

	var deleted int
	for _, item := range all {
		if item.IsDeleted {
			deleted++
			assert.Equal(t, p.ID, item.ID)
			assert.NotNil(t, item.DeletedAt)
		}
	}
	assert.Equal(t, 1, deleted)
}

func TestPayslipHandler_Bulk(t *testing.T) {
	env := newTestEnv(t)
	a := env.createPayslip(t, "Ana", "100.00", "10.00")
	b := env.createPayslip(t, "Bruno", "200.00", "20.00")
	env.createPayslip(t, "Carla", "300.00", "30.00")

	ids := a.ID.String() + ",garbage," + b.ID.String() + "," + uuid.NewString()

	w := env.do(t, http.MethodPost, "/payroll/payslips/bulk", map[string]string{"ids": ids, "action": "delete"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result payrollapp.BulkActionResponse
	decode(t, w, &result)
	assert.Equal(t, int64(2), result.Affected)

	w = env.do(t, http.MethodPost, "/payroll/payslips/bulk", map[string]string{"ids": ids, "action": "delete"})
	decode(t, w, &result)
	assert.Equal(t, int64(0), result.Affected)

	w = env.do(t, http.MethodPost, "/payroll/payslips/bulk", map[string]string{"ids": ids, "action": "archive"})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &result)
	assert.Equal(t, int64(0), result.Affected)
}

func TestPayslipHandler_Summary(t *testing.T) {
	env := newTestEnv(t)
	env.createPayslip(t, "Ana", "100.00", "10.00")
	env.createPayslip(t, "Bruno", "200.00", "20.00")

	w := env.do(t, http.MethodGet, "/payroll/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var summary payrollapp.SummaryResponse
	decode(t, w, &summary)
	assert.Equal(t, "300.00", summary.TotalGross)
	assert.Equal(t, "30.00", summary.TotalDeductions)
	assert.Equal(t, "270.00", summary.TotalNet)
	assert.Equal(t, int64(2), summary.Count)
	assert.Equal(t, int64(2), summary.ByStatus["draft"])
	assert.Len(t, summary.ByStatus, 4)

	w = env.do(t, http.MethodGet, "/payroll/summary?period_start=2024-02-01", nil)
	decode(t, w, &summary)
	assert.Equal(t, int64(0), summary.Count)
	assert.Equal(t, "0.00", summary.TotalNet)
}

func TestPayslipHandler_Print(t *testing.T) {
	env := newTestEnv(t)
	p := env.createPayslip(t, "Ana", "100.00", "10.00")
	path := "/payroll/payslips/" + p.ID.String() + "/print"

	t.Run("printing not configured", func(t *testing.T) {
		w := env.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, dto.ErrCodeServiceUnavailable, decode(t, w, nil).Error.Code)
	})

	t.Run("renders pdf", func(t *testing.T) {
		env.service.SetRenderer(printing.NewGofpdfRenderer("Acme"))

		w := env.do(t, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.True(t, strings.HasPrefix(w.Header().Get("Content-Disposition"), "inline; filename="))
		assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))
	})
}

func TestModuleHandler(t *testing.T) {
	env := newTestEnv(t)
	env.createPayslip(t, "Ana", "100.00", "10.00")

	w := env.do(t, http.MethodGet, "/payroll/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var dashboard payrollapp.DashboardResponse
	decode(t, w, &dashboard)
	assert.Equal(t, int64(1), dashboard.TotalPayslips)

	w = env.do(t, http.MethodGet, "/payroll/module", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var module struct {
		ID       string `json:"id"`
		Category string `json:"category"`
	}
	decode(t, w, &module)
	assert.Equal(t, "payroll", module.ID)
	assert.Equal(t, "hr", module.Category)

	w = env.do(t, http.MethodGet, "/payroll/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var settings payrollapp.SettingsResponse
	decode(t, w, &settings)
	assert.Equal(t, []string{"csv", "excel"}, settings.ExportFormats)
	assert.False(t, settings.PrintingEnabled)
}
