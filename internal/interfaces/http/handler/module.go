package handler

import (
	payrollapp "github.com/erp/payroll/internal/application/payroll"
	"github.com/erp/payroll/internal/domain/payroll"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ModuleHandler serves the payroll module pages: dashboard, metadata and settings
type ModuleHandler struct {
	BaseHandler
	payslipService *payrollapp.PayslipService
}

// NewModuleHandler creates a new ModuleHandler
func NewModuleHandler(payslipService *payrollapp.PayslipService, log *zap.Logger) *ModuleHandler {
	return &ModuleHandler{
		BaseHandler:    NewBaseHandler(log),
		payslipService: payslipService,
	}
}

// Dashboard godoc
// @ID           payrollDashboard
//
//	@Summary		Payroll dashboard
//	@Description	Number of non-deleted payslips of the tenant
//	@Tags			payroll
//	@Produce		json
//	@Param			X-Tenant-ID	header		string	false	"Tenant ID when the token carries none"
//	@Success		200			{object}	APIResponse[payrollapp.DashboardResponse]
//	@Failure		401			{object}	ErrorResponse
//	@Failure		403			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/payroll/dashboard [get]
func (h *ModuleHandler) Dashboard(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}

	dashboard, err := h.payslipService.Dashboard(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dashboard)
}

// Module godoc
// @ID           payrollModule
//
//	@Summary		Module metadata
//	@Description	Payroll module identity, navigation and permissions
//	@Tags			payroll
//	@Produce		json
//	@Success		200	{object}	APIResponse[payroll.ModuleInfo]
//	@Failure		401	{object}	ErrorResponse
//	@Failure		403	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/payroll/module [get]
func (h *ModuleHandler) Module(c *gin.Context) {
	h.Success(c, payroll.Module())
}

// Settings godoc
// @ID           payrollSettings
//
//	@Summary		Module settings
//	@Description	List options, export formats and printing/archive availability
//	@Tags			payroll
//	@Produce		json
//	@Success		200	{object}	APIResponse[payrollapp.SettingsResponse]
//	@Failure		401	{object}	ErrorResponse
//	@Failure		403	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/payroll/settings [get]
func (h *ModuleHandler) Settings(c *gin.Context) {
	h.Success(c, h.payslipService.Settings())
}
