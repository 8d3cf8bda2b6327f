package router

import (
	"github.com/erp/payroll/internal/domain/payroll"
	"github.com/erp/payroll/internal/interfaces/http/handler"
	"github.com/erp/payroll/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PayrollHandlers are the handlers served under /payroll
type PayrollHandlers struct {
	Payslips  *handler.PayslipHandler
	Module    *handler.ModuleHandler
	Assistant *handler.AssistantHandler
}

// NewPayrollRoutes builds the payroll route table. Each route carries its
// permission check; assistant tools check their own permission per tool.
func NewPayrollRoutes(h PayrollHandlers, log *zap.Logger) *DomainGroup {
	require := func(permission string) gin.HandlerFunc {
		return middleware.RequirePermission(permission, log)
	}
	view := require(payroll.PermissionViewPayslip)

	routes := NewDomainGroup("payroll", "/payroll")
	routes.GET("/dashboard", view, h.Module.Dashboard)
	routes.GET("/module", view, h.Module.Module)
	routes.GET("/settings", require(payroll.PermissionManageSettings), h.Module.Settings)
	routes.GET("/summary", view, h.Payslips.Summary)

	payslips := routes.Group("payslips", "/payslips")
	payslips.GET("", view, h.Payslips.List)
	payslips.GET("/all", require(payroll.PermissionManageSettings), h.Payslips.ListAll)
	payslips.POST("", require(payroll.PermissionAddPayslip), h.Payslips.Create)
	payslips.POST("/bulk", require(payroll.PermissionDeletePayslip), h.Payslips.Bulk)
	payslips.GET("/:id", view, h.Payslips.GetByID)
	payslips.GET("/:id/print", view, h.Payslips.Print)
	payslips.PUT("/:id", require(payroll.PermissionChangePayslip), h.Payslips.Update)
	payslips.POST("/:id/transition", require(payroll.PermissionChangePayslip), h.Payslips.Transition)
	payslips.DELETE("/:id", require(payroll.PermissionDeletePayslip), h.Payslips.Delete)

	tools := routes.Group("assistant", "/assistant/tools")
	tools.GET("", h.Assistant.ListTools)
	tools.POST("/:name", h.Assistant.InvokeTool)

	return routes
}
