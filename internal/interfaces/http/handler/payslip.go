package handler

import (
	"net/http"
	"strconv"

	payrollapp "github.com/erp/payroll/internal/application/payroll"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PayslipHandler handles payslip HTTP requests
type PayslipHandler struct {
	BaseHandler
	payslipService *payrollapp.PayslipService
}

// NewPayslipHandler creates a new PayslipHandler
func NewPayslipHandler(payslipService *payrollapp.PayslipService, log *zap.Logger) *PayslipHandler {
	return &PayslipHandler{
		BaseHandler:    NewBaseHandler(log),
		payslipService: payslipService,
	}
}

// CreatePayslipRequest represents a request to create a payslip
//
//	@Description	Request body for creating a payslip. Net salary is derived server-side.
type CreatePayslipRequest struct {
	EmployeeID   string `json:"employee_id" binding:"required,max=100" example:"E-1001"`
	EmployeeName string `json:"employee_name" binding:"required,max=255" example:"Ana Garcia"`
	PeriodStart  string `json:"period_start" binding:"required" example:"2024-01-01"`
	PeriodEnd    string `json:"period_end" binding:"required" example:"2024-01-31"`
	GrossSalary  string `json:"gross_salary" example:"2500.00"`
	Deductions   string `json:"deductions" example:"400.00"`
	NetSalary    string `json:"net_salary" example:"2100.00"`
	Status       string `json:"status" binding:"omitempty,oneof=draft confirmed paid cancelled" example:"draft"`
	PaidDate     string `json:"paid_date" example:""`
	Notes        string `json:"notes" example:"January payroll"`
}

// UpdatePayslipRequest represents a request to edit a payslip
//
//	@Description	Request body for editing a payslip. A changed status is applied as a transition.
type UpdatePayslipRequest struct {
	EmployeeID   string `json:"employee_id" binding:"required,max=100" example:"E-1001"`
	EmployeeName string `json:"employee_name" binding:"required,max=255" example:"Ana Garcia"`
	PeriodStart  string `json:"period_start" binding:"required" example:"2024-01-01"`
	PeriodEnd    string `json:"period_end" binding:"required" example:"2024-01-31"`
	GrossSalary  string `json:"gross_salary" example:"2600.00"`
	Deductions   string `json:"deductions" example:"420.00"`
	NetSalary    string `json:"net_salary" example:"2180.00"`
	Status       string `json:"status" binding:"omitempty,oneof=draft confirmed paid cancelled" example:"confirmed"`
	PaidDate     string `json:"paid_date" example:""`
	Notes        string `json:"notes" example:""`
}

// TransitionRequest represents a status action on a payslip
//
//	@Description	Status action: confirm, pay or cancel
type TransitionRequest struct {
	Action string `json:"action" binding:"required" example:"confirm"`
}

// BulkActionRequest represents a bulk action on payslips
//
//	@Description	Comma separated payslip ids and the action to apply
type BulkActionRequest struct {
	IDs    string `json:"ids" example:"5f0c...,9a1b..."`
	Action string `json:"action" binding:"required" example:"delete"`
}

// List godoc
// @ID           listPayslips
//
//	@Summary		List payslips
//	@Description	Search, sort and paginate the tenant's payslips. With export=csv|excel the whole filtered set is downloaded instead.
//	@Tags			payslips
//	@Produce		json
//	@Produce		text/csv
//	@Produce		application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
//	@Param			X-Tenant-ID	header		string	false	"Tenant ID when the token carries none"
//	@Param			search		query		string	false	"Search employee name, status or notes"
//	@Param			sort		query		string	false	"Sort field"	Enums(status, net_salary, deductions, gross_salary, employee_id, employee_name, created_at)
//	@Param			dir			query		string	false	"Sort direction"	Enums(asc, desc)
//	@Param			page		query		int		false	"Page number"	default(1)
//	@Param			per_page	query		int		false	"Page size"	Enums(10, 25, 50, 100)
//	@Param			status		query		string	false	"Status filter"	Enums(draft, confirmed, paid, cancelled)
//	@Param			employee_id	query		string	false	"Employee filter"
//	@Param			export		query		string	false	"Download format"	Enums(csv, excel)
//	@Success		200			{object}	APIResponse[[]payrollapp.PayslipResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		401			{object}	ErrorResponse
//	@Failure		403			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/payroll/payslips [get]
func (h *PayslipHandler) List(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}

	var q payrollapp.ListPayslipsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		q = listQueryFromStrings(c)
	}

	// an unsupported export value falls back to the JSON listing
	if format := c.Query("export"); h.payslipService.CanExport(format) {
		h.export(c, tenantID, q, format)
		return
	}

	page, err := h.payslipService.List(c.Request.Context(), tenantID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListAll godoc
// @ID           listAllPayslips
//
//	@Summary		List payslips including deleted
//	@Description	Administrative listing that keeps soft-deleted payslips. Still tenant scoped.
//	@Tags			payslips
//	@Produce		json
//	@Param			X-Tenant-ID	header		string	false	"Tenant ID when the token carries none"
//	@Param			search		query		string	false	"Search employee name, status or notes"
//	@Param			sort		query		string	false	"Sort field"
//	@Param			dir			query		string	false	"Sort direction"	Enums(asc, desc)
//	@Param			page		query		int		false	"Page number"	default(1)
//	@Param			per_page	query		int		false	"Page size"	Enums(10, 25, 50, 100)
//	@Success		200			{object}	APIResponse[[]payrollapp.AdminPayslipResponse]
//	@Failure		401			{object}	ErrorResponse
//	@Failure		403			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/payroll/payslips/all [get]
func (h *PayslipHandler) ListAll(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}

	var q payrollapp.ListPayslipsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		q = listQueryFromStrings(c)
	}

	page, err := h.payslipService.ListIncludingDeleted(c.Request.Context(), tenantID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// listQueryFromStrings rebuilds the list query when binding failed on a
// malformed number. Invalid paging values are normalized, not rejected.
func listQueryFromStrings(c *gin.Context) payrollapp.ListPayslipsQuery {
	page, _ := strconv.Atoi(c.Query("page"))
	perPage, _ := strconv.Atoi(c.Query("per_page"))
	return payrollapp.ListPayslipsQuery{
		Search:     c.Query("search"),
		Sort:       c.Query("sort"),
		Dir:        c.Query("dir"),
		Page:       page,
		PerPage:    perPage,
		Status:     c.Query("status"),
		EmployeeID: c.Query("employee_id"),
	}
}

func (h *PayslipHandler) export(c *gin.Context, tenantID uuid.UUID, q payrollapp.ListPayslipsQuery, format string) {
	result, err := h.payslipService.Export(c.Request.Context(), tenantID, q, format)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if result.ArchiveURL != "" {
		c.Header("X-Archive-URL", result.ArchiveURL)
	}
	c.Header("Content-Disposition", "attachment; filename=\""+result.Document.Filename+"\"")
	c.Data(http.StatusOK, result.Document.ContentType, result.Document.Data)
}

// GetByID godoc
// @ID           getPayslipById
//
//	@Summary		Get payslip by ID
//	@Description	Retrieve a non-deleted payslip of the tenant
//	@Tags			payslips
//	@Produce		json
//	@Param			X-Tenant-ID	header		string	false	"Tenant ID when the token carries none"
//	@Param			id			path		string	true	"Payslip ID"	format(uuid)
//	@Success		200			{object}	APIResponse[payrollapp.PayslipResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		401			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/payroll/payslips/{id} [get]
func (h *PayslipHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}

	id, ok := h.payslipID(c)
	if !ok {
		return
	}

	payslip, err := h.payslipService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payslip)
}

// Print godoc
// @ID           printPayslip
//
//	@Summary		Print payslip
//	@Description	Render the payslip as a PDF. The archive URL, when the PDF was archived, is returned in X-Archive-URL.
//	@Tags			payslips
//	@Produce		application/pdf
//	@Param			X-Tenant-ID	header		string	false	"Tenant ID when the token carries none"
//	@Param			id			path		string	true	"Payslip ID"	format(uuid)
//	@Success		200			{file}		binary
//	@Failure		400			{object}	ErrorResponse
//	@Failure		401			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		503			{object}	ErrorResponse
//	@Failure		504			{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/payroll/payslips/{id}/print [get]
func (h *PayslipHandler) Print(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}

	id, ok := h.payslipID(c)
	if !ok {
		return
	}

	result, err := h.payslipService.PrintPayslip(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if result.ArchiveURL != "" {
		c.Header("X-Archive-URL", result.ArchiveURL)
	}
	c.Header("Content-Disposition", "inline; filename=\""+result.Document.Filename+"\"")
	c.Data(http.StatusOK, result.Document.ContentType, result.Document.Data)
}

// Create godoc
// @ID           createPayslip
//
//	@Summary		Create a payslip
//	@Description	Create a payslip for the tenant. An optional status is reached through the lifecycle transitions.
//	@Tags			payslips
//	@Accept			json
//	@Produce		json
//	@Param			X-Tenant-ID	header		string					false	"Tenant ID when the token carries none"
//	@Param			request		body		CreatePayslipRequest	true	"Payslip creation request"
//	@Success		201			{object}	APIResponse[payrollapp.PayslipResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		401			{object}	ErrorResponse
//	@Failure		403			{object}	ErrorResponse
//	@Failure		422			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/payroll/payslips [post]
func (h *PayslipHandler) Create(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}

	var req CreatePayslipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	appReq := payrollapp.CreatePayslipRequest{
		EmployeeID:   req.EmployeeID,
		EmployeeName: req.EmployeeName,
		PeriodStart:  req.PeriodStart,
		PeriodEnd:    req.PeriodEnd,
		GrossSalary:  req.GrossSalary,
		Deductions:   req.Deductions,
		NetSalary:    req.NetSalary,
		Status:       req.Status,
		PaidDate:     req.PaidDate,
		Notes:        req.Notes,
	}
	if userID, err := getUserID(c); err == nil && userID != uuid.Nil {
		appReq.CreatedBy = &userID
	}

	payslip, err := h.payslipService.Create(c.Request.Context(), tenantID, appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, payslip)
}

// Update godoc
// @ID           updatePayslip
//
//	@Summary		Edit a payslip
//	@Description	Overwrite the mutable fields of a payslip. Net salary is re-derived.
//	@Tags			payslips
//	@Accept			json
//	@Produce		json
//	@Param			X-Tenant-ID	header		string					false	"Tenant ID when the token carries none"
//	@Param			id			path		string					true	"Payslip ID"	format(uuid)
//	@Param			request		body		UpdatePayslipRequest	true	"Payslip update request"
//	@Success		200			{object}	APIResponse[payrollapp.PayslipResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		401			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		422			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/payroll/payslips/{id} [put]
func (h *PayslipHandler) Update(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}

	id, ok := h.payslipID(c)
	if !ok {
		return
	}

	var req UpdatePayslipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	payslip, err := h.payslipService.Update(c.Request.Context(), tenantID, id, payrollapp.UpdatePayslipRequest{
		EmployeeID:   req.EmployeeID,
		EmployeeName: req.EmployeeName,
		PeriodStart:  req.PeriodStart,
		PeriodEnd:    req.PeriodEnd,
		GrossSalary:  req.GrossSalary,
		Deductions:   req.Deductions,
		NetSalary:    req.NetSalary,
		Status:       req.Status,
		PaidDate:     req.PaidDate,
		Notes:        req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payslip)
}

// Transition godoc
// @ID           transitionPayslip
//
//	@Summary		Apply a status action
//	@Description	confirm (draft), pay (confirmed, stamps paid_date) or cancel (draft or confirmed)
//	@Tags			payslips
//	@Accept			json
//	@Produce		json
//	@Param			X-Tenant-ID	header		string				false	"Tenant ID when the token carries none"
//	@Param			id			path		string				true	"Payslip ID"	format(uuid)
//	@Param			request		body		TransitionRequest	true	"Status action"
//	@Success		200			{object}	APIResponse[payrollapp.PayslipResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		401			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		422			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/payroll/payslips/{id}/transition [post]
func (h *PayslipHandler) Transition(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}

	id, ok := h.payslipID(c)
	if !ok {
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	payslip, err := h.payslipService.Transition(c.Request.Context(), tenantID, id, req.Action)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payslip)
}

// Delete godoc
// @ID           deletePayslip
//
//	@Summary		Delete a payslip
//	@Description	Soft delete a payslip of the tenant
//	@Tags			payslips
//	@Param			X-Tenant-ID	header	string	false	"Tenant ID when the token carries none"
//	@Param			id			path	string	true	"Payslip ID"	format(uuid)
//	@Success		204
//	@Failure		400	{object}	ErrorResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/payroll/payslips/{id} [delete]
func (h *PayslipHandler) Delete(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}

	id, ok := h.payslipID(c)
	if !ok {
		return
	}

	if err := h.payslipService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Bulk godoc
// @ID           bulkPayslipAction
//
//	@Summary		Bulk action on payslips
//	@Description	Apply an action to many payslips in one statement. Only delete has an effect; unknown ids are ignored.
//	@Tags			payslips
//	@Accept			json
//	@Produce		json
//	@Param			X-Tenant-ID	header		string				false	"Tenant ID when the token carries none"
//	@Param			request		body		BulkActionRequest	true	"Bulk action"
//	@Success		200			{object}	APIResponse[payrollapp.BulkActionResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		401			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/payroll/payslips/bulk [post]
func (h *PayslipHandler) Bulk(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}

	var req BulkActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.payslipService.BulkAction(c.Request.Context(), tenantID, payrollapp.BulkActionRequest{
		IDs:    req.IDs,
		Action: req.Action,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Summary godoc
// @ID           payrollSummary
//
//	@Summary		Payroll summary
//	@Description	Totals and per-status counts of non-deleted payslips, optionally bounded by period
//	@Tags			payslips
//	@Produce		json
//	@Param			X-Tenant-ID		header		string	false	"Tenant ID when the token carries none"
//	@Param			period_start	query		string	false	"Earliest period start (YYYY-MM-DD)"
//	@Param			period_end		query		string	false	"Latest period end (YYYY-MM-DD)"
//	@Success		200				{object}	APIResponse[payrollapp.SummaryResponse]
//	@Failure		400				{object}	ErrorResponse
//	@Failure		401				{object}	ErrorResponse
//	@Failure		500				{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/payroll/summary [get]
func (h *PayslipHandler) Summary(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}

	summary, err := h.payslipService.Summary(c.Request.Context(), tenantID, payrollapp.SummaryQuery{
		PeriodStart: c.Query("period_start"),
		PeriodEnd:   c.Query("period_end"),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

func (h *PayslipHandler) payslipID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payslip ID format")
		return uuid.Nil, false
	}
	return id, true
}
