package payroll

import (
	"time"

	"github.com/erp/payroll/internal/domain/payroll"
	"github.com/google/uuid"
)

// ListPayslipsQuery holds the list query string. Invalid values are
// normalized rather than rejected.
type ListPayslipsQuery struct {
	Search     string `form:"search"`
	Sort       string `form:"sort"`
	Dir        string `form:"dir"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
	Status     string `form:"status"`
	EmployeeID string `form:"employee_id"`
}

// CreatePayslipRequest represents a request to create a payslip.
// Amounts are decimal strings and dates are YYYY-MM-DD.
type CreatePayslipRequest struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	PeriodStart  string `json:"period_start"`
	PeriodEnd    string `json:"period_end"`
	GrossSalary  string `json:"gross_salary"`
	Deductions   string `json:"deductions"`
	// NetSalary is accepted for form compatibility and always recomputed
	NetSalary string     `json:"net_salary"`
	Status    string     `json:"status"`
	PaidDate  string     `json:"paid_date"`
	Notes     string     `json:"notes"`
	CreatedBy *uuid.UUID `json:"-"`
}

// UpdatePayslipRequest overwrites the editable fields of a payslip
type UpdatePayslipRequest struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	PeriodStart  string `json:"period_start"`
	PeriodEnd    string `json:"period_end"`
	GrossSalary  string `json:"gross_salary"`
	Deductions   string `json:"deductions"`
	NetSalary    string `json:"net_salary"`
	Status       string `json:"status"`
	PaidDate     string `json:"paid_date"`
	Notes        string `json:"notes"`
}

// BulkActionRequest applies action to a comma separated list of ids
type BulkActionRequest struct {
	IDs    string `json:"ids"`
	Action string `json:"action"`
}

// BulkActionDelete is the only bulk action with an effect
const BulkActionDelete = "delete"

// SummaryQuery bounds the summary by period. Empty bounds are open.
type SummaryQuery struct {
	PeriodStart string `form:"period_start"`
	PeriodEnd   string `form:"period_end"`
}

// PayslipResponse represents a payslip in API responses
type PayslipResponse struct {
	ID           uuid.UUID  `json:"id"`
	TenantID     uuid.UUID  `json:"tenant_id"`
	EmployeeID   string     `json:"employee_id"`
	EmployeeName string     `json:"employee_name"`
	PeriodStart  string     `json:"period_start"`
	PeriodEnd    string     `json:"period_end"`
	GrossSalary  string     `json:"gross_salary"`
	Deductions   string     `json:"deductions"`
	NetSalary    string     `json:"net_salary"`
	Status       string     `json:"status"`
	PaidDate     *string    `json:"paid_date"`
	Notes        string     `json:"notes"`
	CreatedBy    *uuid.UUID `json:"created_by,omitempty"`
	Version      int        `json:"version"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ToPayslipResponse converts a domain payslip to a response
func ToPayslipResponse(p *payroll.Payslip) PayslipResponse {
	return PayslipResponse{
		ID:           p.ID,
		TenantID:     p.TenantID,
		EmployeeID:   p.EmployeeID,
		EmployeeName: p.EmployeeName,
		PeriodStart:  payroll.FormatDate(p.PeriodStart),
		PeriodEnd:    payroll.FormatDate(p.PeriodEnd),
		GrossSalary:  payroll.FormatMoney(p.GrossSalary),
		Deductions:   payroll.FormatMoney(p.Deductions),
		NetSalary:    payroll.FormatMoney(p.NetSalary),
		Status:       p.Status.String(),
		PaidDate:     formatOptionalDate(p.PaidDate),
		Notes:        p.Notes,
		CreatedBy:    p.CreatedBy,
		Version:      p.GetVersion(),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := payroll.FormatDate(*t)
	return &s
}

// AdminPayslipResponse is the include-deleted listing row
type AdminPayslipResponse struct {
	ID           uuid.UUID  `json:"id"`
	EmployeeID   string     `json:"employee_id"`
	EmployeeName string     `json:"employee_name"`
	PeriodStart  string     `json:"period_start"`
	PeriodEnd    string     `json:"period_end"`
	GrossSalary  string     `json:"gross_salary"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	IsDeleted    bool       `json:"is_deleted"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// ToAdminPayslipResponse converts a payslip to an admin listing row
func ToAdminPayslipResponse(p *payroll.Payslip) AdminPayslipResponse {
	return AdminPayslipResponse{
		ID:           p.ID,
		EmployeeID:   p.EmployeeID,
		EmployeeName: p.EmployeeName,
		PeriodStart:  payroll.FormatDate(p.PeriodStart),
		PeriodEnd:    payroll.FormatDate(p.PeriodEnd),
		GrossSalary:  payroll.FormatMoney(p.GrossSalary),
		Status:       p.Status.String(),
		CreatedAt:    p.CreatedAt,
		IsDeleted:    p.IsDeleted,
		DeletedAt:    p.DeletedAt,
	}
}

// SummaryResponse holds totals over the filtered payslips
type SummaryResponse struct {
	TotalGross      string           `json:"total_gross"`
	TotalDeductions string           `json:"total_deductions"`
	TotalNet        string           `json:"total_net"`
	Count           int64            `json:"count"`
	ByStatus        map[string]int64 `json:"by_status"`
}

// ToSummaryResponse converts a domain summary to a response
func ToSummaryResponse(s *payroll.PayrollSummary) SummaryResponse {
	byStatus := make(map[string]int64, len(s.ByStatus))
	for _, status := range payroll.AllStatuses() {
		byStatus[status.String()] = s.ByStatus[status]
	}
	return SummaryResponse{
		TotalGross:      payroll.FormatMoney(s.TotalGross),
		TotalDeductions: payroll.FormatMoney(s.TotalDeductions),
		TotalNet:        payroll.FormatMoney(s.TotalNet),
		Count:           s.Count,
		ByStatus:        byStatus,
	}
}

// DashboardResponse is the payroll dashboard payload
type DashboardResponse struct {
	TotalPayslips int64 `json:"total_payslips"`
}

// BulkActionResponse reports how many payslips a bulk action touched
type BulkActionResponse struct {
	Action   string `json:"action"`
	Affected int64  `json:"affected"`
}

// PrintResult is a rendered payslip and, when archived, its URL
type PrintResult struct {
	Document   *Document
	ArchiveURL string
}

// ExportResult is an export download and, when archived, its URL
type ExportResult struct {
	Document   *Document
	Rows       int
	ArchiveURL string
}

// SettingsResponse describes the module configuration
type SettingsResponse struct {
	Module          payroll.ModuleInfo `json:"module"`
	SortFields      []string           `json:"sort_fields"`
	PageSizes       []int              `json:"page_sizes"`
	ExportFormats   []string           `json:"export_formats"`
	Statuses        []string           `json:"statuses"`
	Actions         []string           `json:"actions"`
	PrintingEnabled bool               `json:"printing_enabled"`
	ArchiveExports  bool               `json:"archive_exports"`
	ArchivePayslips bool               `json:"archive_payslips"`
}
