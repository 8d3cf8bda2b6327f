package printing

import (
	"fmt"
	"strings"
	"time"

	payrollapp "github.com/erp/payroll/internal/application/payroll"
	"github.com/erp/payroll/internal/domain/payroll"
	"github.com/erp/payroll/internal/infrastructure/config"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const pdfContentType = "application/pdf"

// Engine names accepted by NewRenderer
const (
	EngineGofpdf   = "gofpdf"
	EngineChromedp = "chromedp"
)

// Renderer is a payslip renderer holding releasable resources
type Renderer interface {
	payrollapp.PayslipRenderer
	Close() error
}

// NewRenderer creates the renderer selected by cfg.Engine
func NewRenderer(cfg config.PrintingConfig, logger *zap.Logger) (Renderer, error) {
	switch strings.ToLower(cfg.Engine) {
	case "", EngineGofpdf:
		return NewGofpdfRenderer(cfg.CompanyName), nil
	case EngineChromedp:
		return NewChromedpRenderer(&ChromedpConfig{
			ExecPath:       cfg.ChromePath,
			DefaultTimeout: cfg.Timeout,
			NoSandbox:      true,
			CompanyName:    cfg.CompanyName,
			Logger:         logger,
		})
	default:
		return nil, fmt.Errorf("unknown printing engine %q", cfg.Engine)
	}
}

// RenderError represents an error during payslip rendering
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Error codes for rendering failures
const (
	ErrCodeRenderTimeout = "RENDER_TIMEOUT"
	ErrCodeRenderFailed  = "RENDER_FAILED"
	ErrCodeInvalidInput  = "INVALID_INPUT"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{Code: code, Message: message, Cause: cause}
}

// PayslipView is the display form of a payslip shared by both engines
type PayslipView struct {
	CompanyName  string
	Reference    string
	EmployeeID   string
	EmployeeName string
	PeriodStart  string
	PeriodEnd    string
	GrossSalary  string
	Deductions   string
	NetSalary    string
	Status       string
	PaidDate     string
	Notes        string
	GeneratedAt  string
}

// NewPayslipView formats p for printing
func NewPayslipView(p *payroll.Payslip, companyName string, now time.Time) PayslipView {
	// a Caser keeps state between calls and cannot be shared
	caser := cases.Title(language.English)
	v := PayslipView{
		CompanyName:  companyName,
		Reference:    strings.ToUpper(p.ID.String()[:8]),
		EmployeeID:   p.EmployeeID,
		EmployeeName: p.EmployeeName,
		PeriodStart:  payroll.FormatDate(p.PeriodStart),
		PeriodEnd:    payroll.FormatDate(p.PeriodEnd),
		GrossSalary:  payroll.FormatMoney(p.GrossSalary),
		Deductions:   payroll.FormatMoney(p.Deductions),
		NetSalary:    payroll.FormatMoney(p.NetSalary),
		Status:       caser.String(p.Status.String()),
		Notes:        p.Notes,
		GeneratedAt:  now.UTC().Format("2006-01-02 15:04 MST"),
	}
	if p.PaidDate != nil {
		v.PaidDate = payroll.FormatDate(*p.PaidDate)
	}
	return v
}

// Filename returns the download name of a printed payslip
func Filename(p *payroll.Payslip) string {
	var b strings.Builder
	for _, r := range strings.ToLower(p.EmployeeID) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return fmt.Sprintf("payslip-%s-%s.pdf", b.String(), payroll.FormatDate(p.PeriodStart))
}
