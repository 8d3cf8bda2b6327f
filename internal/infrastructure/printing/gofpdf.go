package printing

import (
	"bytes"
	"context"
	"time"

	payrollapp "github.com/erp/payroll/internal/application/payroll"
	"github.com/erp/payroll/internal/domain/payroll"
	"github.com/jung-kurt/gofpdf"
)

// GofpdfRenderer draws payslips directly with gofpdf
type GofpdfRenderer struct {
	companyName string
	now         func() time.Time
}

// NewGofpdfRenderer creates a native PDF renderer
func NewGofpdfRenderer(companyName string) *GofpdfRenderer {
	return &GofpdfRenderer{companyName: companyName, now: time.Now}
}

// RenderPayslip renders p as an A4 PDF
func (r *GofpdfRenderer) RenderPayslip(ctx context.Context, p *payroll.Payslip) (*payrollapp.Document, error) {
	if p == nil {
		return nil, NewRenderError(ErrCodeInvalidInput, "payslip is nil", nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, NewRenderError(ErrCodeRenderTimeout, "rendering cancelled", err)
	}

	v := NewPayslipView(p, r.companyName, r.now())

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Payslip "+v.Reference, true)
	pdf.SetAuthor(v.CompanyName, true)
	pdf.AddPage()

	if v.CompanyName != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, tr(v.CompanyName), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	line := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(50, 7, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 7, tr(value), "", 1, "L", false, 0, "")
	}
	line("Reference", v.Reference)
	line("Employee", v.EmployeeName)
	line("Employee ID", v.EmployeeID)
	line("Period", v.PeriodStart+" to "+v.PeriodEnd)
	line("Status", v.Status)
	if v.PaidDate != "" {
		line("Paid on", v.PaidDate)
	}
	pdf.Ln(6)

	amount := func(label, value string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 11)
		pdf.CellFormat(120, 8, label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 8, value, "1", 1, "R", false, 0, "")
	}
	amount("Gross salary", v.GrossSalary, false)
	amount("Deductions", v.Deductions, false)
	amount("Net salary", v.NetSalary, true)

	if v.Notes != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(0, 7, "Notes")
		pdf.Ln(7)
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, tr(v.Notes), "", "L", false)
	}

	pdf.SetY(-20)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(0, 5, "Generated "+v.GeneratedAt, "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "gofpdf output failed", err)
	}

	return &payrollapp.Document{
		Filename:    Filename(p),
		ContentType: pdfContentType,
		Data:        buf.Bytes(),
	}, nil
}

// Close is a no-op; gofpdf holds no resources between renders
func (r *GofpdfRenderer) Close() error {
	return nil
}

var _ Renderer = (*GofpdfRenderer)(nil)
