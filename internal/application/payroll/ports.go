package payroll

import (
	"context"

	"github.com/erp/payroll/internal/domain/payroll"
	"github.com/google/uuid"
)

// Export formats accepted by the list endpoint
const (
	ExportFormatCSV   = "csv"
	ExportFormatExcel = "excel"
)

// Document is a rendered file ready for download or archiving
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportTable is the projection of payslips written by an ExportEncoder
type ExportTable struct {
	Headers        []string
	Rows           [][]string
	NumericColumns []int
}

// IsNumeric reports whether column col holds amounts
func (t *ExportTable) IsNumeric(col int) bool {
	for _, c := range t.NumericColumns {
		if c == col {
			return true
		}
	}
	return false
}

// ExportEncoder turns an ExportTable into a downloadable document
type ExportEncoder interface {
	Format() string
	Encode(table *ExportTable) (*Document, error)
}

// PayslipRenderer renders a printable payslip
type PayslipRenderer interface {
	RenderPayslip(ctx context.Context, p *payroll.Payslip) (*Document, error)
}

// DocumentArchiver stores generated documents and returns a retrieval URL
type DocumentArchiver interface {
	ArchiveExport(ctx context.Context, tenantID uuid.UUID, doc *Document) (string, error)
	ArchivePayslip(ctx context.Context, tenantID, payslipID uuid.UUID, doc *Document) (string, error)
}

// CountCache caches the dashboard payslip count per tenant
type CountCache interface {
	Get(ctx context.Context, tenantID uuid.UUID) (int64, bool, error)
	Set(ctx context.Context, tenantID uuid.UUID, count int64) error
	Invalidate(ctx context.Context, tenantID uuid.UUID) error
}

// MetricsRecorder receives payroll business counters
type MetricsRecorder interface {
	RecordPayslipCreated(ctx context.Context, tenantID uuid.UUID)
	RecordPayslipTransition(ctx context.Context, tenantID uuid.UUID, action string)
	RecordPayslipsDeleted(ctx context.Context, tenantID uuid.UUID, count int64)
	RecordPayslipsExported(ctx context.Context, tenantID uuid.UUID, format string, rows int)
}
