package payroll

import (
	"context"
	"fmt"
	"strings"

	"github.com/erp/payroll/internal/domain/payroll"
	"github.com/erp/payroll/internal/domain/shared"
	"github.com/erp/payroll/internal/infrastructure/logger"
	"github.com/erp/payroll/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ExportHeaders are the column titles of payslip exports
var ExportHeaders = []string{"Status", "Net Salary", "Deductions", "Gross Salary", "Employee Id", "Employee Name"}

// exportNumericColumns index the amount columns of ExportHeaders
var exportNumericColumns = []int{1, 2, 3}

// BuildExportTable projects payslips onto the export columns
func BuildExportTable(payslips []payroll.Payslip) *ExportTable {
	rows := make([][]string, len(payslips))
	for i := range payslips {
		p := &payslips[i]
		rows[i] = []string{
			p.Status.String(),
			payroll.FormatMoney(p.NetSalary),
			payroll.FormatMoney(p.Deductions),
			payroll.FormatMoney(p.GrossSalary),
			p.EmployeeID,
			p.EmployeeName,
		}
	}
	return &ExportTable{
		Headers:        append([]string(nil), ExportHeaders...),
		Rows:           rows,
		NumericColumns: exportNumericColumns,
	}
}

// Export renders every payslip matching q, unpaginated, in format.
// Archiving is best effort and never fails the export.
func (s *PayslipService) Export(ctx context.Context, tenantID uuid.UUID, q ListPayslipsQuery, format string) (*ExportResult, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	encoder, ok := s.encoders[format]
	if !ok {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unsupported export format: %s", format))
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "payslip", "export",
		telemetry.SpanAttrTenantID, tenantID,
		telemetry.SpanAttrFormat, format,
	)
	defer span.End()

	filter := buildFilter(q)
	filter.Page = 0
	filter.PageSize = 0

	payslips, err := s.repo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	doc, err := encoder.Encode(BuildExportTable(payslips))
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to encode %s export: %w", format, err)
	}

	result := &ExportResult{Document: doc, Rows: len(payslips)}
	if s.metrics != nil {
		s.metrics.RecordPayslipsExported(ctx, tenantID, format, len(payslips))
	}

	if s.archiver != nil && s.archive.Exports {
		url, err := s.archiver.ArchiveExport(ctx, tenantID, doc)
		if err != nil {
			logger.WithLogger(ctx, s.logger).Warn("Failed to archive payslip export",
				zap.String("format", format),
				zap.Error(err),
			)
		} else {
			result.ArchiveURL = url
		}
	}
	return result, nil
}

// PrintPayslip renders a printable payslip, archiving it when enabled
func (s *PayslipService) PrintPayslip(ctx context.Context, tenantID, id uuid.UUID) (*PrintResult, error) {
	if s.renderer == nil {
		return nil, ErrPrintingUnavailable
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "payslip", "print",
		telemetry.SpanAttrTenantID, tenantID,
		telemetry.SpanAttrPayslipID, id,
	)
	defer span.End()

	p, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	doc, err := s.renderer.RenderPayslip(ctx, p)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	result := &PrintResult{Document: doc}
	if s.archiver != nil && s.archive.Payslips {
		url, err := s.archiver.ArchivePayslip(ctx, tenantID, p.ID, doc)
		if err != nil {
			logger.WithLogger(ctx, s.logger).Warn("Failed to archive printed payslip",
				zap.String("payslip_id", p.ID.String()),
				zap.Error(err),
			)
		} else {
			result.ArchiveURL = url
		}
	}
	return result, nil
}
