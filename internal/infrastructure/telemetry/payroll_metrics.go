package telemetry

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when a metrics set is built without a meter
var ErrMeterNil = errors.New("telemetry: meter is nil")

// PayrollMetrics records payslip business counters.
type PayrollMetrics struct {
	logger *zap.Logger

	created      *Counter
	transitioned *Counter
	deleted      *Counter
	exported     *Counter
	exportedRows *Counter
}

// NewPayrollMetrics builds the payroll counters on meter.
func NewPayrollMetrics(meter metric.Meter, logger *zap.Logger) (*PayrollMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	pm := &PayrollMetrics{logger: logger}
	var err error

	if pm.created, err = NewCounter(meter, "payroll_payslips_created_total",
		"Total number of payslips created", "{payslips}"); err != nil {
		return nil, err
	}
	if pm.transitioned, err = NewCounter(meter, "payroll_payslips_transitioned_total",
		"Total number of payslip status transitions by action", "{transitions}"); err != nil {
		return nil, err
	}
	if pm.deleted, err = NewCounter(meter, "payroll_payslips_deleted_total",
		"Total number of soft deleted payslips", "{payslips}"); err != nil {
		return nil, err
	}
	if pm.exported, err = NewCounter(meter, "payroll_exports_total",
		"Total number of payslip exports by format", "{exports}"); err != nil {
		return nil, err
	}
	if pm.exportedRows, err = NewCounter(meter, "payroll_exported_rows_total",
		"Total number of payslip rows written to exports", "{rows}"); err != nil {
		return nil, err
	}

	return pm, nil
}

// RecordPayslipCreated counts one created payslip.
func (pm *PayrollMetrics) RecordPayslipCreated(ctx context.Context, tenantID uuid.UUID) {
	pm.created.Inc(ctx, AttrTenantID.String(tenantID.String()))
}

// RecordPayslipTransition counts one status transition.
func (pm *PayrollMetrics) RecordPayslipTransition(ctx context.Context, tenantID uuid.UUID, action string) {
	pm.transitioned.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrAction.String(action),
	)
}

// RecordPayslipsDeleted counts soft deleted payslips.
func (pm *PayrollMetrics) RecordPayslipsDeleted(ctx context.Context, tenantID uuid.UUID, count int64) {
	if count <= 0 {
		return
	}
	pm.deleted.Add(ctx, count, AttrTenantID.String(tenantID.String()))
}

// RecordPayslipsExported counts one export and its rows.
func (pm *PayrollMetrics) RecordPayslipsExported(ctx context.Context, tenantID uuid.UUID, format string, rows int) {
	attrs := []attribute.KeyValue{
		AttrTenantID.String(tenantID.String()),
		AttrFormat.String(format),
	}
	pm.exported.Inc(ctx, attrs...)
	pm.exportedRows.Add(ctx, int64(rows), attrs...)
}
