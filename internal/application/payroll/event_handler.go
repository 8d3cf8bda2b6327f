package payroll

import (
	"context"

	"github.com/erp/payroll/internal/domain/payroll"
	"github.com/erp/payroll/internal/domain/shared"
	"go.uber.org/zap"
)

// PayslipEventHandler keeps the dashboard count cache fresh and records
// business metrics for payslip events
type PayslipEventHandler struct {
	logger  *zap.Logger
	cache   CountCache
	metrics MetricsRecorder
}

// NewPayslipEventHandler creates a handler. cache and metrics may be nil.
func NewPayslipEventHandler(logger *zap.Logger, cache CountCache, metrics MetricsRecorder) *PayslipEventHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PayslipEventHandler{logger: logger, cache: cache, metrics: metrics}
}

// EventTypes returns the event types this handler is interested in
func (h *PayslipEventHandler) EventTypes() []string {
	return []string{
		payroll.EventTypePayslipCreated,
		payroll.EventTypePayslipConfirmed,
		payroll.EventTypePayslipPaid,
		payroll.EventTypePayslipCancelled,
		payroll.EventTypePayslipDeleted,
		payroll.EventTypePayslipsBulkDeleted,
	}
}

// Handle processes a payslip event
func (h *PayslipEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	tenantID := event.TenantID()

	switch e := event.(type) {
	case *payroll.PayslipCreatedEvent:
		h.invalidate(ctx, event)
		if h.metrics != nil {
			h.metrics.RecordPayslipCreated(ctx, tenantID)
		}
	case *payroll.PayslipStatusChangedEvent:
		if h.metrics != nil {
			h.metrics.RecordPayslipTransition(ctx, tenantID, e.Action.String())
		}
	case *payroll.PayslipDeletedEvent:
		h.invalidate(ctx, event)
		if h.metrics != nil {
			h.metrics.RecordPayslipsDeleted(ctx, tenantID, 1)
		}
	case *payroll.PayslipsBulkDeletedEvent:
		h.invalidate(ctx, event)
		if h.metrics != nil {
			h.metrics.RecordPayslipsDeleted(ctx, tenantID, e.Affected)
		}
	default:
		h.logger.Debug("Ignoring payslip event", zap.String("event_type", event.EventType()))
	}
	return nil
}

// invalidate drops the cached count; a failure only leaves a stale count
// until the TTL expires
func (h *PayslipEventHandler) invalidate(ctx context.Context, event shared.DomainEvent) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Invalidate(ctx, event.TenantID()); err != nil {
		h.logger.Warn("Failed to invalidate payslip count cache",
			zap.String("tenant_id", event.TenantID().String()),
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
	}
}
