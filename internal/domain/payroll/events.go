package payroll

import (
	"github.com/erp/payroll/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type constants for payslips
const (
	EventTypePayslipCreated      = "PayslipCreated"
	EventTypePayslipUpdated      = "PayslipUpdated"
	EventTypePayslipConfirmed    = "PayslipConfirmed"
	EventTypePayslipPaid         = "PayslipPaid"
	EventTypePayslipCancelled    = "PayslipCancelled"
	EventTypePayslipDeleted      = "PayslipDeleted"
	EventTypePayslipsBulkDeleted = "PayslipsBulkDeleted"
)

// PayslipCreatedEvent is raised when a payslip is created
type PayslipCreatedEvent struct {
	shared.BaseDomainEvent
	EmployeeID  string          `json:"employee_id"`
	GrossSalary decimal.Decimal `json:"gross_salary"`
	NetSalary   decimal.Decimal `json:"net_salary"`
}

func NewPayslipCreatedEvent(p *Payslip) *PayslipCreatedEvent {
	return &PayslipCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePayslipCreated, AggregateTypePayslip, p.ID, p.TenantID),
		EmployeeID:      p.EmployeeID,
		GrossSalary:     p.GrossSalary,
		NetSalary:       p.NetSalary,
	}
}

// PayslipUpdatedEvent is raised when the editable fields change
type PayslipUpdatedEvent struct {
	shared.BaseDomainEvent
	NetSalary decimal.Decimal `json:"net_salary"`
}

func NewPayslipUpdatedEvent(p *Payslip) *PayslipUpdatedEvent {
	return &PayslipUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePayslipUpdated, AggregateTypePayslip, p.ID, p.TenantID),
		NetSalary:       p.NetSalary,
	}
}

// PayslipStatusChangedEvent is raised on confirm, pay and cancel.
// The event type names the resulting status.
type PayslipStatusChangedEvent struct {
	shared.BaseDomainEvent
	Action     TransitionAction `json:"action"`
	FromStatus PayslipStatus    `json:"from_status"`
	ToStatus   PayslipStatus    `json:"to_status"`
	NetSalary  decimal.Decimal  `json:"net_salary"`
}

func NewPayslipStatusChangedEvent(p *Payslip, action TransitionAction, from PayslipStatus) *PayslipStatusChangedEvent {
	return &PayslipStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(statusEventType(p.Status), AggregateTypePayslip, p.ID, p.TenantID),
		Action:          action,
		FromStatus:      from,
		ToStatus:        p.Status,
		NetSalary:       p.NetSalary,
	}
}

func statusEventType(s PayslipStatus) string {
	switch s {
	case StatusConfirmed:
		return EventTypePayslipConfirmed
	case StatusPaid:
		return EventTypePayslipPaid
	default:
		return EventTypePayslipCancelled
	}
}

// PayslipDeletedEvent is raised when a single payslip is soft deleted
type PayslipDeletedEvent struct {
	shared.BaseDomainEvent
}

func NewPayslipDeletedEvent(p *Payslip) *PayslipDeletedEvent {
	return &PayslipDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePayslipDeleted, AggregateTypePayslip, p.ID, p.TenantID),
	}
}

// PayslipsBulkDeletedEvent is raised once per bulk delete that affected rows
type PayslipsBulkDeletedEvent struct {
	shared.BaseDomainEvent
	Affected int64 `json:"affected"`
}

func NewPayslipsBulkDeletedEvent(tenantID uuid.UUID, affected int64) *PayslipsBulkDeletedEvent {
	return &PayslipsBulkDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePayslipsBulkDeleted, AggregateTypePayslip, uuid.Nil, tenantID),
		Affected:        affected,
	}
}
