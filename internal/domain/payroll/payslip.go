package payroll

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/payroll/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypePayslip is the aggregate type name used in events
const AggregateTypePayslip = "Payslip"

// Payslip is the aggregate root for a single employee pay period
type Payslip struct {
	shared.TenantAggregateRoot
	EmployeeID   string
	EmployeeName string
	PeriodStart  time.Time
	PeriodEnd    time.Time
	GrossSalary  decimal.Decimal
	Deductions   decimal.Decimal
	NetSalary    decimal.Decimal
	Status       PayslipStatus
	PaidDate     *time.Time
	Notes        string
}

// PayslipDetails are the user-editable fields of a payslip
type PayslipDetails struct {
	EmployeeID   string
	EmployeeName string
	PeriodStart  time.Time
	PeriodEnd    time.Time
	GrossSalary  decimal.Decimal
	Deductions   decimal.Decimal
	Notes        string
}

// Validate checks the details and returns the first violation
func (d PayslipDetails) Validate() error {
	if strings.TrimSpace(d.EmployeeID) == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Employee ID is required")
	}
	if len(d.EmployeeID) > 100 {
		return shared.NewDomainError("VALIDATION_ERROR", "Employee ID cannot exceed 100 characters")
	}
	if strings.TrimSpace(d.EmployeeName) == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Employee name is required")
	}
	if len(d.EmployeeName) > 255 {
		return shared.NewDomainError("VALIDATION_ERROR", "Employee name cannot exceed 255 characters")
	}
	if d.PeriodStart.IsZero() || d.PeriodEnd.IsZero() {
		return shared.NewDomainError("VALIDATION_ERROR", "Period start and end are required")
	}
	if DateOf(d.PeriodEnd).Before(DateOf(d.PeriodStart)) {
		return shared.NewDomainError("VALIDATION_ERROR", "Period end cannot be before period start")
	}
	if err := ValidateMoney("Gross salary", d.GrossSalary); err != nil {
		return err
	}
	if err := ValidateMoney("Deductions", d.Deductions); err != nil {
		return err
	}
	if d.Deductions.GreaterThan(d.GrossSalary) {
		return shared.NewDomainError("VALIDATION_ERROR", "Deductions cannot exceed gross salary")
	}
	return nil
}

// NewPayslip creates a draft payslip with net salary derived from
// gross salary and deductions
func NewPayslip(tenantID uuid.UUID, details PayslipDetails) (*Payslip, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrTenantRequired
	}
	if err := details.Validate(); err != nil {
		return nil, err
	}

	p := &Payslip{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Status:              StatusDraft,
	}
	p.apply(details)

	p.AddDomainEvent(NewPayslipCreatedEvent(p))
	return p, nil
}

func (p *Payslip) apply(d PayslipDetails) {
	p.EmployeeID = strings.TrimSpace(d.EmployeeID)
	p.EmployeeName = strings.TrimSpace(d.EmployeeName)
	p.PeriodStart = DateOf(d.PeriodStart)
	p.PeriodEnd = DateOf(d.PeriodEnd)
	p.GrossSalary = d.GrossSalary
	p.Deductions = d.Deductions
	p.NetSalary = d.GrossSalary.Sub(d.Deductions)
	p.Notes = strings.TrimSpace(d.Notes)
}

// Details returns the editable fields of the payslip
func (p *Payslip) Details() PayslipDetails {
	return PayslipDetails{
		EmployeeID:   p.EmployeeID,
		EmployeeName: p.EmployeeName,
		PeriodStart:  p.PeriodStart,
		PeriodEnd:    p.PeriodEnd,
		GrossSalary:  p.GrossSalary,
		Deductions:   p.Deductions,
		Notes:        p.Notes,
	}
}

// UpdateDetails overwrites the editable fields and re-derives net salary
func (p *Payslip) UpdateDetails(details PayslipDetails) error {
	if err := p.ensureActive(); err != nil {
		return err
	}
	if err := details.Validate(); err != nil {
		return err
	}
	p.apply(details)
	p.Touch()
	p.AddDomainEvent(NewPayslipUpdatedEvent(p))
	return nil
}

// Confirm moves a draft payslip to confirmed
func (p *Payslip) Confirm() error {
	return p.transition(ActionConfirm, time.Time{})
}

// Pay moves a confirmed payslip to paid and stamps the paid date
func (p *Payslip) Pay(paidOn time.Time) error {
	return p.transition(ActionPay, paidOn)
}

// Cancel moves a draft or confirmed payslip to cancelled
func (p *Payslip) Cancel() error {
	return p.transition(ActionCancel, time.Time{})
}

// ApplyAction performs a named transition. today is used as the paid
// date when the action is pay.
func (p *Payslip) ApplyAction(action TransitionAction, today time.Time) error {
	return p.transition(action, today)
}

// ChangeStatus moves the payslip to target through the action that
// reaches it. Requesting the current status is a no-op.
func (p *Payslip) ChangeStatus(target PayslipStatus, today time.Time) error {
	if target == p.Status {
		return nil
	}
	action, ok := ActionReaching(target)
	if !ok {
		return shared.NewDomainError(ErrCodeInvalidTransition, fmt.Sprintf("Cannot return a %s payslip to %s", p.Status, target))
	}
	return p.transition(action, today)
}

// CorrectPaidDate overrides the paid date of a paid payslip
func (p *Payslip) CorrectPaidDate(date time.Time) error {
	if p.Status != StatusPaid {
		return shared.NewDomainError("VALIDATION_ERROR", "Paid date can only be set on a paid payslip")
	}
	d := DateOf(date)
	p.PaidDate = &d
	p.Touch()
	return nil
}

func (p *Payslip) transition(action TransitionAction, today time.Time) error {
	if err := p.ensureActive(); err != nil {
		return err
	}
	next, ok := p.Status.Next(action)
	if !ok {
		return NewTransitionError(action, p.Status)
	}

	from := p.Status
	p.Status = next
	if next == StatusPaid {
		if today.IsZero() {
			today = time.Now()
		}
		d := DateOf(today)
		p.PaidDate = &d
	}
	p.Touch()
	p.AddDomainEvent(NewPayslipStatusChangedEvent(p, action, from))
	return nil
}

// SoftDelete flags the payslip as deleted
func (p *Payslip) SoftDelete(at time.Time) error {
	if !p.MarkDeleted(at) {
		return shared.NewDomainError("NOT_FOUND", "Payslip not found")
	}
	p.UpdatedAt = at
	p.AddDomainEvent(NewPayslipDeletedEvent(p))
	return nil
}

func (p *Payslip) ensureActive() error {
	if p.IsDeleted {
		return shared.NewDomainError("NOT_FOUND", "Payslip not found")
	}
	return nil
}
