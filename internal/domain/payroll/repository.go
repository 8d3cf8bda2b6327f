package payroll

import (
	"context"
	"time"

	"github.com/erp/payroll/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayslipFilter narrows payslip queries. A zero PageSize means unpaged.
type PayslipFilter struct {
	shared.Filter
	Status     PayslipStatus
	EmployeeID string
}

// SummaryPeriod bounds an aggregation. Nil bounds are open.
type SummaryPeriod struct {
	From *time.Time
	To   *time.Time
}

// PayrollSummary holds totals over a set of payslips
type PayrollSummary struct {
	TotalGross      decimal.Decimal
	TotalDeductions decimal.Decimal
	TotalNet        decimal.Decimal
	Count           int64
	ByStatus        map[PayslipStatus]int64
}

// NewPayrollSummary returns an empty summary with every status present
func NewPayrollSummary() *PayrollSummary {
	byStatus := make(map[PayslipStatus]int64, 4)
	for _, s := range AllStatuses() {
		byStatus[s] = 0
	}
	return &PayrollSummary{
		TotalGross:      decimal.Zero,
		TotalDeductions: decimal.Zero,
		TotalNet:        decimal.Zero,
		ByStatus:        byStatus,
	}
}

// PayslipRepository persists payslips. Every method is tenant scoped and,
// unless its name says otherwise, only sees rows that are not soft deleted.
type PayslipRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Payslip, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter PayslipFilter) ([]Payslip, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter PayslipFilter) (int64, error)

	// FindAllIncludingDeleted ignores the soft-delete marker
	FindAllIncludingDeleted(ctx context.Context, tenantID uuid.UUID, filter PayslipFilter) ([]Payslip, error)
	CountIncludingDeleted(ctx context.Context, tenantID uuid.UUID, filter PayslipFilter) (int64, error)

	// FindRecentForTenant returns up to limit payslips, newest period first
	FindRecentForTenant(ctx context.Context, tenantID uuid.UUID, filter PayslipFilter, limit int) ([]Payslip, error)

	Save(ctx context.Context, payslip *Payslip) error
	// SoftDelete persists only the soft-delete marker and updated_at
	SoftDelete(ctx context.Context, payslip *Payslip) error
	// SoftDeleteByIDs marks all matching live payslips deleted in one statement
	SoftDeleteByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID, at time.Time) (int64, error)

	Summarize(ctx context.Context, tenantID uuid.UUID, period SummaryPeriod) (*PayrollSummary, error)
}
