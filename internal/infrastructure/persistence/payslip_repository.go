package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/erp/payroll/internal/domain/payroll"
	"github.com/erp/payroll/internal/domain/shared"
	"github.com/erp/payroll/internal/infrastructure/persistence/models"
	"github.com/erp/payroll/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormPayslipRepository implements payroll.PayslipRepository using GORM
type GormPayslipRepository struct {
	db *tenant.TenantDB
}

// NewGormPayslipRepository creates a new GormPayslipRepository
func NewGormPayslipRepository(db *gorm.DB) *GormPayslipRepository {
	return &GormPayslipRepository{db: tenant.NewTenantDB(db)}
}

var errPayslipNotFound = shared.NewDomainError("NOT_FOUND", "Payslip not found")

// FindByIDForTenant finds a live payslip of the tenant
func (r *GormPayslipRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*payroll.Payslip, error) {
	var model models.PayslipModel
	if err := r.db.ForTenant(ctx, tenantID).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errPayslipNotFound
		}
		return nil, translate("find payslip", err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists live payslips matching the filter
func (r *GormPayslipRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter payroll.PayslipFilter) ([]payroll.Payslip, error) {
	return r.findAll(r.db.ForTenant(ctx, tenantID), filter)
}

// CountForTenant counts live payslips matching the filter
func (r *GormPayslipRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter payroll.PayslipFilter) (int64, error) {
	return r.count(r.db.ForTenant(ctx, tenantID), filter)
}

// FindAllIncludingDeleted lists payslips of the tenant regardless of soft delete
func (r *GormPayslipRepository) FindAllIncludingDeleted(ctx context.Context, tenantID uuid.UUID, filter payroll.PayslipFilter) ([]payroll.Payslip, error) {
	return r.findAll(r.db.ForTenantWithDeleted(ctx, tenantID), filter)
}

// CountIncludingDeleted counts payslips of the tenant regardless of soft delete
func (r *GormPayslipRepository) CountIncludingDeleted(ctx context.Context, tenantID uuid.UUID, filter payroll.PayslipFilter) (int64, error) {
	return r.count(r.db.ForTenantWithDeleted(ctx, tenantID), filter)
}

// FindRecentForTenant returns up to limit live payslips, latest period first
func (r *GormPayslipRepository) FindRecentForTenant(ctx context.Context, tenantID uuid.UUID, filter payroll.PayslipFilter, limit int) ([]payroll.Payslip, error) {
	var rows []models.PayslipModel
	query := applyConditions(r.db.ForTenant(ctx, tenantID), filter).
		Order("period_start DESC").
		Order("created_at DESC").
		Limit(limit)
	if err := query.Find(&rows).Error; err != nil {
		return nil, translate("list recent payslips", err)
	}
	return toDomain(rows), nil
}

// Save creates or updates a payslip
func (r *GormPayslipRepository) Save(ctx context.Context, p *payroll.Payslip) error {
	if p.TenantID == uuid.Nil {
		return shared.ErrTenantRequired
	}
	model := models.PayslipModelFromDomain(p)
	if err := r.db.DB().WithContext(ctx).Save(model).Error; err != nil {
		return translate("save payslip", err)
	}
	return nil
}

// SoftDelete persists the soft-delete marker of p and its updated_at
func (r *GormPayslipRepository) SoftDelete(ctx context.Context, p *payroll.Payslip) error {
	result := r.db.ForTenant(ctx, p.TenantID).
		Model(&models.PayslipModel{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"is_deleted": true,
			"deleted_at": p.DeletedAt,
			"updated_at": p.UpdatedAt,
		})
	if result.Error != nil {
		return translate("soft delete payslip", result.Error)
	}
	if result.RowsAffected == 0 {
		return errPayslipNotFound
	}
	return nil
}

// SoftDeleteByIDs marks every live payslip of the tenant whose id is in ids
// as deleted with one UPDATE. Unknown ids are ignored.
func (r *GormPayslipRepository) SoftDeleteByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.ForTenant(ctx, tenantID).
		Model(&models.PayslipModel{}).
		Where("id IN ?", ids).
		Updates(map[string]any{
			"is_deleted": true,
			"deleted_at": at,
			"updated_at": at,
		})
	if result.Error != nil {
		return 0, translate("bulk delete payslips", result.Error)
	}
	return result.RowsAffected, nil
}

// Summarize totals live payslips of the tenant within the period
func (r *GormPayslipRepository) Summarize(ctx context.Context, tenantID uuid.UUID, period payroll.SummaryPeriod) (*payroll.PayrollSummary, error) {
	var totals struct {
		TotalGross      decimal.Decimal
		TotalDeductions decimal.Decimal
		TotalNet        decimal.Decimal
		Count           int64
	}
	err := applyPeriod(r.db.ForTenant(ctx, tenantID).Model(&models.PayslipModel{}), period).
		Select("COALESCE(SUM(gross_salary), 0) AS total_gross, " +
			"COALESCE(SUM(deductions), 0) AS total_deductions, " +
			"COALESCE(SUM(net_salary), 0) AS total_net, " +
			"COUNT(*) AS count").
		Scan(&totals).Error
	if err != nil {
		return nil, translate("summarize payslips", err)
	}

	var byStatus []struct {
		Status payroll.PayslipStatus
		Count  int64
	}
	err = applyPeriod(r.db.ForTenant(ctx, tenantID).Model(&models.PayslipModel{}), period).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&byStatus).Error
	if err != nil {
		return nil, translate("count payslips by status", err)
	}

	summary := payroll.NewPayrollSummary()
	summary.TotalGross = totals.TotalGross.Round(payroll.MoneyScale)
	summary.TotalDeductions = totals.TotalDeductions.Round(payroll.MoneyScale)
	summary.TotalNet = totals.TotalNet.Round(payroll.MoneyScale)
	summary.Count = totals.Count
	for _, row := range byStatus {
		summary.ByStatus[row.Status] = row.Count
	}
	return summary, nil
}

func (r *GormPayslipRepository) findAll(query *gorm.DB, filter payroll.PayslipFilter) ([]payroll.Payslip, error) {
	query = applyConditions(query, filter)

	sortField := ValidateSortField(filter.OrderBy, PayslipSortFields, payroll.DefaultSortField)
	sortOrder := ValidateSortOrder(filter.OrderDir, "ASC")
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder)).Order("id ASC")

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize).Offset(filter.Offset())
	}

	var rows []models.PayslipModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, translate("list payslips", err)
	}
	return toDomain(rows), nil
}

func (r *GormPayslipRepository) count(query *gorm.DB, filter payroll.PayslipFilter) (int64, error) {
	var total int64
	if err := applyConditions(query.Model(&models.PayslipModel{}), filter).Count(&total).Error; err != nil {
		return 0, translate("count payslips", err)
	}
	return total, nil
}

// applyConditions adds search, status and employee filters.
// Search uses LOWER(..) LIKE so it is case-insensitive on every dialect.
func applyConditions(query *gorm.DB, filter payroll.PayslipFilter) *gorm.DB {
	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		term := "%" + search + "%"
		query = query.Where("(LOWER(employee_name) LIKE ? OR LOWER(status) LIKE ? OR LOWER(notes) LIKE ?)", term, term, term)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.EmployeeID != "" {
		query = query.Where("employee_id = ?", filter.EmployeeID)
	}
	return query
}

func applyPeriod(query *gorm.DB, period payroll.SummaryPeriod) *gorm.DB {
	if period.From != nil {
		query = query.Where("period_start >= ?", payroll.DateOf(*period.From))
	}
	if period.To != nil {
		query = query.Where("period_end <= ?", payroll.DateOf(*period.To))
	}
	return query
}

func toDomain(rows []models.PayslipModel) []payroll.Payslip {
	payslips := make([]payroll.Payslip, len(rows))
	for i := range rows {
		payslips[i] = *rows[i].ToDomain()
	}
	return payslips
}

func translate(op string, err error) error {
	if errors.Is(err, tenant.ErrTenantIDRequired) {
		return shared.ErrTenantRequired
	}
	return fmt.Errorf("%s: %w", op, err)
}

var _ payroll.PayslipRepository = (*GormPayslipRepository)(nil)
