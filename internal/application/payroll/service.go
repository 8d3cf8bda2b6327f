package payroll

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/erp/payroll/internal/domain/payroll"
	"github.com/erp/payroll/internal/domain/shared"
	"github.com/erp/payroll/internal/infrastructure/logger"
	"github.com/erp/payroll/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrPrintingUnavailable is returned when no payslip renderer is configured
var ErrPrintingUnavailable = shared.NewDomainError("PRINTING_UNAVAILABLE", "Payslip printing is not configured")

// ArchiveOptions selects which generated documents are archived
type ArchiveOptions struct {
	Exports  bool
	Payslips bool
}

// PayslipService handles payslip lifecycle, queries, summaries, exports
// and printing
type PayslipService struct {
	repo           payroll.PayslipRepository
	eventPublisher shared.EventPublisher
	countCache     CountCache
	renderer       PayslipRenderer
	archiver       DocumentArchiver
	archive        ArchiveOptions
	encoders       map[string]ExportEncoder
	metrics        MetricsRecorder
	logger         *zap.Logger
	now            func() time.Time
}

// NewPayslipService creates a new PayslipService
func NewPayslipService(repo payroll.PayslipRepository, logger *zap.Logger) *PayslipService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PayslipService{
		repo:     repo,
		encoders: make(map[string]ExportEncoder),
		logger:   logger,
		now:      time.Now,
	}
}

// SetEventPublisher sets the publisher for payslip domain events
func (s *PayslipService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetCountCache sets the dashboard count cache
func (s *PayslipService) SetCountCache(cache CountCache) {
	s.countCache = cache
}

// SetRenderer sets the printable payslip renderer
func (s *PayslipService) SetRenderer(renderer PayslipRenderer) {
	s.renderer = renderer
}

// SetArchiver enables archiving of the documents selected by opts
func (s *PayslipService) SetArchiver(archiver DocumentArchiver, opts ArchiveOptions) {
	s.archiver = archiver
	s.archive = opts
}

// SetMetrics sets the business metrics recorder
func (s *PayslipService) SetMetrics(metrics MetricsRecorder) {
	s.metrics = metrics
}

// RegisterExportEncoder makes an export format available
func (s *PayslipService) RegisterExportEncoder(encoder ExportEncoder) {
	s.encoders[encoder.Format()] = encoder
}

// ExportFormats returns the registered export formats in a stable order
func (s *PayslipService) ExportFormats() []string {
	formats := make([]string, 0, len(s.encoders))
	for _, f := range []string{ExportFormatCSV, ExportFormatExcel} {
		if _, ok := s.encoders[f]; ok {
			formats = append(formats, f)
		}
	}
	return formats
}

// CanExport reports whether an encoder is registered for format
func (s *PayslipService) CanExport(format string) bool {
	_, ok := s.encoders[strings.ToLower(strings.TrimSpace(format))]
	return ok
}

func (s *PayslipService) today() time.Time {
	return payroll.DateOf(s.now())
}

// =============================================================================
// Queries
// =============================================================================

// buildFilter normalizes a list query. Unknown statuses are ignored.
func buildFilter(q ListPayslipsQuery) payroll.PayslipFilter {
	filter := payroll.PayslipFilter{
		Filter: shared.Filter{
			Page:     q.Page,
			PageSize: payroll.NormalizePageSize(q.PerPage),
			OrderBy:  payroll.NormalizeSortField(q.Sort),
			OrderDir: payroll.NormalizeSortDir(q.Dir),
			Search:   strings.TrimSpace(q.Search),
		},
		EmployeeID: strings.TrimSpace(q.EmployeeID),
	}
	if q.Status != "" {
		if status, err := payroll.ParseStatus(q.Status); err == nil {
			filter.Status = status
		}
	}
	return filter
}

// List returns one page of live payslips
func (s *PayslipService) List(ctx context.Context, tenantID uuid.UUID, q ListPayslipsQuery) (*shared.Paginated[PayslipResponse], error) {
	filter := buildFilter(q)

	total, err := s.repo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	filter.Page = shared.ClampPage(filter.Page, filter.PageSize, total)

	payslips, err := s.repo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]PayslipResponse, len(payslips))
	for i := range payslips {
		items[i] = ToPayslipResponse(&payslips[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ListIncludingDeleted returns one page of payslips regardless of the
// soft-delete marker
func (s *PayslipService) ListIncludingDeleted(ctx context.Context, tenantID uuid.UUID, q ListPayslipsQuery) (*shared.Paginated[AdminPayslipResponse], error) {
	filter := buildFilter(q)

	total, err := s.repo.CountIncludingDeleted(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	filter.Page = shared.ClampPage(filter.Page, filter.PageSize, total)

	payslips, err := s.repo.FindAllIncludingDeleted(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]AdminPayslipResponse, len(payslips))
	for i := range payslips {
		items[i] = ToAdminPayslipResponse(&payslips[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ListRecent returns up to limit payslips ordered by period start, newest
// first. An empty status matches every status.
func (s *PayslipService) ListRecent(ctx context.Context, tenantID uuid.UUID, status payroll.PayslipStatus, employeeID string, limit int) ([]PayslipResponse, error) {
	filter := payroll.PayslipFilter{
		Status:     status,
		EmployeeID: strings.TrimSpace(employeeID),
	}
	payslips, err := s.repo.FindRecentForTenant(ctx, tenantID, filter, limit)
	if err != nil {
		return nil, err
	}
	items := make([]PayslipResponse, len(payslips))
	for i := range payslips {
		items[i] = ToPayslipResponse(&payslips[i])
	}
	return items, nil
}

// GetByID retrieves a live payslip
func (s *PayslipService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*PayslipResponse, error) {
	p, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToPayslipResponse(p)
	return &response, nil
}

// Summary aggregates live payslips within the optional period
func (s *PayslipService) Summary(ctx context.Context, tenantID uuid.UUID, q SummaryQuery) (*SummaryResponse, error) {
	var period payroll.SummaryPeriod
	if strings.TrimSpace(q.PeriodStart) != "" {
		from, err := payroll.ParseDate("Period start", q.PeriodStart)
		if err != nil {
			return nil, err
		}
		period.From = &from
	}
	if strings.TrimSpace(q.PeriodEnd) != "" {
		to, err := payroll.ParseDate("Period end", q.PeriodEnd)
		if err != nil {
			return nil, err
		}
		period.To = &to
	}

	summary, err := s.repo.Summarize(ctx, tenantID, period)
	if err != nil {
		return nil, err
	}
	response := ToSummaryResponse(summary)
	return &response, nil
}

// Dashboard returns the live payslip count, served from the count cache
// when one is configured.
//
// The count is read and cached without a version check: a write whose
// invalidation lands between CountForTenant and the cache fill leaves the
// older count cached until its TTL expires. Counts are advisory.
func (s *PayslipService) Dashboard(ctx context.Context, tenantID uuid.UUID) (*DashboardResponse, error) {
	if s.countCache != nil {
		count, ok, err := s.countCache.Get(ctx, tenantID)
		if err != nil {
			logger.WithLogger(ctx, s.logger).Warn("Dashboard count cache read failed", zap.Error(err))
		} else if ok {
			return &DashboardResponse{TotalPayslips: count}, nil
		}
	}

	count, err := s.repo.CountForTenant(ctx, tenantID, payroll.PayslipFilter{})
	if err != nil {
		return nil, err
	}

	if s.countCache != nil {
		if err := s.countCache.Set(ctx, tenantID, count); err != nil {
			logger.WithLogger(ctx, s.logger).Warn("Dashboard count cache write failed", zap.Error(err))
		}
	}
	return &DashboardResponse{TotalPayslips: count}, nil
}

// Settings describes list options and optional integrations
func (s *PayslipService) Settings() *SettingsResponse {
	statuses := make([]string, 0, 4)
	for _, st := range payroll.AllStatuses() {
		statuses = append(statuses, st.String())
	}
	actions := make([]string, 0, 3)
	for _, a := range payroll.AllActions() {
		actions = append(actions, a.String())
	}
	return &SettingsResponse{
		Module:          payroll.Module(),
		SortFields:      append([]string(nil), payroll.SortFields...),
		PageSizes:       append([]int(nil), payroll.PageSizeOptions...),
		ExportFormats:   s.ExportFormats(),
		Statuses:        statuses,
		Actions:         actions,
		PrintingEnabled: s.renderer != nil,
		ArchiveExports:  s.archiver != nil && s.archive.Exports,
		ArchivePayslips: s.archiver != nil && s.archive.Payslips,
	}
}

// =============================================================================
// Commands
// =============================================================================

func parseDetails(employeeID, employeeName, periodStart, periodEnd, gross, deductions, notes string) (payroll.PayslipDetails, error) {
	start, err := payroll.ParseDate("Period start", periodStart)
	if err != nil {
		return payroll.PayslipDetails{}, err
	}
	end, err := payroll.ParseDate("Period end", periodEnd)
	if err != nil {
		return payroll.PayslipDetails{}, err
	}
	grossSalary, err := payroll.ParseMoney("Gross salary", gross)
	if err != nil {
		return payroll.PayslipDetails{}, err
	}
	deductionAmount, err := payroll.ParseMoney("Deductions", deductions)
	if err != nil {
		return payroll.PayslipDetails{}, err
	}
	details := payroll.PayslipDetails{
		EmployeeID:   employeeID,
		EmployeeName: employeeName,
		PeriodStart:  start,
		PeriodEnd:    end,
		GrossSalary:  grossSalary,
		Deductions:   deductionAmount,
		Notes:        notes,
	}
	return details, details.Validate()
}

// walkTo moves a new draft payslip forward to target
func walkTo(p *payroll.Payslip, target payroll.PayslipStatus, today time.Time) error {
	switch target {
	case payroll.StatusDraft:
		return nil
	case payroll.StatusConfirmed:
		return p.Confirm()
	case payroll.StatusPaid:
		if err := p.Confirm(); err != nil {
			return err
		}
		return p.Pay(today)
	case payroll.StatusCancelled:
		return p.Cancel()
	}
	return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Invalid payslip status: %s", target))
}

// Create creates a payslip. Net salary is derived from gross salary and
// deductions; a non-draft status is reached through the regular transitions.
func (s *PayslipService) Create(ctx context.Context, tenantID uuid.UUID, req CreatePayslipRequest) (*PayslipResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payslip", "create", telemetry.SpanAttrTenantID, tenantID)
	defer span.End()

	details, err := parseDetails(req.EmployeeID, req.EmployeeName, req.PeriodStart, req.PeriodEnd, req.GrossSalary, req.Deductions, req.Notes)
	if err != nil {
		return nil, err
	}

	p, err := payroll.NewPayslip(tenantID, details)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		p.SetCreatedBy(*req.CreatedBy)
	}

	if req.Status != "" {
		target, err := payroll.ParseStatus(req.Status)
		if err != nil {
			return nil, err
		}
		if err := walkTo(p, target, s.today()); err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(req.PaidDate) != "" {
		paidDate, err := payroll.ParseDate("Paid date", req.PaidDate)
		if err != nil {
			return nil, err
		}
		if err := p.CorrectPaidDate(paidDate); err != nil {
			return nil, err
		}
	}

	// only the creation is announced, not the intermediate transitions
	p.ClearDomainEvents()
	p.AddDomainEvent(payroll.NewPayslipCreatedEvent(p))

	if err := s.repo.Save(ctx, p); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.publishEvents(ctx, p)

	telemetry.SetAttributes(span, telemetry.SpanAttrPayslipID, p.ID, telemetry.SpanAttrStatus, p.Status)
	response := ToPayslipResponse(p)
	return &response, nil
}

// Update overwrites the editable fields of a live payslip. A changed
// status is applied through the matching transition.
func (s *PayslipService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdatePayslipRequest) (*PayslipResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payslip", "update",
		telemetry.SpanAttrTenantID, tenantID,
		telemetry.SpanAttrPayslipID, id,
	)
	defer span.End()

	p, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	details, err := parseDetails(req.EmployeeID, req.EmployeeName, req.PeriodStart, req.PeriodEnd, req.GrossSalary, req.Deductions, req.Notes)
	if err != nil {
		return nil, err
	}
	if err := p.UpdateDetails(details); err != nil {
		return nil, err
	}

	if req.Status != "" {
		target, err := payroll.ParseStatus(req.Status)
		if err != nil {
			return nil, err
		}
		if err := p.ChangeStatus(target, s.today()); err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(req.PaidDate) != "" {
		paidDate, err := payroll.ParseDate("Paid date", req.PaidDate)
		if err != nil {
			return nil, err
		}
		if err := p.CorrectPaidDate(paidDate); err != nil {
			return nil, err
		}
	}

	p.IncrementVersion()
	if err := s.repo.Save(ctx, p); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.publishEvents(ctx, p)

	response := ToPayslipResponse(p)
	return &response, nil
}

// Transition applies a status action to a live payslip
func (s *PayslipService) Transition(ctx context.Context, tenantID, id uuid.UUID, action string) (*PayslipResponse, error) {
	act := payroll.TransitionAction(strings.ToLower(strings.TrimSpace(action)))
	ctx, span := telemetry.StartServiceSpan(ctx, "payslip", "transition",
		telemetry.SpanAttrTenantID, tenantID,
		telemetry.SpanAttrPayslipID, id,
		telemetry.SpanAttrAction, act,
	)
	defer span.End()

	p, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := p.ApplyAction(act, s.today()); err != nil {
		return nil, err
	}

	p.IncrementVersion()
	if err := s.repo.Save(ctx, p); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.publishEvents(ctx, p)

	response := ToPayslipResponse(p)
	return &response, nil
}

// Delete soft deletes a live payslip
func (s *PayslipService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "payslip", "delete",
		telemetry.SpanAttrTenantID, tenantID,
		telemetry.SpanAttrPayslipID, id,
	)
	defer span.End()

	p, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := p.SoftDelete(s.now()); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, p); err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	s.publishEvents(ctx, p)
	return nil
}

// ParseIDList parses a comma separated id list, skipping blanks and
// malformed ids
func ParseIDList(raw string) []uuid.UUID {
	parts := strings.Split(raw, ",")
	ids := make([]uuid.UUID, 0, len(parts))
	seen := make(map[uuid.UUID]struct{}, len(parts))
	for _, part := range parts {
		id, err := uuid.Parse(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// BulkAction applies action to the listed payslips. Only delete has an
// effect; it soft deletes every matching live payslip in one statement.
func (s *PayslipService) BulkAction(ctx context.Context, tenantID uuid.UUID, req BulkActionRequest) (*BulkActionResponse, error) {
	action := strings.ToLower(strings.TrimSpace(req.Action))
	response := &BulkActionResponse{Action: action}
	if action != BulkActionDelete {
		return response, nil
	}

	ids := ParseIDList(req.IDs)
	if len(ids) == 0 {
		return response, nil
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "payslip", "bulk_delete",
		telemetry.SpanAttrTenantID, tenantID,
		telemetry.SpanAttrCount, len(ids),
	)
	defer span.End()

	affected, err := s.repo.SoftDeleteByIDs(ctx, tenantID, ids, s.now())
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	response.Affected = affected

	if affected > 0 {
		s.publish(ctx, payroll.NewPayslipsBulkDeletedEvent(tenantID, affected))
	}
	return response, nil
}

func (s *PayslipService) publishEvents(ctx context.Context, p *payroll.Payslip) {
	events := p.GetDomainEvents()
	p.ClearDomainEvents()
	s.publish(ctx, events...)
}

// publish never fails the command; the write has already been persisted
func (s *PayslipService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		logger.WithLogger(ctx, s.logger).Error("Failed to publish payslip events", zap.Error(err))
	}
}
