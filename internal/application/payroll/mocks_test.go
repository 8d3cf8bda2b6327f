package payroll

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/erp/payroll/internal/domain/payroll"
	"github.com/erp/payroll/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPayslipRepository is a mock implementation of payroll.PayslipRepository
type MockPayslipRepository struct {
	mock.Mock
}

func (m *MockPayslipRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*payroll.Payslip, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payroll.Payslip), args.Error(1)
}

func (m *MockPayslipRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter payroll.PayslipFilter) ([]payroll.Payslip, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]payroll.Payslip), args.Error(1)
}

func (m *MockPayslipRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter payroll.PayslipFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPayslipRepository) FindAllIncludingDeleted(ctx context.Context, tenantID uuid.UUID, filter payroll.PayslipFilter) ([]payroll.Payslip, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]payroll.Payslip), args.Error(1)
}

func (m *MockPayslipRepository) CountIncludingDeleted(ctx context.Context, tenantID uuid.UUID, filter payroll.PayslipFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPayslipRepository) FindRecentForTenant(ctx context.Context, tenantID uuid.UUID, filter payroll.PayslipFilter, limit int) ([]payroll.Payslip, error) {
	args := m.Called(ctx, tenantID, filter, limit)
	return args.Get(0).([]payroll.Payslip), args.Error(1)
}

func (m *MockPayslipRepository) Save(ctx context.Context, p *payroll.Payslip) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPayslipRepository) SoftDelete(ctx context.Context, p *payroll.Payslip) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPayslipRepository) SoftDeleteByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID, at time.Time) (int64, error) {
	args := m.Called(ctx, tenantID, ids, at)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPayslipRepository) Summarize(ctx context.Context, tenantID uuid.UUID, period payroll.SummaryPeriod) (*payroll.PayrollSummary, error) {
	args := m.Called(ctx, tenantID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payroll.PayrollSummary), args.Error(1)
}

// MockCountCache is a mock implementation of CountCache
type MockCountCache struct {
	mock.Mock
}

func (m *MockCountCache) Get(ctx context.Context, tenantID uuid.UUID) (int64, bool, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *MockCountCache) Set(ctx context.Context, tenantID uuid.UUID, count int64) error {
	return m.Called(ctx, tenantID, count).Error(0)
}

func (m *MockCountCache) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	return m.Called(ctx, tenantID).Error(0)
}

// MockMetricsRecorder is a mock implementation of MetricsRecorder
type MockMetricsRecorder struct {
	mock.Mock
}

func (m *MockMetricsRecorder) RecordPayslipCreated(ctx context.Context, tenantID uuid.UUID) {
	m.Called(ctx, tenantID)
}

func (m *MockMetricsRecorder) RecordPayslipTransition(ctx context.Context, tenantID uuid.UUID, action string) {
	m.Called(ctx, tenantID, action)
}

func (m *MockMetricsRecorder) RecordPayslipsDeleted(ctx context.Context, tenantID uuid.UUID, count int64) {
	m.Called(ctx, tenantID, count)
}

func (m *MockMetricsRecorder) RecordPayslipsExported(ctx context.Context, tenantID uuid.UUID, format string, rows int) {
	m.Called(ctx, tenantID, format, rows)
}

// MockArchiver is a mock implementation of DocumentArchiver
type MockArchiver struct {
	mock.Mock
}

func (m *MockArchiver) ArchiveExport(ctx context.Context, tenantID uuid.UUID, doc *Document) (string, error) {
	args := m.Called(ctx, tenantID, doc)
	return args.String(0), args.Error(1)
}

func (m *MockArchiver) ArchivePayslip(ctx context.Context, tenantID, payslipID uuid.UUID, doc *Document) (string, error) {
	args := m.Called(ctx, tenantID, payslipID, doc)
	return args.String(0), args.Error(1)
}

// recordingPublisher keeps every published event
type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.events))
	for i, e := range p.events {
		types[i] = e.EventType()
	}
	return types
}

// stubEncoder captures the table it encodes
type stubEncoder struct {
	format string
	table  *ExportTable
}

func (e *stubEncoder) Format() string { return e.format }

func (e *stubEncoder) Encode(table *ExportTable) (*Document, error) {
	e.table = table
	return &Document{Filename: "payslips." + e.format, ContentType: "text/plain", Data: []byte("x")}, nil
}

// stubRenderer returns a fixed document
type stubRenderer struct {
	err error
}

func (r *stubRenderer) RenderPayslip(_ context.Context, p *payroll.Payslip) (*Document, error) {
	if r.err != nil {
		return nil, r.err
	}
	return &Document{Filename: "payslip-" + p.ID.String() + ".pdf", ContentType: "application/pdf", Data: []byte("%PDF")}, nil
}

var fixedNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func newTestService(repo *MockPayslipRepository) (*PayslipService, *recordingPublisher) {
	svc := NewPayslipService(repo, nil)
	svc.now = func() time.Time { return fixedNow }
	pub := &recordingPublisher{}
	svc.SetEventPublisher(pub)
	return svc, pub
}

func newDraftPayslip(t *testing.T, tenantID uuid.UUID, gross, deductions string) *payroll.Payslip {
	t.Helper()
	p, err := payroll.NewPayslip(tenantID, payroll.PayslipDetails{
		EmployeeID:   "E-1",
		EmployeeName: "Ada Lovelace",
		PeriodStart:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:    time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		GrossSalary:  decimal.RequireFromString(gross),
		Deductions:   decimal.RequireFromString(deductions),
	})
	require.NoError(t, err)
	p.ClearDomainEvents()
	return p
}
