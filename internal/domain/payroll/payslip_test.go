package payroll

import (
	"errors"
	"testing"
	"time"

	"github.com/erp/payroll/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDetails() PayslipDetails {
	return PayslipDetails{
		EmployeeID:   "EMP-001",
		EmployeeName: "Ana Garcia",
		PeriodStart:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:    time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		GrossSalary:  decimal.RequireFromString("150.00"),
		Deductions:   decimal.RequireFromString("25.00"),
		Notes:        "January",
	}
}

func newTestPayslip(t *testing.T) *Payslip {
	t.Helper()
	p, err := NewPayslip(uuid.New(), validDetails())
	require.NoError(t, err)
	p.ClearDomainEvents()
	return p
}

func TestNewPayslip(t *testing.T) {
	tenantID := uuid.New()

	t.Run("derives net salary and starts as draft", func(t *testing.T) {
		p, err := NewPayslip(tenantID, validDetails())
		require.NoError(t, err)

		assert.Equal(t, tenantID, p.TenantID)
		assert.Equal(t, StatusDraft, p.Status)
		assert.Equal(t, "125.00", FormatMoney(p.NetSalary))
		assert.Nil(t, p.PaidDate)
		assert.False(t, p.IsDeleted)
		assert.Equal(t, 1, p.Version)

		events := p.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypePayslipCreated, events[0].EventType())
	})

	t.Run("requires tenant", func(t *testing.T) {
		_, err := NewPayslip(uuid.Nil, validDetails())
		assert.ErrorIs(t, err, shared.ErrTenantRequired)
	})

	tests := []struct {
		name   string
		mutate func(d *PayslipDetails)
		msg    string
	}{
		{"missing employee id", func(d *PayslipDetails) { d.EmployeeID = " " }, "Employee ID is required"},
		{"missing employee name", func(d *PayslipDetails) { d.EmployeeName = "" }, "Employee name is required"},
		{"period end before start", func(d *PayslipDetails) {
			d.PeriodEnd = d.PeriodStart.AddDate(0, 0, -1)
		}, "Period end cannot be before period start"},
		{"negative gross", func(d *PayslipDetails) {
			d.GrossSalary = decimal.RequireFromString("-1")
			d.Deductions = decimal.Zero
		}, "Gross salary cannot be negative"},
		{"too many decimals", func(d *PayslipDetails) {
			d.Deductions = decimal.RequireFromString("1.005")
		}, "Deductions must have at most 2 decimal places"},
		{"deductions above gross", func(d *PayslipDetails) {
			d.Deductions = decimal.RequireFromString("150.01")
		}, "Deductions cannot exceed gross salary"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDetails()
			tt.mutate(&d)
			_, err := NewPayslip(tenantID, d)
			require.Error(t, err)
			assert.ErrorIs(t, err, shared.ErrValidation)
			assert.Equal(t, tt.msg, err.Error())
		})
	}

	t.Run("same day period is allowed", func(t *testing.T) {
		d := validDetails()
		d.PeriodEnd = d.PeriodStart
		_, err := NewPayslip(tenantID, d)
		assert.NoError(t, err)
	})
}

func TestPayslip_TransitionTable(t *testing.T) {
	today := time.Date(2024, 2, 5, 15, 30, 0, 0, time.UTC)

	type outcome struct {
		ok   bool
		next PayslipStatus
	}
	table := map[PayslipStatus]map[TransitionAction]outcome{
		StatusDraft: {
			ActionConfirm: {true, StatusConfirmed},
			ActionPay:     {false, StatusDraft},
			ActionCancel:  {true, StatusCancelled},
		},
		StatusConfirmed: {
			ActionConfirm: {false, StatusConfirmed},
			ActionPay:     {true, StatusPaid},
			ActionCancel:  {true, StatusCancelled},
		},
		StatusPaid: {
			ActionConfirm: {false, StatusPaid},
			ActionPay:     {false, StatusPaid},
			ActionCancel:  {false, StatusPaid},
		},
		StatusCancelled: {
			ActionConfirm: {false, StatusCancelled},
			ActionPay:     {false, StatusCancelled},
			ActionCancel:  {false, StatusCancelled},
		},
	}

	for from, actions := range table {
		for action, want := range actions {
			t.Run(from.String()+"/"+action.String(), func(t *testing.T) {
				p := newTestPayslip(t)
				p.Status = from
				var previousPaid *time.Time
				if from == StatusPaid {
					d := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)
					p.PaidDate = &d
					previousPaid = &d
				}

				err := p.ApplyAction(action, today)

				assert.Equal(t, want.next, p.Status)
				if !want.ok {
					var te *TransitionError
					require.True(t, errors.As(err, &te))
					assert.Equal(t, action, te.Action)
					assert.Equal(t, from, te.Status)
					assert.Equal(t, "Cannot "+action.String()+" a "+from.String()+" payslip", err.Error())
					assert.Equal(t, previousPaid, p.PaidDate)
					assert.Empty(t, p.GetDomainEvents())
					return
				}

				require.NoError(t, err)
				require.Len(t, p.GetDomainEvents(), 1)
				if want.next == StatusPaid {
					require.NotNil(t, p.PaidDate)
					assert.Equal(t, time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC), *p.PaidDate)
				} else {
					assert.Nil(t, p.PaidDate)
				}
			})
		}
	}
}

func TestPayslip_UnknownAction(t *testing.T) {
	p := newTestPayslip(t)

	err := p.ApplyAction(TransitionAction("archive"), time.Now())

	assert.EqualError(t, err, "Cannot archive a draft payslip")
	assert.Equal(t, StatusDraft, p.Status)
}

func TestPayslip_TransitionErrorMapsToDomainError(t *testing.T) {
	p := newTestPayslip(t)

	err := p.Pay(time.Now())

	var de *shared.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, ErrCodeInvalidTransition, de.Code)
	assert.Equal(t, "Cannot pay a draft payslip", de.Message)
}

func TestPayslip_StatusEvents(t *testing.T) {
	p := newTestPayslip(t)

	require.NoError(t, p.Confirm())
	require.NoError(t, p.Pay(time.Now()))

	events := p.GetDomainEvents()
	require.Len(t, events, 2)
	assert.Equal(t, EventTypePayslipConfirmed, events[0].EventType())
	assert.Equal(t, EventTypePayslipPaid, events[1].EventType())

	paid, ok := events[1].(*PayslipStatusChangedEvent)
	require.True(t, ok)
	assert.Equal(t, StatusConfirmed, paid.FromStatus)
	assert.Equal(t, StatusPaid, paid.ToStatus)
}

func TestPayslip_ChangeStatus(t *testing.T) {
	today := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("same status is a no-op", func(t *testing.T) {
		p := newTestPayslip(t)
		require.NoError(t, p.ChangeStatus(StatusDraft, today))
		assert.Empty(t, p.GetDomainEvents())
	})

	t.Run("follows the state machine", func(t *testing.T) {
		p := newTestPayslip(t)
		require.NoError(t, p.ChangeStatus(StatusConfirmed, today))
		require.NoError(t, p.ChangeStatus(StatusPaid, today))
		assert.Equal(t, today, *p.PaidDate)
	})

	t.Run("cannot skip confirm", func(t *testing.T) {
		p := newTestPayslip(t)
		err := p.ChangeStatus(StatusPaid, today)
		assert.EqualError(t, err, "Cannot pay a draft payslip")
	})

	t.Run("cannot return to draft", func(t *testing.T) {
		p := newTestPayslip(t)
		require.NoError(t, p.Confirm())
		err := p.ChangeStatus(StatusDraft, today)
		assert.EqualError(t, err, "Cannot return a confirmed payslip to draft")
		assert.Equal(t, StatusConfirmed, p.Status)
	})
}

func TestPayslip_UpdateDetails(t *testing.T) {
	p := newTestPayslip(t)
	d := validDetails()
	d.GrossSalary = decimal.RequireFromString("200.00")
	d.Deductions = decimal.RequireFromString("20.50")

	require.NoError(t, p.UpdateDetails(d))
	assert.Equal(t, "179.50", FormatMoney(p.NetSalary))

	d.PeriodEnd = d.PeriodStart.AddDate(0, 0, -2)
	assert.Error(t, p.UpdateDetails(d))
	assert.Equal(t, "179.50", FormatMoney(p.NetSalary))
}

func TestPayslip_CorrectPaidDate(t *testing.T) {
	p := newTestPayslip(t)
	date := time.Date(2024, 1, 30, 0, 0, 0, 0, time.UTC)

	assert.Error(t, p.CorrectPaidDate(date))

	require.NoError(t, p.Confirm())
	require.NoError(t, p.Pay(time.Now()))
	require.NoError(t, p.CorrectPaidDate(date))
	assert.Equal(t, date, *p.PaidDate)
}

func TestPayslip_SoftDelete(t *testing.T) {
	p := newTestPayslip(t)
	at := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, p.SoftDelete(at))
	assert.True(t, p.IsDeleted)
	assert.Equal(t, at, *p.DeletedAt)

	assert.ErrorIs(t, p.SoftDelete(at), shared.ErrNotFound)
	assert.ErrorIs(t, p.Confirm(), shared.ErrNotFound)
}
