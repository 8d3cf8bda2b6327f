package models

import (
	"testing"
	"time"

	"github.com/erp/payroll/internal/domain/payroll"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayslipModel_RoundTrip(t *testing.T) {
	userID := uuid.New()
	p, err := payroll.NewPayslip(uuid.New(), payroll.PayslipDetails{
		EmployeeID:   "EMP-7",
		EmployeeName: "Lee Chen",
		PeriodStart:  time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:    time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
		GrossSalary:  decimal.RequireFromString("3000.00"),
		Deductions:   decimal.RequireFromString("450.25"),
	})
	require.NoError(t, err)
	p.SetCreatedBy(userID)
	require.NoError(t, p.Confirm())
	require.NoError(t, p.Pay(time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)))

	m := PayslipModelFromDomain(p)
	assert.Equal(t, "payroll_payslips", m.TableName())
	assert.Equal(t, p.TenantID, m.TenantID)
	assert.Equal(t, &userID, m.CreatedBy)

	back := m.ToDomain()
	assert.Equal(t, p.ID, back.ID)
	assert.Equal(t, payroll.StatusPaid, back.Status)
	assert.Equal(t, "2549.75", payroll.FormatMoney(back.NetSalary))
	require.NotNil(t, back.PaidDate)
	assert.Equal(t, "2024-06-03", payroll.FormatDate(*back.PaidDate))
	assert.False(t, back.IsDeleted)
	assert.Empty(t, back.GetDomainEvents())
}
