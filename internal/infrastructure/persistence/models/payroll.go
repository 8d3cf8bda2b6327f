package models

import (
	"time"

	"github.com/erp/payroll/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// PayslipModel is the persistence model for the Payslip aggregate
type PayslipModel struct {
	TenantAggregateModel
	EmployeeID   string                `gorm:"type:varchar(100);not null;index"`
	EmployeeName string                `gorm:"type:varchar(255);not null"`
	PeriodStart  time.Time             `gorm:"type:date;not null;index"`
	PeriodEnd    time.Time             `gorm:"type:date;not null"`
	GrossSalary  decimal.Decimal       `gorm:"type:decimal(12,2);not null;default:0"`
	Deductions   decimal.Decimal       `gorm:"type:decimal(12,2);not null;default:0"`
	NetSalary    decimal.Decimal       `gorm:"type:decimal(12,2);not null;default:0"`
	Status       payroll.PayslipStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	PaidDate     *time.Time            `gorm:"type:date"`
	Notes        string                `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PayslipModel) TableName() string {
	return "payroll_payslips"
}

// ToDomain converts the model to a domain Payslip
func (m *PayslipModel) ToDomain() *payroll.Payslip {
	return &payroll.Payslip{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		EmployeeID:          m.EmployeeID,
		EmployeeName:        m.EmployeeName,
		PeriodStart:         payroll.DateOf(m.PeriodStart),
		PeriodEnd:           payroll.DateOf(m.PeriodEnd),
		GrossSalary:         m.GrossSalary,
		Deductions:          m.Deductions,
		NetSalary:           m.NetSalary,
		Status:              m.Status,
		PaidDate:            dateOfPtr(m.PaidDate),
		Notes:               m.Notes,
	}
}

// FromDomain populates the model from a domain Payslip
func (m *PayslipModel) FromDomain(p *payroll.Payslip) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.EmployeeID = p.EmployeeID
	m.EmployeeName = p.EmployeeName
	m.PeriodStart = p.PeriodStart
	m.PeriodEnd = p.PeriodEnd
	m.GrossSalary = p.GrossSalary
	m.Deductions = p.Deductions
	m.NetSalary = p.NetSalary
	m.Status = p.Status
	m.PaidDate = p.PaidDate
	m.Notes = p.Notes
}

// PayslipModelFromDomain creates a model from a domain Payslip
func PayslipModelFromDomain(p *payroll.Payslip) *PayslipModel {
	m := &PayslipModel{}
	m.FromDomain(p)
	return m
}

func dateOfPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := payroll.DateOf(*t)
	return &d
}
