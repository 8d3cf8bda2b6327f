package payroll

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/payroll/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits stored for amounts
const MoneyScale = 2

// DateLayout is the wire format of payslip dates
const DateLayout = "2006-01-02"

// maxMoney is the exclusive upper bound of a decimal(12,2) column
var maxMoney = decimal.New(1, 10)

// ValidateMoney checks that an amount fits the stored precision
func ValidateMoney(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("%s cannot be negative", field))
	}
	if !v.Equal(v.Round(MoneyScale)) {
		return shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("%s must have at most %d decimal places", field, MoneyScale))
	}
	if v.GreaterThanOrEqual(maxMoney) {
		return shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("%s is too large", field))
	}
	return nil
}

// ParseMoney parses a monetary string. An empty string is zero.
func ParseMoney(field, raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("%s must be a decimal number", field))
	}
	if err := ValidateMoney(field, v); err != nil {
		return decimal.Zero, err
	}
	return v, nil
}

// FormatMoney renders an amount with two fractional digits
func FormatMoney(v decimal.Decimal) string {
	return v.StringFixed(MoneyScale)
}

// ParseDate parses a YYYY-MM-DD date
func ParseDate(field, raw string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field))
	}
	return t, nil
}

// DateOf truncates t to its calendar date, expressed at UTC midnight
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a date as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
