package persistence

import (
	"strings"

	"github.com/erp/payroll/internal/domain/payroll"
)

// ValidateSortOrder normalizes a direction to ASC or DESC, defaulting to
// defaultDir for anything else
func ValidateSortOrder(orderDir, defaultDir string) string {
	switch strings.ToUpper(strings.TrimSpace(orderDir)) {
	case "ASC":
		return "ASC"
	case "DESC":
		return "DESC"
	}
	return defaultDir
}

// ValidateSortField returns sortField when it is allowed, otherwise defaultField
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// PayslipSortFields contains the sortable payslip columns
var PayslipSortFields = func() map[string]bool {
	fields := make(map[string]bool, len(payroll.SortFields))
	for _, f := range payroll.SortFields {
		fields[f] = true
	}
	return fields
}()
