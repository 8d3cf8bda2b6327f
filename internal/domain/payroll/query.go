package payroll

import "strings"

const (
	DefaultSortField = "status"
	SortAsc          = "asc"
	SortDesc         = "desc"
	DefaultPageSize  = 10
)

// SortFields is the allow-list of list sort keys
var SortFields = []string{
	"status",
	"net_salary",
	"deductions",
	"gross_salary",
	"employee_id",
	"employee_name",
	"created_at",
}

// PageSizeOptions is the allow-list of list page sizes
var PageSizeOptions = []int{10, 25, 50, 100}

// NormalizeSortField returns field when allowed, otherwise the default
func NormalizeSortField(field string) string {
	field = strings.ToLower(strings.TrimSpace(field))
	for _, f := range SortFields {
		if f == field {
			return f
		}
	}
	return DefaultSortField
}

// NormalizeSortDir returns desc only when explicitly requested
func NormalizeSortDir(dir string) string {
	if strings.EqualFold(strings.TrimSpace(dir), SortDesc) {
		return SortDesc
	}
	return SortAsc
}

// NormalizePageSize returns size when allowed, otherwise the default
func NormalizePageSize(size int) int {
	for _, s := range PageSizeOptions {
		if s == size {
			return s
		}
	}
	return DefaultPageSize
}
