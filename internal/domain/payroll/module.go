package payroll

// Permission codes checked by the HTTP layer and assistant tools
const (
	PermissionViewPayslip    = "payroll.view_payslip"
	PermissionAddPayslip     = "payroll.add_payslip"
	PermissionChangePayslip  = "payroll.change_payslip"
	PermissionDeletePayslip  = "payroll.delete_payslip"
	PermissionManageSettings = "payroll.manage_settings"
)

// NavigationItem is one entry of the module navigation
type NavigationItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// ModuleInfo describes the payroll module to the host platform
type ModuleInfo struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Version      string           `json:"version"`
	Icon         string           `json:"icon"`
	Description  string           `json:"description"`
	Author       string           `json:"author"`
	Category     string           `json:"category"`
	MenuOrder    int              `json:"menu_order"`
	Navigation   []NavigationItem `json:"navigation"`
	Permissions  []string         `json:"permissions"`
	Dependencies []string         `json:"dependencies"`
}

// Module returns the payroll module metadata
func Module() ModuleInfo {
	return ModuleInfo{
		ID:          "payroll",
		Name:        "Payroll",
		Version:     "1.0.0",
		Icon:        "cash-outline",
		Description: "Payroll calculation, deductions and payslips",
		Author:      "ERPlora",
		Category:    "hr",
		MenuOrder:   42,
		Navigation: []NavigationItem{
			{ID: "dashboard", Label: "Dashboard", Icon: "speedometer-outline"},
			{ID: "payslips", Label: "Payslips", Icon: "cash-outline"},
			{ID: "settings", Label: "Settings", Icon: "settings-outline"},
		},
		Permissions: []string{
			PermissionViewPayslip,
			PermissionAddPayslip,
			PermissionChangePayslip,
			PermissionDeletePayslip,
			PermissionManageSettings,
		},
		Dependencies: []string{},
	}
}
