package assistant

import (
	"context"
	"errors"

	payrollapp "github.com/erp/payroll/internal/application/payroll"
	"github.com/erp/payroll/internal/domain/payroll"
	"github.com/google/uuid"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// PayslipOperations is the slice of the payslip service the tools use
type PayslipOperations interface {
	ListRecent(ctx context.Context, tenantID uuid.UUID, status payroll.PayslipStatus, employeeID string, limit int) ([]payrollapp.PayslipResponse, error)
	Create(ctx context.Context, tenantID uuid.UUID, req payrollapp.CreatePayslipRequest) (*payrollapp.PayslipResponse, error)
	Transition(ctx context.Context, tenantID, id uuid.UUID, action string) (*payrollapp.PayslipResponse, error)
	Summary(ctx context.Context, tenantID uuid.UUID, q payrollapp.SummaryQuery) (*payrollapp.SummaryResponse, error)
}

// ListPayslipsArgs are the arguments of list_payslips
type ListPayslipsArgs struct {
	Status     string `json:"status" validate:"omitempty,oneof=draft confirmed paid cancelled"`
	EmployeeID string `json:"employee_id" validate:"max=100"`
	Limit      *int   `json:"limit"`
}

// CreatePayslipArgs are the arguments of create_payslip
type CreatePayslipArgs struct {
	EmployeeID   string `json:"employee_id" validate:"required,max=100"`
	EmployeeName string `json:"employee_name" validate:"required,max=255"`
	PeriodStart  string `json:"period_start" validate:"required,datetime=2006-01-02"`
	PeriodEnd    string `json:"period_end" validate:"required,datetime=2006-01-02"`
	GrossSalary  string `json:"gross_salary" validate:"required,numeric"`
	Deductions   string `json:"deductions" validate:"omitempty,numeric"`
	Notes        string `json:"notes"`
}

// UpdatePayslipStatusArgs are the arguments of update_payslip_status
type UpdatePayslipStatusArgs struct {
	PayslipID string `json:"payslip_id" validate:"required,uuid"`
	Action    string `json:"action" validate:"required"`
}

// PayrollSummaryArgs are the arguments of get_payroll_summary
type PayrollSummaryArgs struct {
	PeriodStart string `json:"period_start" validate:"omitempty,datetime=2006-01-02"`
	PeriodEnd   string `json:"period_end" validate:"omitempty,datetime=2006-01-02"`
}

// PayslipListItem is one row of the list_payslips output
type PayslipListItem struct {
	ID           uuid.UUID `json:"id"`
	EmployeeName string    `json:"employee_name"`
	PeriodStart  string    `json:"period_start"`
	PeriodEnd    string    `json:"period_end"`
	GrossSalary  string    `json:"gross_salary"`
	Deductions   string    `json:"deductions"`
	NetSalary    string    `json:"net_salary"`
	Status       string    `json:"status"`
}

// ListPayslipsOutput is the output of list_payslips
type ListPayslipsOutput struct {
	Payslips []PayslipListItem `json:"payslips"`
}

// CreatePayslipOutput is the output of create_payslip
type CreatePayslipOutput struct {
	ID        uuid.UUID `json:"id"`
	NetSalary string    `json:"net_salary"`
	Created   bool      `json:"created"`
}

// StatusOutput is the output of update_payslip_status
type StatusOutput struct {
	ID       uuid.UUID `json:"id"`
	Status   string    `json:"status"`
	PaidDate *string   `json:"paid_date"`
}

// ToolError is returned as tool output when the request was understood
// but the operation was refused
type ToolError struct {
	Error string `json:"error"`
}

var dateParam = map[string]any{"type": "string", "format": "date"}

// RegisterPayrollTools registers the payroll tools against svc
func RegisterPayrollTools(r *Registry, svc PayslipOperations) error {
	tools := []*Tool{
		{
			Name:               "list_payslips",
			Description:        "List payslips, newest period first. Optionally filter by status or employee.",
			RequiredPermission: payroll.PermissionViewPayslip,
			Parameters: objectSchema(map[string]any{
				"status": map[string]any{
					"type": "string",
					"enum": []string{"draft", "confirmed", "paid", "cancelled"},
				},
				"employee_id": map[string]any{"type": "string"},
				"limit": map[string]any{
					"type":    "integer",
					"minimum": 1,
					"maximum": maxListLimit,
					"default": defaultListLimit,
				},
			}),
			NewArgs: func() any { return &ListPayslipsArgs{} },
			Handler: func(ctx context.Context, call *Call, raw any) (any, error) {
				return listPayslips(ctx, svc, call, raw.(*ListPayslipsArgs))
			},
		},
		{
			Name:                 "create_payslip",
			Description:          "Create a draft payslip. Net salary is gross salary minus deductions.",
			RequiredPermission:   payroll.PermissionAddPayslip,
			RequiresConfirmation: true,
			Parameters: objectSchema(map[string]any{
				"employee_id":   map[string]any{"type": "string", "maxLength": 100},
				"employee_name": map[string]any{"type": "string", "maxLength": 255},
				"period_start":  dateParam,
				"period_end":    dateParam,
				"gross_salary":  map[string]any{"type": "string", "description": "Decimal amount"},
				"deductions":    map[string]any{"type": "string", "description": "Decimal amount", "default": "0"},
				"notes":         map[string]any{"type": "string"},
			}, "employee_id", "employee_name", "period_start", "period_end", "gross_salary"),
			NewArgs: func() any { return &CreatePayslipArgs{} },
			Handler: func(ctx context.Context, call *Call, raw any) (any, error) {
				return createPayslip(ctx, svc, call, raw.(*CreatePayslipArgs))
			},
		},
		{
			Name:                 "update_payslip_status",
			Description:          "Confirm, pay or cancel a payslip.",
			RequiredPermission:   payroll.PermissionChangePayslip,
			RequiresConfirmation: true,
			Parameters: objectSchema(map[string]any{
				"payslip_id": map[string]any{"type": "string", "format": "uuid"},
				"action": map[string]any{
					"type": "string",
					"enum": []string{"confirm", "pay", "cancel"},
				},
			}, "payslip_id", "action"),
			NewArgs: func() any { return &UpdatePayslipStatusArgs{} },
			Handler: func(ctx context.Context, call *Call, raw any) (any, error) {
				return updatePayslipStatus(ctx, svc, call, raw.(*UpdatePayslipStatusArgs))
			},
		},
		{
			Name:               "get_payroll_summary",
			Description:        "Totals and per-status counts for payslips, optionally within a period.",
			RequiredPermission: payroll.PermissionViewPayslip,
			Parameters: objectSchema(map[string]any{
				"period_start": dateParam,
				"period_end":   dateParam,
			}),
			NewArgs: func() any { return &PayrollSummaryArgs{} },
			Handler: func(ctx context.Context, call *Call, raw any) (any, error) {
				args := raw.(*PayrollSummaryArgs)
				return svc.Summary(ctx, call.TenantID, payrollapp.SummaryQuery{
					PeriodStart: args.PeriodStart,
					PeriodEnd:   args.PeriodEnd,
				})
			},
		},
	}

	for _, tool := range tools {
		if err := r.Register(tool); err != nil {
			return err
		}
	}
	return nil
}

func objectSchema(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func clampLimit(limit *int) int {
	if limit == nil {
		return defaultListLimit
	}
	return min(max(*limit, 1), maxListLimit)
}

func listPayslips(ctx context.Context, svc PayslipOperations, call *Call, args *ListPayslipsArgs) (*ListPayslipsOutput, error) {
	payslips, err := svc.ListRecent(ctx, call.TenantID, payroll.PayslipStatus(args.Status), args.EmployeeID, clampLimit(args.Limit))
	if err != nil {
		return nil, err
	}
	out := &ListPayslipsOutput{Payslips: make([]PayslipListItem, len(payslips))}
	for i, p := range payslips {
		out.Payslips[i] = PayslipListItem{
			ID:           p.ID,
			EmployeeName: p.EmployeeName,
			PeriodStart:  p.PeriodStart,
			PeriodEnd:    p.PeriodEnd,
			GrossSalary:  p.GrossSalary,
			Deductions:   p.Deductions,
			NetSalary:    p.NetSalary,
			Status:       p.Status,
		}
	}
	return out, nil
}

func createPayslip(ctx context.Context, svc PayslipOperations, call *Call, args *CreatePayslipArgs) (*CreatePayslipOutput, error) {
	deductions := args.Deductions
	if deductions == "" {
		deductions = "0"
	}
	created, err := svc.Create(ctx, call.TenantID, payrollapp.CreatePayslipRequest{
		EmployeeID:   args.EmployeeID,
		EmployeeName: args.EmployeeName,
		PeriodStart:  args.PeriodStart,
		PeriodEnd:    args.PeriodEnd,
		GrossSalary:  args.GrossSalary,
		Deductions:   deductions,
		Notes:        args.Notes,
		CreatedBy:    call.UserID,
	})
	if err != nil {
		return nil, err
	}
	return &CreatePayslipOutput{ID: created.ID, NetSalary: created.NetSalary, Created: true}, nil
}

func updatePayslipStatus(ctx context.Context, svc PayslipOperations, call *Call, args *UpdatePayslipStatusArgs) (any, error) {
	id, err := uuid.Parse(args.PayslipID)
	if err != nil {
		return nil, &ArgumentError{Tool: "update_payslip_status", Err: err}
	}
	updated, err := svc.Transition(ctx, call.TenantID, id, args.Action)
	if err != nil {
		var te *payroll.TransitionError
		if errors.As(err, &te) {
			return &ToolError{Error: te.Error()}, nil
		}
		return nil, err
	}
	return &StatusOutput{ID: updated.ID, Status: updated.Status, PaidDate: updated.PaidDate}, nil
}
