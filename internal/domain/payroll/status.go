package payroll

import (
	"fmt"
	"strings"

	"github.com/erp/payroll/internal/domain/shared"
)

// PayslipStatus represents the lifecycle state of a payslip
type PayslipStatus string

const (
	StatusDraft     PayslipStatus = "draft"
	StatusConfirmed PayslipStatus = "confirmed"
	StatusPaid      PayslipStatus = "paid"
	StatusCancelled PayslipStatus = "cancelled"
)

// AllStatuses returns every status in display order
func AllStatuses() []PayslipStatus {
	return []PayslipStatus{StatusDraft, StatusConfirmed, StatusPaid, StatusCancelled}
}

// IsValid checks if the status is a known value
func (s PayslipStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusConfirmed, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

func (s PayslipStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no transition leaves this status
func (s PayslipStatus) IsTerminal() bool {
	return s == StatusPaid || s == StatusCancelled
}

// ParseStatus parses a status string, case-insensitively
func ParseStatus(raw string) (PayslipStatus, error) {
	s := PayslipStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Invalid payslip status: %s", raw))
	}
	return s, nil
}

// TransitionAction is a requested status change
type TransitionAction string

const (
	ActionConfirm TransitionAction = "confirm"
	ActionPay     TransitionAction = "pay"
	ActionCancel  TransitionAction = "cancel"
)

// AllActions returns every transition action
func AllActions() []TransitionAction {
	return []TransitionAction{ActionConfirm, ActionPay, ActionCancel}
}

func (a TransitionAction) String() string {
	return string(a)
}

// transitions maps action -> from -> to
var transitions = map[TransitionAction]map[PayslipStatus]PayslipStatus{
	ActionConfirm: {StatusDraft: StatusConfirmed},
	ActionPay:     {StatusConfirmed: StatusPaid},
	ActionCancel:  {StatusDraft: StatusCancelled, StatusConfirmed: StatusCancelled},
}

// Next returns the status reached by applying action, and whether the
// action is allowed from s
func (s PayslipStatus) Next(action TransitionAction) (PayslipStatus, bool) {
	from, ok := transitions[action]
	if !ok {
		return s, false
	}
	to, ok := from[s]
	if !ok {
		return s, false
	}
	return to, true
}

// ActionReaching returns the action whose target is status.
// Draft is never a target.
func ActionReaching(status PayslipStatus) (TransitionAction, bool) {
	switch status {
	case StatusConfirmed:
		return ActionConfirm, true
	case StatusPaid:
		return ActionPay, true
	case StatusCancelled:
		return ActionCancel, true
	}
	return "", false
}

// ErrCodeInvalidTransition is the error code for illegal status actions
const ErrCodeInvalidTransition = "INVALID_TRANSITION"

// TransitionError is returned when an action is not legal from the
// current status. The payslip is left unchanged.
type TransitionError struct {
	Action TransitionAction
	Status PayslipStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("Cannot %s a %s payslip", e.Action, e.Status)
}

// Unwrap exposes the error as a domain error for HTTP mapping
func (e *TransitionError) Unwrap() error {
	return shared.NewDomainError(ErrCodeInvalidTransition, e.Error())
}

// NewTransitionError creates a TransitionError
func NewTransitionError(action TransitionAction, status PayslipStatus) *TransitionError {
	return &TransitionError{Action: action, Status: status}
}
