// Package assistant exposes payroll operations as tools an AI assistant can
// call. Each tool declares the permission it needs and whether a human must
// confirm the call before it runs.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/erp/payroll/internal/domain/shared"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Handler runs a tool with decoded, validated arguments
type Handler func(ctx context.Context, call *Call, args any) (any, error)

// Tool is a registered assistant tool
type Tool struct {
	Name                 string
	Description          string
	Parameters           map[string]any
	RequiredPermission   string
	RequiresConfirmation bool
	// NewArgs returns a pointer to a fresh argument struct
	NewArgs func() any
	Handler Handler
}

// Descriptor is the public description of a tool
type Descriptor struct {
	Name                 string         `json:"name"`
	Description          string         `json:"description"`
	Parameters           map[string]any `json:"parameters"`
	RequiredPermission   string         `json:"required_permission"`
	RequiresConfirmation bool           `json:"requires_confirmation"`
	Permitted            bool           `json:"permitted"`
}

// Call carries the caller context of one invocation
type Call struct {
	TenantID  uuid.UUID
	UserID    *uuid.UUID
	Confirmed bool
	Arguments json.RawMessage
	// Allowed reports whether the caller holds a permission
	Allowed func(permission string) bool
}

func (c *Call) allowed(permission string) bool {
	if permission == "" {
		return true
	}
	return c.Allowed != nil && c.Allowed(permission)
}

// Result is the outcome of an invocation. Output is nil when the call
// still needs confirmation.
type Result struct {
	RequiresConfirmation bool            `json:"requires_confirmation,omitempty"`
	Tool                 string          `json:"tool"`
	Arguments            json.RawMessage `json:"arguments,omitempty"`
	Output               any             `json:"result,omitempty"`
}

// ArgumentError reports arguments that could not be decoded or validated
type ArgumentError struct {
	Tool string
	Err  error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %v", e.Tool, e.Err)
}

// Unwrap exposes the cause, e.g. validator.ValidationErrors
func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// Is makes ArgumentError match shared.ErrValidation
func (e *ArgumentError) Is(target error) bool {
	return target == shared.ErrValidation
}

// Registry maps tool names to tools. It is filled at start-up and read
// concurrently afterwards.
type Registry struct {
	mu       sync.RWMutex
	tools    map[string]*Tool
	validate *validator.Validate
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Registry{
		tools:    make(map[string]*Tool),
		validate: v,
	}
}

// Register adds a tool. Names must be unique.
func (r *Registry) Register(tool *Tool) error {
	if tool == nil || tool.Name == "" || tool.Handler == nil || tool.NewArgs == nil {
		return errors.New("assistant: tool needs a name, argument factory and handler")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[tool.Name]; exists {
		return fmt.Errorf("assistant: tool %q already registered", tool.Name)
	}
	r.tools[tool.Name] = tool
	return nil
}

// Get returns the named tool
func (r *Registry) Get(name string) (*Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}

// Descriptors lists every tool sorted by name. allowed marks which tools
// the caller may invoke and may be nil.
func (r *Registry) Descriptors(allowed func(string) bool) []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	call := &Call{Allowed: allowed}
	out := make([]Descriptor, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, Descriptor{
			Name:                 t.Name,
			Description:          t.Description,
			Parameters:           t.Parameters,
			RequiredPermission:   t.RequiredPermission,
			RequiresConfirmation: t.RequiresConfirmation,
			Permitted:            call.allowed(t.RequiredPermission),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Invoke runs the named tool. Checks run in a fixed order: existence,
// permission, confirmation, arguments. Nothing has side effects before
// the handler runs.
func (r *Registry) Invoke(ctx context.Context, name string, call *Call) (*Result, error) {
	tool, ok := r.Get(name)
	if !ok {
		return nil, shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Unknown tool: %s", name))
	}
	if !call.allowed(tool.RequiredPermission) {
		return nil, shared.NewDomainError("FORBIDDEN", fmt.Sprintf("Permission denied: %s", tool.RequiredPermission))
	}

	rawArgs := call.Arguments
	if len(bytes.TrimSpace(rawArgs)) == 0 {
		rawArgs = json.RawMessage("{}")
	}

	if tool.RequiresConfirmation && !call.Confirmed {
		return &Result{
			RequiresConfirmation: true,
			Tool:                 tool.Name,
			Arguments:            rawArgs,
		}, nil
	}

	args, err := r.decode(tool, rawArgs)
	if err != nil {
		return nil, err
	}

	output, err := tool.Handler(ctx, call, args)
	if err != nil {
		return nil, err
	}
	return &Result{Tool: tool.Name, Output: output}, nil
}

// decode strictly decodes raw into the tool's argument struct and
// validates it
func (r *Registry) decode(tool *Tool, raw json.RawMessage) (any, error) {
	args := tool.NewArgs()
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(args); err != nil {
		return nil, &ArgumentError{Tool: tool.Name, Err: err}
	}
	if err := r.validate.Struct(args); err != nil {
		return nil, &ArgumentError{Tool: tool.Name, Err: err}
	}
	return args, nil
}
