package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/erp/payroll/internal/application/assistant"
	"github.com/erp/payroll/internal/interfaces/http/dto"
	"github.com/erp/payroll/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AssistantHandler exposes the assistant tool registry over HTTP
type AssistantHandler struct {
	BaseHandler
	registry *assistant.Registry
}

// NewAssistantHandler creates a new AssistantHandler
func NewAssistantHandler(registry *assistant.Registry, log *zap.Logger) *AssistantHandler {
	return &AssistantHandler{
		BaseHandler: NewBaseHandler(log),
		registry:    registry,
	}
}

// InvokeToolRequest is the body of a tool invocation
//
//	@Description	Tool arguments and the confirmation flag
type InvokeToolRequest struct {
	Arguments json.RawMessage `json:"arguments" swaggertype:"object"`
	Confirmed bool            `json:"confirmed" example:"false"`
}

// ListTools godoc
// @ID           listAssistantTools
//
//	@Summary		List assistant tools
//	@Description	Every registered tool with its input schema; permitted tells whether the caller may invoke it
//	@Tags			assistant
//	@Produce		json
//	@Success		200	{object}	APIResponse[[]assistant.Descriptor]
//	@Failure		401	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/payroll/assistant/tools [get]
func (h *AssistantHandler) ListTools(c *gin.Context) {
	h.Success(c, h.registry.Descriptors(permissionChecker(c)))
}

// InvokeTool godoc
// @ID           invokeAssistantTool
//
//	@Summary		Invoke an assistant tool
//	@Description	Runs the tool for the caller's tenant. Tools that require confirmation answer requires_confirmation until called with confirmed=true.
//	@Tags			assistant
//	@Accept			json
//	@Produce		json
//	@Param			X-Tenant-ID	header		string				false	"Tenant ID when the token carries none"
//	@Param			name		path		string				true	"Tool name"
//	@Param			confirmed	query		bool				false	"Confirm a tool that requires confirmation"
//	@Param			request		body		InvokeToolRequest	false	"Tool arguments"
//	@Success		200			{object}	APIResponse[assistant.Result]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		401			{object}	ErrorResponse
//	@Failure		403			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/payroll/assistant/tools/{name} [post]
func (h *AssistantHandler) InvokeTool(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}

	var req InvokeToolRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Malformed request body")
		return
	}
	if raw := c.Query("confirmed"); raw != "" {
		if confirmed, err := strconv.ParseBool(raw); err == nil {
			req.Confirmed = req.Confirmed || confirmed
		}
	}

	call := &assistant.Call{
		TenantID:  tenantID,
		Confirmed: req.Confirmed,
		Arguments: req.Arguments,
		Allowed:   permissionChecker(c),
	}
	if userID, err := getUserID(c); err == nil {
		call.UserID = &userID
	}

	result, err := h.registry.Invoke(c.Request.Context(), c.Param("name"), call)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

func permissionChecker(c *gin.Context) func(string) bool {
	return func(permission string) bool {
		return middleware.HasPermission(c, permission)
	}
}
