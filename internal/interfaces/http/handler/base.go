package handler

import (
	"errors"
	"net/http"

	"github.com/erp/payroll/internal/application/assistant"
	"github.com/erp/payroll/internal/domain/shared"
	"github.com/erp/payroll/internal/infrastructure/logger"
	"github.com/erp/payroll/internal/infrastructure/printing"
	"github.com/erp/payroll/internal/interfaces/http/dto"
	"github.com/erp/payroll/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errTenantMissing = errors.New("tenant ID not found in context")

// BaseHandler provides common handler utilities
type BaseHandler struct {
	logger *zap.Logger
}

// NewBaseHandler creates a BaseHandler. A nil logger disables error logging.
func NewBaseHandler(log *zap.Logger) BaseHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return BaseHandler{logger: log}
}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := middleware.GetRequestID(c); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}

// getUserID extracts the user ID from the JWT claims
func getUserID(c *gin.Context) (uuid.UUID, error) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		return uuid.Nil, errors.New("JWT claims not found in context")
	}
	return claims.GetUserUUID()
}

// getTenantID returns the tenant resolved by TenantMiddleware. There is no
// default tenant: a request without one is rejected.
func getTenantID(c *gin.Context) (uuid.UUID, error) {
	tenantID := middleware.GetTenantUUID(c)
	if tenantID == uuid.Nil {
		return uuid.Nil, errTenantMissing
	}
	return tenantID, nil
}

// requireTenant writes the tenant error and reports false when the request
// carries no tenant
func (h *BaseHandler) requireTenant(c *gin.Context) (uuid.UUID, bool) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeTenantRequired, shared.ErrTenantRequired.Message)
		return uuid.Nil, false
	}
	return tenantID, true
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// ValidationError sends a 400 validation error response with details
func (h *BaseHandler) ValidationError(c *gin.Context, details []dto.ValidationDetail) {
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
		"Request validation failed",
		getRequestID(c),
		details,
	))
}

// BindError reports a request binding failure, with per-field details when
// the validator produced them
func (h *BaseHandler) BindError(c *gin.Context, err error) {
	middleware.HandleValidationError(c, err)
}

// HandleError converts service errors to HTTP responses
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var argErr *assistant.ArgumentError
	if errors.As(err, &argErr) {
		if details := middleware.ValidationDetails(argErr.Err); len(details) > 0 {
			h.ValidationError(c, details)
			return
		}
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, argErr.Error())
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		h.Error(c, dto.GetHTTPStatus(code), code, domainErr.Message)
		return
	}

	var renderErr *printing.RenderError
	if errors.As(err, &renderErr) {
		if renderErr.Code == printing.ErrCodeRenderTimeout {
			h.Error(c, http.StatusGatewayTimeout, dto.ErrCodeTimeout, renderErr.Message)
			return
		}
		h.logError(c, "Payslip rendering failed", err)
		h.InternalError(c, "Failed to render payslip")
		return
	}

	h.logError(c, "Unhandled request error", err)
	h.InternalError(c, "An unexpected error occurred")
}

func (h *BaseHandler) logError(c *gin.Context, msg string, err error) {
	log := h.logger
	if log == nil {
		log = zap.NewNop()
	}
	logger.WithLogger(c.Request.Context(), log).Error(msg,
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
}
