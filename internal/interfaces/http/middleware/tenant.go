package middleware

import (
	"net/http"

	"github.com/erp/payroll/internal/infrastructure/logger"
	"github.com/erp/payroll/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// TenantIDKey holds the resolved tenant id (string) in gin.Context
	TenantIDKey = "tenant_id"
	// TenantHeaderKey is the fallback tenant header
	TenantHeaderKey = "X-Tenant-ID"
)

// TenantMiddleware resolves the tenant of the request: the JWT tenant_id
// claim first, then the X-Tenant-ID header. Requests without a valid tenant
// are rejected with 401. Must run after JWTAuthMiddleware.
func TenantMiddleware(log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		tenantID, source := GetJWTTenantID(c), "jwt"
		if tenantID == "" {
			tenantID, source = c.GetHeader(TenantHeaderKey), "header"
		}

		if tenantID == "" {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeTenantRequired, "Tenant identification required")
			return
		}
		parsed, err := uuid.Parse(tenantID)
		if err != nil || parsed == uuid.Nil {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeTenantRequired, "Invalid tenant ID format")
			return
		}

		c.Set(TenantIDKey, parsed.String())

		ctx := c.Request.Context()
		ctx, _ = logger.WithTenantID(ctx, logger.FromContext(ctx), parsed.String())
		c.Request = c.Request.WithContext(ctx)

		log.Debug("Tenant identified", zap.String("tenant_id", parsed.String()), zap.String("source", source))
		c.Next()
	}
}

// GetTenantUUID returns the tenant resolved by TenantMiddleware, or
// uuid.Nil when there is none
func GetTenantUUID(c *gin.Context) uuid.UUID {
	id, err := uuid.Parse(c.GetString(TenantIDKey))
	if err != nil {
		return uuid.Nil
	}
	return id
}
