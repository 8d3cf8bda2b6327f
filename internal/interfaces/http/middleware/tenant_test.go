package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erp/payroll/internal/infrastructure/auth"
	"github.com/erp/payroll/internal/infrastructure/logger"
	"github.com/erp/payroll/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// withClaims stands in for JWTAuthMiddleware
func withClaims(claims *auth.Claims) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims != nil {
			c.Set(JWTClaimsKey, claims)
			c.Set(JWTUserIDKey, claims.UserID)
			c.Set(JWTTenantIDKey, claims.TenantID)
		}
		c.Next()
	}
}

func newTenantRouter(claims *auth.Claims) *gin.Engine {
	router := gin.New()
	router.Use(withClaims(claims), TenantMiddleware(nil))
	router.GET("/test", func(c *gin.Context) {
		ctxTenant, _ := c.Request.Context().Value(logger.TenantIDKey).(string)
		c.JSON(http.StatusOK, gin.H{
			"tenant_id": GetTenantUUID(c).String(),
			"ctx":       ctxTenant,
		})
	})
	return router
}

func TestTenantMiddleware(t *testing.T) {
	jwtTenant := uuid.New()
	headerTenant := uuid.New()

	tests := []struct {
		name       string
		claims     *auth.Claims
		header     string
		wantStatus int
		wantTenant uuid.UUID
	}{
		{
			name:       "from jwt claim",
			claims:     &auth.Claims{UserID: "u1", TenantID: jwtTenant.String()},
			wantStatus: http.StatusOK,
			wantTenant: jwtTenant,
		},
		{
			name:       "jwt claim wins over header",
			claims:     &auth.Claims{UserID: "u1", TenantID: jwtTenant.String()},
			header:     headerTenant.String(),
			wantStatus: http.StatusOK,
			wantTenant: jwtTenant,
		},
		{
			name:       "header fallback",
			claims:     &auth.Claims{UserID: "u1"},
			header:     headerTenant.String(),
			wantStatus: http.StatusOK,
			wantTenant: headerTenant,
		},
		{
			name:       "missing",
			claims:     &auth.Claims{UserID: "u1"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed header",
			claims:     &auth.Claims{UserID: "u1"},
			header:     "tenant-one",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "nil uuid",
			header:     uuid.Nil.String(),
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set(TenantHeaderKey, tt.header)
			}
			rec := serve(newTenantRouter(tt.claims), req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, dto.ErrCodeTenantRequired, errorCode(t, rec))
				return
			}
			assert.JSONEq(t,
				`{"tenant_id":"`+tt.wantTenant.String()+`","ctx":"`+tt.wantTenant.String()+`"}`,
				rec.Body.String())
		})
	}
}

func TestGetTenantUUID_Unset(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, uuid.Nil, GetTenantUUID(c))
}
