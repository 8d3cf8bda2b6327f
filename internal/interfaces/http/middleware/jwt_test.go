package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/erp/payroll/internal/infrastructure/auth"
	"github.com/erp/payroll/internal/infrastructure/config"
	"github.com/erp/payroll/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService(expiration time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		Issuer:                "test-issuer",
		AccessTokenExpiration: expiration,
	})
}

func newTestToken(t *testing.T, svc *auth.JWTService, input auth.GenerateTokenInput) string {
	t.Helper()
	token, _, err := svc.GenerateAccessToken(input)
	require.NoError(t, err)
	return token
}

func newJWTRouter(cfg JWTMiddlewareConfig) *gin.Engine {
	router := gin.New()
	router.Use(JWTAuthMiddleware(cfg))
	router.GET("/health", okHandler)
	router.GET("/swagger/index.html", okHandler)
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":   GetJWTUserID(c),
			"tenant_id": GetJWTTenantID(c),
		})
	})
	return router
}

func bearer(path, token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	}
	return req
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	input := auth.GenerateTokenInput{
		TenantID:    uuid.New(),
		UserID:      uuid.New(),
		Username:    "testuser",
		Permissions: []string{"payroll.view_payslip"},
	}
	router := newJWTRouter(DefaultJWTConfig(svc))

	rec := serve(router, bearer("/test", newTestToken(t, svc, input)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":"`+input.UserID.String()+`","tenant_id":"`+input.TenantID.String()+`"}`, rec.Body.String())
}

func TestJWTAuthMiddleware_Rejections(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	other := auth.NewJWTService(config.JWTConfig{
		Secret:                "another-secret-key-at-least-32-chars",
		Issuer:                "test-issuer",
		AccessTokenExpiration: time.Minute,
	})
	router := newJWTRouter(DefaultJWTConfig(svc))

	tests := []struct {
		name     string
		req      *http.Request
		wantCode string
	}{
		{
			name:     "missing header",
			req:      bearer("/test", ""),
			wantCode: dto.ErrCodeTokenInvalid,
		},
		{
			name: "not a bearer header",
			req: func() *http.Request {
				req := httptest.NewRequest(http.MethodGet, "/test", nil)
				req.Header.Set(AuthHeaderKey, "Basic dXNlcjpwYXNz")
				return req
			}(),
			wantCode: dto.ErrCodeTokenInvalid,
		},
		{
			name:     "garbage token",
			req:      bearer("/test", "not.a.token"),
			wantCode: dto.ErrCodeTokenInvalid,
		},
		{
			name:     "wrong signature",
			req:      bearer("/test", newTestToken(t, other, auth.GenerateTokenInput{UserID: uuid.New()})),
			wantCode: dto.ErrCodeTokenInvalid,
		},
		{
			name:     "expired",
			req:      bearer("/test", newTestToken(t, newTestJWTService(-time.Minute), auth.GenerateTokenInput{UserID: uuid.New()})),
			wantCode: dto.ErrCodeTokenExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, tt.req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, tt.wantCode, errorCode(t, rec))
		})
	}
}

func TestJWTAuthMiddleware_SkipPaths(t *testing.T) {
	router := newJWTRouter(DefaultJWTConfig(newTestJWTService(time.Minute)))

	assert.Equal(t, http.StatusOK, serve(router, bearer("/health", "")).Code)
	assert.Equal(t, http.StatusOK, serve(router, bearer("/swagger/index.html", "")).Code)
}

// stubBlacklist reports fixed revocations
type stubBlacklist struct {
	jtis  map[string]bool
	users map[string]bool
}

func (b stubBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	return b.jtis[jti], nil
}

func (b stubBlacklist) IsUserTokenInvalidated(_ context.Context, userID string, _ time.Time) (bool, error) {
	return b.users[userID], nil
}

func TestJWTAuthMiddleware_Blacklist(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	blacklist := stubBlacklist{jtis: map[string]bool{}, users: map[string]bool{}}

	cfg := DefaultJWTConfig(svc)
	cfg.TokenBlacklist = blacklist
	router := newJWTRouter(cfg)

	t.Run("revoked jti", func(t *testing.T) {
		token := newTestToken(t, svc, auth.GenerateTokenInput{UserID: uuid.New()})
		claims, err := svc.ValidateAccessToken(token)
		require.NoError(t, err)
		blacklist.jtis[claims.ID] = true

		rec := serve(router, bearer("/test", token))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, dto.ErrCodeTokenRevoked, errorCode(t, rec))
	})

	t.Run("user sessions invalidated", func(t *testing.T) {
		userID := uuid.New()
		token := newTestToken(t, svc, auth.GenerateTokenInput{UserID: userID})
		blacklist.users[userID.String()] = true

		rec := serve(router, bearer("/test", token))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, dto.ErrCodeTokenRevoked, errorCode(t, rec))
	})

	t.Run("other tokens still accepted", func(t *testing.T) {
		rec := serve(router, bearer("/test", newTestToken(t, svc, auth.GenerateTokenInput{UserID: uuid.New()})))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

type failingBlacklist struct{}

func (failingBlacklist) IsBlacklisted(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func (failingBlacklist) IsUserTokenInvalidated(context.Context, string, time.Time) (bool, error) {
	return false, errors.New("redis down")
}

func TestJWTAuthMiddleware_BlacklistFailsOpen(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	cfg := DefaultJWTConfig(svc)
	cfg.TokenBlacklist = failingBlacklist{}
	router := newJWTRouter(cfg)

	rec := serve(router, bearer("/test", newTestToken(t, svc, auth.GenerateTokenInput{UserID: uuid.New()})))

	assert.Equal(t, http.StatusOK, rec.Code)
}
