// Package tenant scopes GORM queries to a single tenant and hides soft
// deleted rows.
//
// Repositories receive the tenant ID explicitly:
//
//	db := tenant.NewTenantDB(gormDB)
//	db.ForTenant(ctx, tenantID).Find(&rows)        // tenant_id = ? AND is_deleted = false
//	db.ForTenantWithDeleted(ctx, tenantID).Find(&rows) // tenant_id = ? only
//
// The optional callback in callback.go adds the tenant filter to any query
// that forgot it, using the tenant stored in the request context.
package tenant

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrTenantIDRequired is returned when no tenant is available for a query
var ErrTenantIDRequired = errors.New("tenant_id is required but not found in context")

// ErrInvalidTenantID is returned when the tenant id is not a UUID
var ErrInvalidTenantID = errors.New("invalid tenant_id format")

// TenantScope restricts a query to tenantID
func TenantScope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}

// NotDeleted hides soft deleted rows
func NotDeleted(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", false)
}

// TenantDB hands out tenant scoped GORM sessions
type TenantDB struct {
	db *gorm.DB
}

// NewTenantDB wraps db
func NewTenantDB(db *gorm.DB) *TenantDB {
	return &TenantDB{db: db}
}

// DB returns the unscoped handle. Only migrations and health checks use it.
func (t *TenantDB) DB() *gorm.DB {
	return t.db
}

// ForTenant returns a session limited to the tenant's live rows.
// A nil tenant yields a session that fails on execution.
func (t *TenantDB) ForTenant(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return NotDeleted(t.ForTenantWithDeleted(ctx, tenantID))
}

// ForTenantWithDeleted returns a tenant session that also sees soft deleted rows
func (t *TenantDB) ForTenantWithDeleted(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	db := t.db.WithContext(ctx)
	if tenantID == uuid.Nil {
		_ = db.AddError(ErrTenantIDRequired)
		return db
	}
	return TenantScope(tenantID)(db)
}
