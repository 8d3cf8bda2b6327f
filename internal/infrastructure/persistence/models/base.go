package models

import (
	"time"

	"github.com/erp/payroll/internal/domain/shared"
	"github.com/google/uuid"
)

// BaseModel maps the domain BaseEntity
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// AggregateModel adds the aggregate version
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// SoftDeleteModel holds the explicit soft-delete marker. It deliberately
// does not use gorm.DeletedAt so that deleted rows stay reachable through
// an explicit include-deleted query.
type SoftDeleteModel struct {
	IsDeleted bool `gorm:"not null;default:false;index"`
	DeletedAt *time.Time
}

// TenantAggregateModel holds the common columns of tenant-scoped aggregates
type TenantAggregateModel struct {
	AggregateModel
	SoftDeleteModel
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid"`
}

// FromDomainTenantAggregateRoot populates the model from the domain root
func (m *TenantAggregateModel) FromDomainTenantAggregateRoot(t shared.TenantAggregateRoot) {
	m.ID = t.ID
	m.CreatedAt = t.CreatedAt
	m.UpdatedAt = t.UpdatedAt
	m.Version = t.Version
	m.IsDeleted = t.IsDeleted
	m.DeletedAt = t.DeletedAt
	m.TenantID = t.TenantID
	m.CreatedBy = t.CreatedBy
}

// ToTenantAggregateRoot rebuilds the domain root from the model
func (m *TenantAggregateModel) ToTenantAggregateRoot() shared.TenantAggregateRoot {
	return shared.TenantAggregateRoot{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		SoftDeletable: shared.SoftDeletable{
			IsDeleted: m.IsDeleted,
			DeletedAt: m.DeletedAt,
		},
		TenantID:  m.TenantID,
		CreatedBy: m.CreatedBy,
	}
}
