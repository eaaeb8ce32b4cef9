package model

import (
	"time"

	"gorm.io/gorm"
)

// Role is a named role either scoped to one tenant or, when TenantID is
// nil, defined at host level. Role names are unique per tenant; static
// roles are seeded by the system and never renamed.
type Role struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	TenantID  *uint          `json:"tenantId" gorm:"uniqueIndex:idx_roles_tenant_name"`
	Name      string         `json:"name" gorm:"type:varchar(100);not null;uniqueIndex:idx_roles_tenant_name"`
	IsStatic  bool           `json:"isStatic" gorm:"default:false"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
