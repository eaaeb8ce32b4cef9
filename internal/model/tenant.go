package model

import (
	"time"

	"gorm.io/gorm"
)

// Tenant is the root of isolation: users, roles, projects and tasks all
// hang off a tenant id. Tenants themselves carry no tenant_id column and
// are therefore never filtered by the tenancy callbacks.
type Tenant struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"type:varchar(100);uniqueIndex;not null"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TenantChanges lists the caller-mutable tenant fields. Id is server-owned.
type TenantChanges struct {
	Name *string
}

// Merge applies the allow-listed changes onto the tenant
func (t *Tenant) Merge(ch TenantChanges) {
	if ch.Name != nil {
		t.Name = *ch.Name
	}
}
