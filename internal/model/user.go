package model

import (
	"time"

	"gorm.io/gorm"
)

// User is either a tenant member (TenantID set) or a host-level user
// (TenantID nil). Usernames are unique within a tenant. The password hash
// never leaves the service.
type User struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	TenantID     *uint          `json:"tenantId" gorm:"uniqueIndex:idx_users_tenant_username"`
	FirstName    string         `json:"firstName" gorm:"type:varchar(100)"`
	LastName     string         `json:"lastName" gorm:"type:varchar(100)"`
	UserName     string         `json:"userName" gorm:"type:varchar(100);not null;uniqueIndex:idx_users_tenant_username"`
	Email        string         `json:"email" gorm:"type:varchar(100)"`
	IsActive     bool           `json:"isActive" gorm:"default:false"`
	PasswordHash string         `json:"-" gorm:"type:varchar(255)"`
	Roles        []Role         `json:"roles,omitempty" gorm:"many2many:user_roles"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// RoleNames returns the names of the user's roles
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, role := range u.Roles {
		names = append(names, role.Name)
	}
	return names
}

// UserChanges lists the caller-mutable user fields. Id, tenant id, roles
// and the password hash are server-owned and never merged from input.
type UserChanges struct {
	FirstName *string
	LastName  *string
	UserName  *string
	Email     *string
	IsActive  *bool
}

// Merge applies the allow-listed changes onto the user
func (u *User) Merge(ch UserChanges) {
	if ch.FirstName != nil {
		u.FirstName = *ch.FirstName
	}
	if ch.LastName != nil {
		u.LastName = *ch.LastName
	}
	if ch.UserName != nil {
		u.UserName = *ch.UserName
	}
	if ch.Email != nil {
		u.Email = *ch.Email
	}
	if ch.IsActive != nil {
		u.IsActive = *ch.IsActive
	}
}
