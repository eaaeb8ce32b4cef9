package model

import (
	"time"

	"gorm.io/gorm"
)

// Project is owned by exactly one tenant
type Project struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	TenantID  uint           `json:"tenantId" gorm:"index;not null"`
	Name      string         `json:"name" gorm:"type:varchar(200);not null"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// ProjectChanges lists the caller-mutable project fields
type ProjectChanges struct {
	Name *string
}

// Merge applies the allow-listed changes onto the project
func (p *Project) Merge(ch ProjectChanges) {
	if ch.Name != nil {
		p.Name = *ch.Name
	}
}
