package model

import (
	"time"

	"gorm.io/gorm"
)

// Task is owned by exactly one tenant and one project; the project must
// belong to the same tenant, which the task mutations enforce by loading
// the project under the active scope.
type Task struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	TenantID       uint           `json:"tenantId" gorm:"index;not null"`
	ProjectID      uint           `json:"projectId" gorm:"index;not null"`
	Project        *Project       `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
	Name           string         `json:"name" gorm:"type:varchar(200);not null"`
	Description    string         `json:"description" gorm:"type:text"`
	DueDate        *time.Time     `json:"dueDate"`
	Completed      bool           `json:"completed" gorm:"default:false"`
	CompletionDate *time.Time     `json:"completionDate"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}

// TaskChanges lists the caller-mutable task fields. Id and tenant id are
// server-owned; project changes are validated by the mutation before the
// merge.
type TaskChanges struct {
	ProjectID      *uint
	Name           *string
	Description    *string
	DueDate        *time.Time
	Completed      *bool
	CompletionDate *time.Time
}

// Merge applies the allow-listed changes onto the task
func (t *Task) Merge(ch TaskChanges) {
	if ch.ProjectID != nil {
		t.ProjectID = *ch.ProjectID
	}
	if ch.Name != nil {
		t.Name = *ch.Name
	}
	if ch.Description != nil {
		t.Description = *ch.Description
	}
	if ch.DueDate != nil {
		t.DueDate = ch.DueDate
	}
	if ch.Completed != nil {
		t.Completed = *ch.Completed
	}
	if ch.CompletionDate != nil {
		t.CompletionDate = ch.CompletionDate
	}
}

// NormalizeCompletion keeps Completed and CompletionDate consistent: a
// task completed without a date gets stamped now, an open task carries no
// completion date.
func (t *Task) NormalizeCompletion(now time.Time) {
	if t.Completed && t.CompletionDate == nil {
		t.CompletionDate = &now
	}
	if !t.Completed {
		t.CompletionDate = nil
	}
}
