package resolver

import (
	"errors"
	"time"

	"github.com/graphql-go/graphql"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"projecthub-service/internal/apperror"
	"projecthub-service/internal/authz"
	"projecthub-service/internal/model"
	"projecthub-service/internal/tenancy"
	"projecthub-service/pkg/logger"
	"projecthub-service/prometheus"
)

func taskChangesFrom(m map[string]interface{}) model.TaskChanges {
	return model.TaskChanges{
		ProjectID:      optUint(m, "projectId"),
		Name:           optString(m, "name"),
		Description:    optString(m, "description"),
		DueDate:        optTime(m, "dueDate"),
		Completed:      optBool(m, "completed"),
		CompletionDate: optTime(m, "completionDate"),
	}
}

// addTask creates a task. The referenced project must belong to the
// task's tenant; a cross-tenant project reference is rejected.
func (r *Resolver) addTask(p graphql.ResolveParams) (interface{}, error) {
	ctx := p.Context
	log := logger.FromContext(ctx)

	if _, err := authz.RequireAnyRole(ctx, authz.HostAdministrator, authz.Administrator); err != nil {
		return nil, err
	}

	taskArg := inputMap(p, "task")
	name, err := requireString(taskArg, "name")
	if err != nil {
		return nil, err
	}
	projectID, err := requireUint(taskArg, "projectId")
	if err != nil {
		return nil, err
	}

	tenantID, err := authz.AssignTenantOrFail(ctx, optUint(taskArg, "tenantId"))
	if err != nil {
		return nil, err
	}
	if tenantID == nil {
		return nil, apperror.ValidationField("tenantId", "a task must belong to a tenant")
	}

	writeCtx := tenancy.WithScope(ctx, tenancy.ForTenant(*tenantID))

	defer prometheus.TrackDBOperation("insert")(time.Now())

	// The project lookup runs under the task's tenant scope, so a project
	// of another tenant is simply not found
	var project model.Project
	if err := r.db.WithContext(writeCtx).First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ValidationField("projectId", "project not found in the task's tenant")
		}
		return nil, apperror.Persistence(err)
	}

	task := &model.Task{
		ProjectID: projectID,
		Name:      name,
	}
	task.Merge(model.TaskChanges{
		Description:    optString(taskArg, "description"),
		DueDate:        optTime(taskArg, "dueDate"),
		Completed:      optBool(taskArg, "completed"),
		CompletionDate: optTime(taskArg, "completionDate"),
	})
	task.NormalizeCompletion(time.Now())

	if err := r.db.WithContext(writeCtx).Create(task).Error; err != nil {
		return nil, apperror.Persistence(err)
	}

	log.Info("Task created",
		zap.Uint("id", task.ID),
		zap.Uint("project_id", task.ProjectID),
		zap.Uint("tenant_id", task.TenantID))

	return task, nil
}

// editTask merges the allow-listed fields onto an existing task. Moving a
// task to another project re-verifies the project under the task's tenant.
func (r *Resolver) editTask(p graphql.ResolveParams) (interface{}, error) {
	ctx := p.Context

	caller, err := authz.RequireAnyRole(ctx, authz.HostAdministrator, authz.Administrator)
	if err != nil {
		return nil, err
	}

	taskArg := inputMap(p, "task")
	id, err := requireUint(taskArg, "id")
	if err != nil {
		return nil, err
	}

	loadCtx := ctx
	if caller.IsHostAdministrator() {
		loadCtx = tenancy.WithScope(ctx, tenancy.Unscoped())
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	var task model.Task
	if err := r.db.WithContext(loadCtx).First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFoundf("task not found")
		}
		return nil, apperror.Persistence(err)
	}

	changes := taskChangesFrom(taskArg)

	if changes.ProjectID != nil && *changes.ProjectID != task.ProjectID {
		// Re-verify the new project under the task's own tenant
		taskCtx := tenancy.WithScope(ctx, tenancy.ForTenant(task.TenantID))
		var project model.Project
		if err := r.db.WithContext(taskCtx).First(&project, *changes.ProjectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperror.ValidationField("projectId", "project not found in the task's tenant")
			}
			return nil, apperror.Persistence(err)
		}
	}

	task.Merge(changes)
	task.NormalizeCompletion(time.Now())

	if err := r.db.WithContext(loadCtx).Save(&task).Error; err != nil {
		return nil, apperror.Persistence(err)
	}

	return &task, nil
}
