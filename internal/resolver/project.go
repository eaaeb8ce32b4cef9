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

// addProject creates a project. The client-supplied id is ignored and a
// fresh identity assigned; the tenant id is the caller's own unless the
// caller is a host administrator naming a tenant explicitly.
func (r *Resolver) addProject(p graphql.ResolveParams) (interface{}, error) {
	ctx := p.Context
	log := logger.FromContext(ctx)

	if _, err := authz.RequireAnyRole(ctx, authz.HostAdministrator, authz.Administrator); err != nil {
		return nil, err
	}

	projectArg := inputMap(p, "project")
	name, err := requireString(projectArg, "name")
	if err != nil {
		return nil, err
	}

	tenantID, err := authz.AssignTenantOrFail(ctx, optUint(projectArg, "tenantId"))
	if err != nil {
		return nil, err
	}
	if tenantID == nil {
		return nil, apperror.ValidationField("tenantId", "a project must belong to a tenant")
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	// The tenancy callback stamps the tenant id from the write scope
	writeCtx := tenancy.WithScope(ctx, tenancy.ForTenant(*tenantID))
	project := &model.Project{Name: name}
	if err := r.db.WithContext(writeCtx).Create(project).Error; err != nil {
		return nil, apperror.Persistence(err)
	}

	log.Info("Project created",
		zap.Uint("id", project.ID),
		zap.Uint("tenant_id", project.TenantID))

	return project, nil
}

// editProject merges the allow-listed fields onto an existing project
func (r *Resolver) editProject(p graphql.ResolveParams) (interface{}, error) {
	ctx := p.Context

	caller, err := authz.RequireAnyRole(ctx, authz.HostAdministrator, authz.Administrator)
	if err != nil {
		return nil, err
	}

	projectArg := inputMap(p, "project")
	id, err := requireUint(projectArg, "id")
	if err != nil {
		return nil, err
	}

	loadCtx := ctx
	if caller.IsHostAdministrator() {
		loadCtx = tenancy.WithScope(ctx, tenancy.Unscoped())
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	var project model.Project
	if err := r.db.WithContext(loadCtx).First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFoundf("project not found")
		}
		return nil, apperror.Persistence(err)
	}

	project.Merge(model.ProjectChanges{Name: optString(projectArg, "name")})

	if err := r.db.WithContext(loadCtx).Save(&project).Error; err != nil {
		return nil, apperror.Persistence(err)
	}

	return &project, nil
}
