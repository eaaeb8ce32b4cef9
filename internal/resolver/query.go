package resolver

import (
	"errors"
	"time"

	"github.com/graphql-go/graphql"
	"gorm.io/gorm"

	"projecthub-service/internal/apperror"
	"projecthub-service/internal/authz"
	"projecthub-service/internal/model"
	"projecthub-service/prometheus"
)

// Read resolvers carry no tenant predicates: isolation comes entirely
// from the tenancy callbacks and the scope installed by the middleware.

func (r *Resolver) me(p graphql.ResolveParams) (interface{}, error) {
	caller, err := authz.RequireCaller(p.Context)
	if err != nil {
		return nil, err
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var user model.User
	if err := r.db.WithContext(p.Context).Preload("Roles").First(&user, caller.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFoundf("user not found")
		}
		return nil, apperror.Persistence(err)
	}
	return &user, nil
}

func (r *Resolver) tenantByID(p graphql.ResolveParams) (interface{}, error) {
	if _, err := authz.RequireRole(p.Context, authz.HostAdministrator); err != nil {
		return nil, err
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var tenant model.Tenant
	if err := r.db.WithContext(p.Context).First(&tenant, p.Args["id"].(int)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFoundf("tenant not found")
		}
		return nil, apperror.Persistence(err)
	}
	return &tenant, nil
}

func (r *Resolver) tenants(p graphql.ResolveParams) (interface{}, error) {
	if _, err := authz.RequireRole(p.Context, authz.HostAdministrator); err != nil {
		return nil, err
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var tenants []*model.Tenant
	if err := r.db.WithContext(p.Context).Order("id").Find(&tenants).Error; err != nil {
		return nil, apperror.Persistence(err)
	}
	return tenants, nil
}

func (r *Resolver) userByID(p graphql.ResolveParams) (interface{}, error) {
	if _, err := authz.RequireCaller(p.Context); err != nil {
		return nil, err
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var user model.User
	if err := r.db.WithContext(p.Context).Preload("Roles").First(&user, p.Args["id"].(int)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFoundf("user not found")
		}
		return nil, apperror.Persistence(err)
	}
	return &user, nil
}

func (r *Resolver) users(p graphql.ResolveParams) (interface{}, error) {
	if _, err := authz.RequireCaller(p.Context); err != nil {
		return nil, err
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	q := r.db.WithContext(p.Context).Preload("Roles").Order("id")
	if isActive, ok := p.Args["isActive"].(bool); ok {
		q = q.Where("is_active = ?", isActive)
	}

	var users []*model.User
	if err := q.Find(&users).Error; err != nil {
		return nil, apperror.Persistence(err)
	}
	return users, nil
}

func (r *Resolver) projectByID(p graphql.ResolveParams) (interface{}, error) {
	if _, err := authz.RequireCaller(p.Context); err != nil {
		return nil, err
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var project model.Project
	if err := r.db.WithContext(p.Context).First(&project, p.Args["id"].(int)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFoundf("project not found")
		}
		return nil, apperror.Persistence(err)
	}
	return &project, nil
}

func (r *Resolver) projects(p graphql.ResolveParams) (interface{}, error) {
	if _, err := authz.RequireCaller(p.Context); err != nil {
		return nil, err
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	q := r.db.WithContext(p.Context).Order("id")
	if name, ok := p.Args["name"].(string); ok && name != "" {
		q = q.Where("name LIKE ?", "%"+name+"%")
	}

	var projects []*model.Project
	if err := q.Find(&projects).Error; err != nil {
		return nil, apperror.Persistence(err)
	}
	return projects, nil
}

func (r *Resolver) taskByID(p graphql.ResolveParams) (interface{}, error) {
	if _, err := authz.RequireCaller(p.Context); err != nil {
		return nil, err
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var task model.Task
	if err := r.db.WithContext(p.Context).First(&task, p.Args["id"].(int)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFoundf("task not found")
		}
		return nil, apperror.Persistence(err)
	}
	return &task, nil
}

func (r *Resolver) tasks(p graphql.ResolveParams) (interface{}, error) {
	if _, err := authz.RequireCaller(p.Context); err != nil {
		return nil, err
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	q := r.db.WithContext(p.Context).Order("id")
	if projectID, ok := p.Args["projectId"].(int); ok {
		q = q.Where("project_id = ?", projectID)
	}
	if completed, ok := p.Args["completed"].(bool); ok {
		q = q.Where("completed = ?", completed)
	}

	var tasks []*model.Task
	if err := q.Find(&tasks).Error; err != nil {
		return nil, apperror.Persistence(err)
	}
	return tasks, nil
}
