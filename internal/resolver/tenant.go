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

// addTenant creates a tenant, seeds its two static roles and creates its
// first administrator user, all in one transaction. The seeding runs
// under a scope nested to the new tenant while the request itself stays
// at host level.
func (r *Resolver) addTenant(p graphql.ResolveParams) (interface{}, error) {
	ctx := p.Context
	log := logger.FromContext(ctx)

	if _, err := authz.RequireRole(ctx, authz.HostAdministrator); err != nil {
		return nil, err
	}

	tenantArg := inputMap(p, "tenant")
	adminArg := inputMap(p, "adminUser")

	name, err := requireString(tenantArg, "name")
	if err != nil {
		return nil, err
	}

	prometheus.RecordTenantOperation("create")
	defer prometheus.TrackDBOperation("insert")(time.Now())

	tenant := &model.Tenant{Name: name}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(tenant).Error; err != nil {
			return apperror.Persistence(err)
		}

		// Everything owned by the new tenant is written under a scope
		// nested to it; the tenancy callback stamps the tenant id.
		seedCtx := tenancy.WithScope(ctx, tenancy.ForTenant(tenant.ID))
		stx := tx.WithContext(seedCtx)

		adminRole := &model.Role{Name: authz.Administrator.String(), IsStatic: true}
		userRole := &model.Role{Name: authz.User.String(), IsStatic: true}
		if err := stx.Create(adminRole).Error; err != nil {
			return apperror.Persistence(err)
		}
		if err := stx.Create(userRole).Error; err != nil {
			return apperror.Persistence(err)
		}

		admin := &model.User{
			UserName: "admin",
			IsActive: true,
		}
		admin.Merge(model.UserChanges{
			FirstName: optString(adminArg, "firstName"),
			LastName:  optString(adminArg, "lastName"),
			Email:     optString(adminArg, "email"),
		})

		if pw := optString(adminArg, "password"); pw != nil && *pw != "" {
			if err := r.identity.ValidatePassword(*pw); err != nil {
				return err
			}
			hash, err := r.identity.HashPassword(*pw)
			if err != nil {
				return apperror.Persistence(err)
			}
			admin.PasswordHash = hash
		}

		if err := stx.Create(admin).Error; err != nil {
			return apperror.Persistence(err)
		}
		if err := stx.Model(admin).Association("Roles").Append(adminRole); err != nil {
			return apperror.Persistence(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("Tenant created",
		zap.String("name", tenant.Name),
		zap.Uint("id", tenant.ID))

	var active int64
	if err := r.db.WithContext(ctx).Model(&model.Tenant{}).Count(&active).Error; err == nil {
		prometheus.UpdateActiveTenants(int(active))
	}

	return tenant, nil
}

// editTenant merges the allow-listed fields onto an existing tenant
func (r *Resolver) editTenant(p graphql.ResolveParams) (interface{}, error) {
	ctx := p.Context

	if _, err := authz.RequireRole(ctx, authz.HostAdministrator); err != nil {
		return nil, err
	}

	tenantArg := inputMap(p, "tenant")
	id, err := requireUint(tenantArg, "id")
	if err != nil {
		return nil, err
	}

	prometheus.RecordTenantOperation("update")
	defer prometheus.TrackDBOperation("update")(time.Now())

	var tenant model.Tenant
	if err := r.db.WithContext(ctx).First(&tenant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFoundf("tenant not found")
		}
		return nil, apperror.Persistence(err)
	}

	tenant.Merge(model.TenantChanges{Name: optString(tenantArg, "name")})

	if err := r.db.WithContext(ctx).Save(&tenant).Error; err != nil {
		return nil, apperror.Persistence(err)
	}

	return &tenant, nil
}
