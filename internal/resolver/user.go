package resolver

import (
	"errors"
	"time"

	"github.com/graphql-go/graphql"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"projecthub-service/internal/apperror"
	"projecthub-service/internal/authz"
	"projecthub-service/internal/model"
	"projecthub-service/internal/tenancy"
	"projecthub-service/pkg/logger"
	"projecthub-service/prometheus"
)

func userChangesFrom(m map[string]interface{}) model.UserChanges {
	return model.UserChanges{
		FirstName: optString(m, "firstName"),
		LastName:  optString(m, "lastName"),
		UserName:  optString(m, "userName"),
		Email:     optString(m, "email"),
		IsActive:  optBool(m, "isActive"),
	}
}

// addUser creates a user. The client-supplied id is ignored; the tenant
// id comes from the caller unless the caller is a host administrator.
func (r *Resolver) addUser(p graphql.ResolveParams) (interface{}, error) {
	ctx := p.Context
	log := logger.FromContext(ctx)

	if _, err := authz.RequireAnyRole(ctx, authz.HostAdministrator, authz.Administrator); err != nil {
		return nil, err
	}

	userArg := inputMap(p, "user")
	userName, err := requireString(userArg, "userName")
	if err != nil {
		return nil, err
	}

	tenantID, err := authz.AssignTenantOrFail(ctx, optUint(userArg, "tenantId"))
	if err != nil {
		return nil, err
	}

	// All reads and writes for the new user happen under the scope of the
	// tenant it will belong to (the host scope for host-level users).
	targetCtx := tenancy.WithScope(ctx, tenancy.ScopeFor(tenantID))

	defer prometheus.TrackDBOperation("insert")(time.Now())

	var count int64
	if err := r.db.WithContext(targetCtx).Model(&model.User{}).
		Where("user_name = ?", userName).Count(&count).Error; err != nil {
		return nil, apperror.Persistence(err)
	}
	if count > 0 {
		return nil, apperror.ValidationField("userName", "userName is already taken in this tenant")
	}

	user := &model.User{TenantID: tenantID}
	user.Merge(userChangesFrom(userArg))

	if pw := optString(userArg, "password"); pw != nil && *pw != "" {
		if err := r.identity.ValidatePassword(*pw); err != nil {
			return nil, err
		}
		hash, err := r.identity.HashPassword(*pw)
		if err != nil {
			return nil, apperror.Persistence(err)
		}
		user.PasswordHash = hash
	}

	if err := r.db.WithContext(targetCtx).Create(user).Error; err != nil {
		return nil, apperror.Persistence(err)
	}

	log.Info("User created",
		zap.Uint("id", user.ID),
		zap.String("user_name", user.UserName))

	return user, nil
}

// editUser merges the allow-listed fields onto an existing user. Any
// caller may edit their own record; editing others requires an
// administrator role. A supplied password is validated before any other
// field is touched so a rejected password leaves the record unchanged.
func (r *Resolver) editUser(p graphql.ResolveParams) (interface{}, error) {
	ctx := p.Context
	log := logger.FromContext(ctx)

	caller, err := authz.RequireCaller(ctx)
	if err != nil {
		return nil, err
	}

	userArg := inputMap(p, "user")
	id, err := requireUint(userArg, "id")
	if err != nil {
		return nil, err
	}

	isAdmin := caller.HasRole(authz.HostAdministrator) || caller.HasRole(authz.Administrator)
	isEditingSelf := caller.ID == id
	if !isAdmin && !isEditingSelf {
		return nil, apperror.Authorizationf(
			"unauthorized: you have to be a member of the %s or %s role to be able to edit any user,"+
				" otherwise you can only edit your own user (id: %d)",
			authz.HostAdministrator, authz.Administrator, caller.ID)
	}

	// Host administrators reach across tenants; everyone else stays inside
	// the request scope, which makes foreign-tenant users look absent.
	loadCtx := ctx
	if caller.IsHostAdministrator() {
		loadCtx = tenancy.WithScope(ctx, tenancy.Unscoped())
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	var user model.User
	if err := r.db.WithContext(loadCtx).Preload("Roles").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFoundf("user not found")
		}
		return nil, apperror.Persistence(err)
	}

	// A rename must stay unique within the user's own tenant
	if newName := optString(userArg, "userName"); newName != nil && *newName != user.UserName {
		nameCtx := tenancy.WithScope(ctx, tenancy.ScopeFor(user.TenantID))
		var count int64
		if err := r.db.WithContext(nameCtx).Model(&model.User{}).
			Where("user_name = ? AND id <> ?", *newName, user.ID).Count(&count).Error; err != nil {
			return nil, apperror.Persistence(err)
		}
		if count > 0 {
			return nil, apperror.ValidationField("userName", "userName is already taken in this tenant")
		}
	}

	// Validate the new password before mutating anything else
	var newHash string
	if pw := optString(userArg, "password"); pw != nil && *pw != "" {
		if err := r.identity.ValidatePassword(*pw); err != nil {
			return nil, err
		}
		hash, err := r.identity.HashPassword(*pw)
		if err != nil {
			return nil, apperror.Persistence(err)
		}
		newHash = hash
	}

	user.Merge(userChangesFrom(userArg))
	if newHash != "" {
		user.PasswordHash = newHash
	}

	if err := r.db.WithContext(loadCtx).Omit(clause.Associations).Save(&user).Error; err != nil {
		return nil, apperror.Persistence(err)
	}

	log.Info("User updated", zap.Uint("id", user.ID))

	return &user, nil
}
