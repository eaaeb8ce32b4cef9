// Package seed populates a fresh database with the host administrator,
// a default tenant and sample data. Every block runs under the scope
// that owns its rows and only fires on first run.
package seed

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"projecthub-service/internal/authz"
	"projecthub-service/internal/identity"
	"projecthub-service/internal/model"
	"projecthub-service/internal/tenancy"
	"projecthub-service/pkg/config"
	"projecthub-service/pkg/logger"
	"projecthub-service/prometheus"
)

const sampleUserPassword = "Pass123$"

// Run seeds the database. Safe to call on every startup.
func Run(db *gorm.DB, provider identity.Provider, cfg *config.SeedConfig) error {
	ctx := context.Background()
	log := logger.GetLogger()

	prometheus.RecordTenantOperation("seed")

	tenantID, err := seedDefaultTenant(ctx, db, log)
	if err != nil {
		return err
	}
	if err := seedHostRoles(ctx, db, log); err != nil {
		return err
	}
	if err := seedTenantRoles(ctx, db, log, tenantID); err != nil {
		return err
	}
	if err := seedUsers(ctx, db, log, provider, cfg, tenantID); err != nil {
		return err
	}
	if err := seedTasks(ctx, db, log, tenantID); err != nil {
		return err
	}

	var active int64
	if err := db.WithContext(ctx).Model(&model.Tenant{}).Count(&active).Error; err != nil {
		return err
	}
	prometheus.UpdateActiveTenants(int(active))
	return nil
}

func seedDefaultTenant(ctx context.Context, db *gorm.DB, log *zap.Logger) (uint, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&model.Tenant{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count == 0 {
		log.Info("Seeding default tenant")
		if err := db.WithContext(ctx).Create(&model.Tenant{Name: "default"}).Error; err != nil {
			return 0, err
		}
	}

	var tenant model.Tenant
	if err := db.WithContext(ctx).Order("id").First(&tenant).Error; err != nil {
		return 0, err
	}
	return tenant.ID, nil
}

func seedHostRoles(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	hostCtx := tenancy.WithScope(ctx, tenancy.Host())

	var count int64
	if err := db.WithContext(hostCtx).Model(&model.Role{}).
		Where("name = ?", authz.HostAdministrator.String()).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		log.Info("Seeding host administrator role")
		role := &model.Role{Name: authz.HostAdministrator.String(), IsStatic: true}
		if err := db.WithContext(hostCtx).Create(role).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedTenantRoles(ctx context.Context, db *gorm.DB, log *zap.Logger, tenantID uint) error {
	tenantCtx := tenancy.WithScope(ctx, tenancy.ForTenant(tenantID))

	for _, name := range []string{authz.Administrator.String(), authz.User.String()} {
		var count int64
		if err := db.WithContext(tenantCtx).Model(&model.Role{}).
			Where("name = ?", name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		log.Info("Seeding tenant role", zap.String("role", name), zap.Uint("tenant_id", tenantID))
		role := &model.Role{Name: name, IsStatic: true}
		if err := db.WithContext(tenantCtx).Create(role).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedUsers(ctx context.Context, db *gorm.DB, log *zap.Logger, provider identity.Provider, cfg *config.SeedConfig, tenantID uint) error {
	hostCtx := tenancy.WithScope(ctx, tenancy.Host())
	tenantCtx := tenancy.WithScope(ctx, tenancy.ForTenant(tenantID))

	var count int64
	if err := db.WithContext(hostCtx).Model(&model.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		log.Info("Seeding host administrator user")

		hash, err := provider.HashPassword(cfg.HostAdminPassword)
		if err != nil {
			return err
		}
		hostAdmin := &model.User{
			UserName:     "admin",
			Email:        cfg.HostAdminEmail,
			IsActive:     true,
			PasswordHash: hash,
		}
		if err := db.WithContext(hostCtx).Create(hostAdmin).Error; err != nil {
			return err
		}
		if err := appendRole(hostCtx, db, hostAdmin, authz.HostAdministrator.String()); err != nil {
			return err
		}
	}

	if err := db.WithContext(tenantCtx).Model(&model.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		log.Info("Seeding default tenant users", zap.Uint("tenant_id", tenantID))

		hash, err := provider.HashPassword(sampleUserPassword)
		if err != nil {
			return err
		}
		users := []*model.User{
			{UserName: "admin", Email: cfg.HostAdminEmail, IsActive: true, PasswordHash: hash},
			{FirstName: "John", LastName: "Doe", UserName: "jdoe", Email: "jdoe@123.com", IsActive: true, PasswordHash: hash},
			{FirstName: "Fred", LastName: "Flintstone", UserName: "fflintstone", Email: "fflintstone@gmail.com", IsActive: true, PasswordHash: hash},
			{FirstName: "Barney", LastName: "Rubble", UserName: "brubble", Email: "brubble@slate.com", IsActive: true, PasswordHash: hash},
		}
		for _, user := range users {
			if err := db.WithContext(tenantCtx).Create(user).Error; err != nil {
				return err
			}
			if user.UserName == "admin" {
				if err := appendRole(tenantCtx, db, user, authz.Administrator.String()); err != nil {
					return err
				}
			} else {
				if err := appendRole(tenantCtx, db, user, authz.User.String()); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func seedTasks(ctx context.Context, db *gorm.DB, log *zap.Logger, tenantID uint) error {
	tenantCtx := tenancy.WithScope(ctx, tenancy.ForTenant(tenantID))

	var count int64
	if err := db.WithContext(tenantCtx).Model(&model.Task{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	log.Info("Seeding default tenant projects and tasks", zap.Uint("tenant_id", tenantID))
	now := time.Now()

	project := &model.Project{Name: "Create a software product"}
	project2 := &model.Project{Name: "Create a second software product"}
	for _, p := range []*model.Project{project, project2} {
		if err := db.WithContext(tenantCtx).Create(p).Error; err != nil {
			return err
		}
	}

	tasks := []*model.Task{
		{ProjectID: project.ID, Name: "Create UI", Description: "Create a great looking user interface", DueDate: &now},
		{ProjectID: project.ID, Name: "Create Business logic", Description: "Create the business logic", DueDate: &now},
		{ProjectID: project2.ID, Name: "Create login form", Description: "Create a great looking login form", DueDate: &now},
		{ProjectID: project2.ID, Name: "Create logic for login", Description: "Create the logic for the login form", DueDate: &now},
	}
	for _, task := range tasks {
		if err := db.WithContext(tenantCtx).Create(task).Error; err != nil {
			return err
		}
	}
	return nil
}

// appendRole attaches the named role, looked up under the given scope,
// to the user
func appendRole(ctx context.Context, db *gorm.DB, user *model.User, roleName string) error {
	var role model.Role
	if err := db.WithContext(ctx).Where("name = ?", roleName).First(&role).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).Model(user).Association("Roles").Append(&role)
}
