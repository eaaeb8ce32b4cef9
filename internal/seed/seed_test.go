package seed

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"projecthub-service/internal/identity"
	"projecthub-service/internal/model"
	"projecthub-service/internal/tenancy"
	"projecthub-service/pkg/config"
	svcprom "projecthub-service/prometheus"
)

func seedTestDB(t *testing.T) (*gorm.DB, identity.Provider, *config.SeedConfig) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, tenancy.RegisterCallbacks(db))
	require.NoError(t, db.AutoMigrate(
		&model.Tenant{}, &model.Role{}, &model.User{}, &model.Project{}, &model.Task{}))

	provider := identity.NewLocalProvider(identity.DefaultPolicy())
	cfg := &config.SeedConfig{
		Enabled:           true,
		HostAdminEmail:    "admin@defaulttenant.com",
		HostAdminPassword: "Host123$",
	}
	return db, provider, cfg
}

func countRows(t *testing.T, db *gorm.DB, value interface{}) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(value).Count(&count).Error)
	return count
}

func TestRunSeedsEverything(t *testing.T) {
	db, provider, cfg := seedTestDB(t)
	require.NoError(t, Run(db, provider, cfg))

	require.Equal(t, int64(1), countRows(t, db, &model.Tenant{}))
	require.Equal(t, int64(3), countRows(t, db, &model.Role{}))
	require.Equal(t, int64(5), countRows(t, db, &model.User{}))
	require.Equal(t, int64(2), countRows(t, db, &model.Project{}))
	require.Equal(t, int64(4), countRows(t, db, &model.Task{}))

	var tenant model.Tenant
	require.NoError(t, db.First(&tenant).Error)
	require.Equal(t, "default", tenant.Name)

	require.Equal(t, float64(1), testutil.ToFloat64(svcprom.ActiveTenantsGauge))
}

func TestRunSeedsHostAdministrator(t *testing.T) {
	db, provider, cfg := seedTestDB(t)
	require.NoError(t, Run(db, provider, cfg))

	var hostAdmin model.User
	require.NoError(t, db.Preload("Roles").
		Where("tenant_id IS NULL AND user_name = ?", "admin").First(&hostAdmin).Error)
	require.True(t, hostAdmin.IsActive)
	require.Equal(t, cfg.HostAdminEmail, hostAdmin.Email)
	require.Equal(t, []string{"HostAdministrator"}, hostAdmin.RoleNames())
	require.True(t, provider.CheckPassword(hostAdmin.PasswordHash, cfg.HostAdminPassword))
}

func TestRunSeedsTenantUsersWithRoles(t *testing.T) {
	db, provider, cfg := seedTestDB(t)
	require.NoError(t, Run(db, provider, cfg))

	var tenant model.Tenant
	require.NoError(t, db.First(&tenant).Error)

	var tenantAdmin model.User
	require.NoError(t, db.Preload("Roles").
		Where("tenant_id = ? AND user_name = ?", tenant.ID, "admin").First(&tenantAdmin).Error)
	require.Equal(t, []string{"Administrator"}, tenantAdmin.RoleNames())
	require.True(t, provider.CheckPassword(tenantAdmin.PasswordHash, sampleUserPassword))

	var member model.User
	require.NoError(t, db.Preload("Roles").
		Where("tenant_id = ? AND user_name = ?", tenant.ID, "jdoe").First(&member).Error)
	require.Equal(t, []string{"User"}, member.RoleNames())
}

func TestRunSeedsTasksUnderDefaultTenant(t *testing.T) {
	db, provider, cfg := seedTestDB(t)
	require.NoError(t, Run(db, provider, cfg))

	var tenant model.Tenant
	require.NoError(t, db.First(&tenant).Error)

	var tasks []model.Task
	require.NoError(t, db.Find(&tasks).Error)
	require.Len(t, tasks, 4)
	for _, task := range tasks {
		require.Equal(t, tenant.ID, task.TenantID)
		require.NotZero(t, task.ProjectID)
		require.NotNil(t, task.DueDate)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	db, provider, cfg := seedTestDB(t)

	require.NoError(t, Run(db, provider, cfg))
	require.NoError(t, Run(db, provider, cfg))

	require.Equal(t, int64(1), countRows(t, db, &model.Tenant{}))
	require.Equal(t, int64(3), countRows(t, db, &model.Role{}))
	require.Equal(t, int64(5), countRows(t, db, &model.User{}))
	require.Equal(t, int64(2), countRows(t, db, &model.Project{}))
	require.Equal(t, int64(4), countRows(t, db, &model.Task{}))
}
