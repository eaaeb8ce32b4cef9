package tenancy_test

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"projecthub-service/internal/apperror"
	"projecthub-service/internal/model"
	"projecthub-service/internal/tenancy"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, tenancy.RegisterCallbacks(db))
	require.NoError(t, db.AutoMigrate(
		&model.Tenant{}, &model.Role{}, &model.User{}, &model.Project{}, &model.Task{}))
	return db
}

type fixture struct {
	db      *gorm.DB
	tenantA model.Tenant
	tenantB model.Tenant
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{db: newTestDB(t)}
	ctx := context.Background()

	f.tenantA = model.Tenant{Name: "alpha"}
	f.tenantB = model.Tenant{Name: "beta"}
	require.NoError(t, f.db.WithContext(ctx).Create(&f.tenantA).Error)
	require.NoError(t, f.db.WithContext(ctx).Create(&f.tenantB).Error)

	ctxA := tenancy.WithScope(ctx, tenancy.ForTenant(f.tenantA.ID))
	ctxB := tenancy.WithScope(ctx, tenancy.ForTenant(f.tenantB.ID))
	hostCtx := tenancy.WithScope(ctx, tenancy.Host())

	require.NoError(t, f.db.WithContext(ctxA).Create(&model.Project{Name: "alpha project"}).Error)
	require.NoError(t, f.db.WithContext(ctxB).Create(&model.Project{Name: "beta project"}).Error)

	require.NoError(t, f.db.WithContext(hostCtx).Create(&model.User{UserName: "hostadmin", IsActive: true}).Error)
	require.NoError(t, f.db.WithContext(ctxA).Create(&model.User{UserName: "alice", IsActive: true}).Error)
	require.NoError(t, f.db.WithContext(ctxB).Create(&model.User{UserName: "bob", IsActive: true}).Error)

	return f
}

func (f *fixture) ctxFor(tenantID uint) context.Context {
	return tenancy.WithScope(context.Background(), tenancy.ForTenant(tenantID))
}

func TestScopedReadsExcludeOtherTenants(t *testing.T) {
	f := newFixture(t)

	var projects []model.Project
	require.NoError(t, f.db.WithContext(f.ctxFor(f.tenantA.ID)).Find(&projects).Error)
	require.Len(t, projects, 1)
	require.Equal(t, "alpha project", projects[0].Name)
	require.Equal(t, f.tenantA.ID, projects[0].TenantID)

	projects = nil
	require.NoError(t, f.db.WithContext(f.ctxFor(f.tenantB.ID)).Find(&projects).Error)
	require.Len(t, projects, 1)
	require.Equal(t, "beta project", projects[0].Name)
}

func TestHostScopeSeesOnlyTenantlessRows(t *testing.T) {
	f := newFixture(t)
	hostCtx := tenancy.WithScope(context.Background(), tenancy.Host())

	var users []model.User
	require.NoError(t, f.db.WithContext(hostCtx).Find(&users).Error)
	require.Len(t, users, 1)
	require.Equal(t, "hostadmin", users[0].UserName)
	require.Nil(t, users[0].TenantID)
}

func TestUnscopedSeesEverything(t *testing.T) {
	f := newFixture(t)
	ctx := tenancy.WithScope(context.Background(), tenancy.Unscoped())

	var count int64
	require.NoError(t, f.db.WithContext(ctx).Model(&model.User{}).Count(&count).Error)
	require.Equal(t, int64(3), count)
}

func TestModelsWithoutTenantColumnAreNeverFiltered(t *testing.T) {
	f := newFixture(t)

	var tenants []model.Tenant
	require.NoError(t, f.db.WithContext(f.ctxFor(f.tenantA.ID)).Find(&tenants).Error)
	require.Len(t, tenants, 2)
}

func TestCreateStampsActiveTenant(t *testing.T) {
	f := newFixture(t)

	project := model.Project{Name: "stamped"}
	require.NoError(t, f.db.WithContext(f.ctxFor(f.tenantA.ID)).Create(&project).Error)
	require.Equal(t, f.tenantA.ID, project.TenantID)
}

func TestCreateRejectsForeignTenant(t *testing.T) {
	f := newFixture(t)

	project := model.Project{Name: "smuggled", TenantID: f.tenantB.ID}
	err := f.db.WithContext(f.ctxFor(f.tenantA.ID)).Create(&project).Error
	require.Error(t, err)
	require.True(t, apperror.IsKind(err, apperror.KindAuthorization))

	var count int64
	require.NoError(t, f.db.Model(&model.Project{}).Where("name = ?", "smuggled").Count(&count).Error)
	require.Equal(t, int64(0), count)
}

func TestCreateSliceStampsEveryRow(t *testing.T) {
	f := newFixture(t)

	tasks := []*model.Task{
		{Name: "first", ProjectID: 1},
		{Name: "second", ProjectID: 1},
	}
	require.NoError(t, f.db.WithContext(f.ctxFor(f.tenantA.ID)).Create(&tasks).Error)
	for _, task := range tasks {
		require.Equal(t, f.tenantA.ID, task.TenantID)
	}
}

func TestUpdateCannotReachForeignRow(t *testing.T) {
	f := newFixture(t)

	var foreign model.Project
	require.NoError(t, f.db.WithContext(f.ctxFor(f.tenantB.ID)).First(&foreign).Error)

	res := f.db.WithContext(f.ctxFor(f.tenantA.ID)).
		Model(&model.Project{}).Where("id = ?", foreign.ID).Update("name", "hijacked")
	require.NoError(t, res.Error)
	require.Equal(t, int64(0), res.RowsAffected)

	var reloaded model.Project
	require.NoError(t, f.db.First(&reloaded, foreign.ID).Error)
	require.Equal(t, "beta project", reloaded.Name)
}

func TestDeleteCannotReachForeignRow(t *testing.T) {
	f := newFixture(t)

	var foreign model.Project
	require.NoError(t, f.db.WithContext(f.ctxFor(f.tenantB.ID)).First(&foreign).Error)

	res := f.db.WithContext(f.ctxFor(f.tenantA.ID)).Delete(&model.Project{}, foreign.ID)
	require.NoError(t, res.Error)
	require.Equal(t, int64(0), res.RowsAffected)

	var count int64
	require.NoError(t, f.db.Model(&model.Project{}).Where("id = ?", foreign.ID).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestFirstUnderForeignScopeIsNotFound(t *testing.T) {
	f := newFixture(t)

	var foreign model.Project
	require.NoError(t, f.db.WithContext(f.ctxFor(f.tenantB.ID)).First(&foreign).Error)

	var project model.Project
	err := f.db.WithContext(f.ctxFor(f.tenantA.ID)).First(&project, foreign.ID).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestNestedScopesApplyInnermost(t *testing.T) {
	f := newFixture(t)

	outer := f.ctxFor(f.tenantA.ID)
	inner := tenancy.WithScope(outer, tenancy.ForTenant(f.tenantB.ID))

	var projects []model.Project
	require.NoError(t, f.db.WithContext(inner).Find(&projects).Error)
	require.Len(t, projects, 1)
	require.Equal(t, "beta project", projects[0].Name)

	// The outer context is untouched by the derived scope
	projects = nil
	require.NoError(t, f.db.WithContext(outer).Find(&projects).Error)
	require.Len(t, projects, 1)
	require.Equal(t, "alpha project", projects[0].Name)
}
