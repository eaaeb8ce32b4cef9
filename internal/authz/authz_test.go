package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"projecthub-service/internal/apperror"
)

func uintPtr(v uint) *uint { return &v }

func callerCtx(caller *Caller) context.Context {
	return WithCaller(context.Background(), caller)
}

func TestParseRoles(t *testing.T) {
	roles := ParseRoles([]string{"HostAdministrator", "Administrator", "User", "Auditor"})
	require.Equal(t, []Role{HostAdministrator, Administrator, User, Role("Auditor")}, roles)
}

func TestHasRole(t *testing.T) {
	caller := &Caller{Roles: []Role{Administrator, Role("Auditor")}}
	require.True(t, caller.HasRole(Administrator))
	require.True(t, caller.HasRole(Role("Auditor")))
	require.False(t, caller.HasRole(HostAdministrator))
	require.False(t, caller.IsHostAdministrator())
}

func TestRequireCallerWithoutIdentity(t *testing.T) {
	_, err := RequireCaller(context.Background())
	require.Error(t, err)
	require.True(t, apperror.IsKind(err, apperror.KindAuthorization))
}

func TestRequireRole(t *testing.T) {
	ctx := callerCtx(&Caller{ID: 1, Roles: []Role{Administrator}})

	caller, err := RequireRole(ctx, Administrator)
	require.NoError(t, err)
	require.Equal(t, uint(1), caller.ID)

	_, err = RequireRole(ctx, HostAdministrator)
	require.Error(t, err)
	require.True(t, apperror.IsKind(err, apperror.KindAuthorization))
	require.Contains(t, err.Error(), "HostAdministrator")
}

func TestRequireAnyRole(t *testing.T) {
	ctx := callerCtx(&Caller{ID: 2, Roles: []Role{User}})

	_, err := RequireAnyRole(ctx, HostAdministrator, Administrator, User)
	require.NoError(t, err)

	_, err = RequireAnyRole(ctx, HostAdministrator, Administrator)
	require.Error(t, err)
	require.Contains(t, err.Error(), "HostAdministrator, Administrator")
}

func TestAssignTenantHostAdministratorKeepsDeclared(t *testing.T) {
	ctx := callerCtx(&Caller{ID: 1, Roles: []Role{HostAdministrator}})

	got, err := AssignTenantOrFail(ctx, uintPtr(9))
	require.NoError(t, err)
	require.Equal(t, uint(9), *got)

	got, err = AssignTenantOrFail(ctx, nil)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestAssignTenantForcesCallerTenant(t *testing.T) {
	ctx := callerCtx(&Caller{ID: 3, TenantID: uintPtr(4), Roles: []Role{Administrator}})

	// The declared tenant is ignored for non-host callers
	got, err := AssignTenantOrFail(ctx, uintPtr(9))
	require.NoError(t, err)
	require.Equal(t, uint(4), *got)
}

func TestAssignTenantRejectsTenantlessNonHost(t *testing.T) {
	ctx := callerCtx(&Caller{ID: 5, Roles: []Role{Administrator}})

	_, err := AssignTenantOrFail(ctx, uintPtr(1))
	require.Error(t, err)
	require.True(t, apperror.IsKind(err, apperror.KindAuthorization))
}
