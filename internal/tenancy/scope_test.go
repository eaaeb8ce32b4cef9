package tenancy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScopeConstructors(t *testing.T) {
	s := ForTenant(42)
	id, ok := s.TenantID()
	require.True(t, ok)
	require.Equal(t, uint(42), id)
	require.False(t, s.IsHost())
	require.False(t, s.IsUnscoped())

	h := Host()
	_, ok = h.TenantID()
	require.False(t, ok)
	require.True(t, h.IsHost())

	u := Unscoped()
	require.True(t, u.IsUnscoped())
}

func TestScopeFor(t *testing.T) {
	id := uint(7)
	s := ScopeFor(&id)
	got, ok := s.TenantID()
	require.True(t, ok)
	require.Equal(t, uint(7), got)

	require.True(t, ScopeFor(nil).IsHost())
}

func TestScopeContextNesting(t *testing.T) {
	ctx := context.Background()

	_, ok := FromContext(ctx)
	require.False(t, ok)

	outer := WithScope(ctx, Host())
	inner := WithScope(outer, ForTenant(3))

	s, ok := FromContext(inner)
	require.True(t, ok)
	id, _ := s.TenantID()
	require.Equal(t, uint(3), id)

	// Dropping the derived context restores the outer scope
	s, ok = FromContext(outer)
	require.True(t, ok)
	require.True(t, s.IsHost())
}

func TestScopeString(t *testing.T) {
	require.Equal(t, "tenant(5)", ForTenant(5).String())
	require.Equal(t, "host", Host().String())
	require.Equal(t, "unscoped", Unscoped().String())
}
