// Package authz gates mutations behind declared role requirements. Checks
// return typed errors instead of panicking so resolvers compose failure
// propagation explicitly.
package authz

import (
	"context"
	"strings"

	"projecthub-service/internal/apperror"
)

// Caller is the authenticated identity of the current request, built by
// the auth middleware from externally-issued claims. TenantID is nil for
// host-level callers.
type Caller struct {
	ID       uint
	UserName string
	Email    string
	TenantID *uint
	Roles    []Role
}

// HasRole reports whether the caller carries the given role
func (c *Caller) HasRole(role Role) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsHostAdministrator reports whether the caller may act across tenants
func (c *Caller) IsHostAdministrator() bool {
	return c.HasRole(HostAdministrator)
}

type contextKey string

const callerKey contextKey = "caller"

// WithCaller installs the caller on the context for the request's lifetime
func WithCaller(ctx context.Context, caller *Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

// CallerFromContext retrieves the caller installed by the auth middleware
func CallerFromContext(ctx context.Context) (*Caller, bool) {
	caller, ok := ctx.Value(callerKey).(*Caller)
	return caller, ok
}

// RequireCaller returns the caller or an authorization error when the
// request carries no identity
func RequireCaller(ctx context.Context) (*Caller, error) {
	caller, ok := CallerFromContext(ctx)
	if !ok {
		return nil, apperror.Authorizationf("authentication required")
	}
	return caller, nil
}

// RequireRole returns the caller when it carries the given role
func RequireRole(ctx context.Context, role Role) (*Caller, error) {
	caller, err := RequireCaller(ctx)
	if err != nil {
		return nil, err
	}
	if !caller.HasRole(role) {
		return nil, apperror.Authorizationf(
			"unauthorized: you have to be a member of the %s role to perform this operation", role)
	}
	return caller, nil
}

// RequireAnyRole returns the caller when it carries at least one of the
// given roles
func RequireAnyRole(ctx context.Context, roles ...Role) (*Caller, error) {
	caller, err := RequireCaller(ctx)
	if err != nil {
		return nil, err
	}
	for _, role := range roles {
		if caller.HasRole(role) {
			return caller, nil
		}
	}
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.String())
	}
	return nil, apperror.Authorizationf(
		"unauthorized: you have to be a member of one of the following roles to perform this operation: %s",
		strings.Join(names, ", "))
}

// AssignTenantOrFail resolves the tenant id a new entity must carry. Host
// administrators keep whatever the input declared (nil included); every
// other caller has their own tenant id forced onto the entity. A caller
// with no tenant id who is not a host administrator cannot own anything.
func AssignTenantOrFail(ctx context.Context, declared *uint) (*uint, error) {
	caller, err := RequireCaller(ctx)
	if err != nil {
		return nil, err
	}
	if caller.IsHostAdministrator() {
		return declared, nil
	}
	if caller.TenantID == nil {
		return nil, apperror.Authorizationf(
			"unauthorized: a caller without a tenant must be a member of the %s role", HostAdministrator)
	}
	return caller.TenantID, nil
}
