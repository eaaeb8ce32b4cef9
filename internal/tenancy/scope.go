// Package tenancy implements row-level tenant isolation. The active scope
// is an immutable value carried on the request context, never a shared
// field, so concurrent requests cannot leak each other's tenant. Nesting a
// scope (e.g. seeding a freshly created tenant while the request runs at
// host level) is just deriving a child context; the outer context keeps
// the outer scope.
package tenancy

import (
	"context"
	"fmt"
)

type scopeKind int

const (
	scopeTenant scopeKind = iota
	scopeHost
	scopeUnscoped
)

// Scope restricts data access to one tenant's rows, to host-level rows
// (tenant id IS NULL), or to nothing at all.
type Scope struct {
	kind     scopeKind
	tenantID uint
}

// ForTenant scopes access to rows owned by the given tenant
func ForTenant(tenantID uint) Scope {
	return Scope{kind: scopeTenant, tenantID: tenantID}
}

// Host scopes access to host-level rows only (tenant id IS NULL)
func Host() Scope {
	return Scope{kind: scopeHost}
}

// Unscoped disables tenant filtering entirely. Reserved for seeding,
// migrations and explicit host-administrator bypass.
func Unscoped() Scope {
	return Scope{kind: scopeUnscoped}
}

// ScopeFor returns the scope matching a nullable tenant id: a specific
// tenant scope when non-nil, the host scope otherwise.
func ScopeFor(tenantID *uint) Scope {
	if tenantID != nil {
		return ForTenant(*tenantID)
	}
	return Host()
}

// TenantID returns the scoped tenant id when the scope names one
func (s Scope) TenantID() (uint, bool) {
	if s.kind == scopeTenant {
		return s.tenantID, true
	}
	return 0, false
}

// IsHost reports whether the scope is restricted to host-level rows
func (s Scope) IsHost() bool {
	return s.kind == scopeHost
}

// IsUnscoped reports whether tenant filtering is disabled
func (s Scope) IsUnscoped() bool {
	return s.kind == scopeUnscoped
}

func (s Scope) String() string {
	switch s.kind {
	case scopeTenant:
		return fmt.Sprintf("tenant(%d)", s.tenantID)
	case scopeHost:
		return "host"
	default:
		return "unscoped"
	}
}

type contextKey string

const scopeKey contextKey = "tenant_scope"

// WithScope installs the scope on the context. The previous scope, if any,
// stays on the parent context and is restored by simply dropping the
// derived one.
func WithScope(ctx context.Context, scope Scope) context.Context {
	return context.WithValue(ctx, scopeKey, scope)
}

// FromContext retrieves the active scope
func FromContext(ctx context.Context) (Scope, bool) {
	scope, ok := ctx.Value(scopeKey).(Scope)
	return scope, ok
}
