// Package resolver builds the GraphQL schema at runtime and implements
// its query and mutation resolvers. Every mutation follows the same
// composition: authorize, assign or validate the tenant, merge
// allow-listed fields, persist transactionally.
package resolver

import (
	"time"

	"github.com/graphql-go/graphql"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"projecthub-service/internal/apperror"
	"projecthub-service/internal/identity"
	"projecthub-service/pkg/logger"
	"projecthub-service/prometheus"
)

// Resolver holds the collaborators every field resolver needs
type Resolver struct {
	db       *gorm.DB
	identity identity.Provider
}

// New creates a resolver backed by the given store and identity provider
func New(db *gorm.DB, provider identity.Provider) *Resolver {
	return &Resolver{db: db, identity: provider}
}

// operation wraps a field resolver with per-operation metrics and error
// logging. Errors keep their kind; nothing is swallowed or retried.
func (r *Resolver) operation(name string, fn graphql.FieldResolveFn) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		prometheus.RecordOperation(name)
		result, err := fn(p)
		if err != nil {
			if kind := apperror.KindOf(err); kind != "" {
				prometheus.RecordErrorKind(string(kind))
			}
			logger.FromContext(p.Context).Warn("GraphQL operation failed",
				zap.String("operation", name),
				zap.Error(err))
		}
		return result, err
	}
}

// Argument decoding helpers. graphql-go hands input objects to resolvers
// as map[string]interface{}; these narrow them to the field types the
// mutations work with.

func inputMap(p graphql.ResolveParams, key string) map[string]interface{} {
	if m, ok := p.Args[key].(map[string]interface{}); ok {
		return m
	}
	return map[string]interface{}{}
}

func optString(m map[string]interface{}, key string) *string {
	if v, ok := m[key].(string); ok {
		return &v
	}
	return nil
}

func optBool(m map[string]interface{}, key string) *bool {
	if v, ok := m[key].(bool); ok {
		return &v
	}
	return nil
}

func optUint(m map[string]interface{}, key string) *uint {
	if v, ok := m[key].(int); ok && v >= 0 {
		u := uint(v)
		return &u
	}
	return nil
}

func optTime(m map[string]interface{}, key string) *time.Time {
	if v, ok := m[key].(time.Time); ok {
		return &v
	}
	return nil
}

func requireString(m map[string]interface{}, key string) (string, error) {
	v := optString(m, key)
	if v == nil || *v == "" {
		return "", apperror.ValidationField(key, key+" is required")
	}
	return *v, nil
}

func requireUint(m map[string]interface{}, key string) (uint, error) {
	v := optUint(m, key)
	if v == nil {
		return 0, apperror.ValidationField(key, key+" is required")
	}
	return *v, nil
}
