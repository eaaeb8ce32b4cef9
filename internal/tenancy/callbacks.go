package tenancy

import (
	"reflect"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"

	"projecthub-service/internal/apperror"
)

// tenantColumn is the column every tenant-owned model carries. Models
// without it (Tenant itself) are never filtered.
const tenantColumn = "tenant_id"

// RegisterCallbacks installs the tenant isolation callbacks on the gorm
// instance. After registration every query, row scan, update and delete
// against a tenant-owned model is rewritten with the active scope's
// predicate, and every create is stamped with (or validated against) the
// active tenant. Call sites never repeat tenant predicates.
func RegisterCallbacks(db *gorm.DB) error {
	if err := db.Callback().Query().Before("gorm:query").Register("tenancy:query", addScopePredicate); err != nil {
		return err
	}
	if err := db.Callback().Row().Before("gorm:row").Register("tenancy:row", addScopePredicate); err != nil {
		return err
	}
	if err := db.Callback().Update().Before("gorm:update").Register("tenancy:update", addScopePredicate); err != nil {
		return err
	}
	if err := db.Callback().Delete().Before("gorm:delete").Register("tenancy:delete", addScopePredicate); err != nil {
		return err
	}
	return db.Callback().Create().Before("gorm:create").Register("tenancy:create", stampTenantOnCreate)
}

// addScopePredicate narrows the statement to the active scope's rows
func addScopePredicate(db *gorm.DB) {
	scope, ok := FromContext(db.Statement.Context)
	if !ok || scope.IsUnscoped() {
		return
	}
	if db.Statement.Schema == nil || db.Statement.Schema.LookUpField(tenantColumn) == nil {
		return
	}

	column := clause.Column{Table: clause.CurrentTable, Name: tenantColumn}
	if tenantID, scoped := scope.TenantID(); scoped {
		db.Statement.AddClause(clause.Where{Exprs: []clause.Expression{
			clause.Eq{Column: column, Value: tenantID},
		}})
	} else {
		// Host scope: nil renders as IS NULL
		db.Statement.AddClause(clause.Where{Exprs: []clause.Expression{
			clause.Eq{Column: column, Value: nil},
		}})
	}
}

// stampTenantOnCreate assigns the active tenant id to rows being created
// and rejects rows that declare a different tenant. Host and unscoped
// creates are left untouched; only a specific tenant scope constrains
// writes.
func stampTenantOnCreate(db *gorm.DB) {
	scope, ok := FromContext(db.Statement.Context)
	if !ok || scope.IsUnscoped() || scope.IsHost() {
		return
	}
	if db.Statement.Schema == nil {
		return
	}
	field := db.Statement.Schema.LookUpField(tenantColumn)
	if field == nil {
		return
	}

	tenantID, _ := scope.TenantID()

	switch db.Statement.ReflectValue.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < db.Statement.ReflectValue.Len(); i++ {
			stampValue(db, field, db.Statement.ReflectValue.Index(i), tenantID)
		}
	case reflect.Struct:
		stampValue(db, field, db.Statement.ReflectValue, tenantID)
	}
}

func stampValue(db *gorm.DB, field *schema.Field, value reflect.Value, tenantID uint) {
	for value.Kind() == reflect.Ptr {
		if value.IsNil() {
			return
		}
		value = value.Elem()
	}

	current, isZero := field.ValueOf(db.Statement.Context, value)
	if isZero {
		if err := field.Set(db.Statement.Context, value, tenantID); err != nil {
			db.AddError(err)
		}
		return
	}

	declared, ok := tenantIDValue(current)
	if !ok {
		return
	}
	if declared != tenantID {
		db.AddError(apperror.Authorizationf(
			"unauthorized: cannot write a row for tenant %d while scoped to tenant %d", declared, tenantID))
	}
}

// tenantIDValue normalizes the reflected tenant id field value
func tenantIDValue(v interface{}) (uint, bool) {
	switch id := v.(type) {
	case uint:
		return id, true
	case *uint:
		if id == nil {
			return 0, false
		}
		return *id, true
	case int:
		return uint(id), true
	case int64:
		return uint(id), true
	case uint64:
		return uint(id), true
	default:
		return 0, false
	}
}
