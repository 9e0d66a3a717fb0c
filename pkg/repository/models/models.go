package models

// AllModels returns every model for schema auto-migration.
func AllModels() []any {
	return []any{
		&Organization{},
		&Subject{},
		&Role{},
		&RolePermission{},
		&Document{},
		&DocumentACL{},
	}
}
