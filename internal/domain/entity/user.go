package entity

// Roles y permisos reconocidos en los claims del token.
const (
	RoleAdmin    = "admin"
	RoleService  = "service"
	RoleOperator = "operator"

	PermissionManageSettings = "MANAGE_SETTINGS"
)
