package model

// Permission is a typed code for a system action. Routes reference these
// constants instead of ad-hoc strings, and startup verifies the database
// permission table covers every code in AllPermissions.
type Permission string

const (
	// PermissionViewUsers allows viewing student lists and details.
	PermissionViewUsers Permission = "view_users"

	// PermissionManageUsers allows creating, editing, and deleting students.
	PermissionManageUsers Permission = "manage_users"

	// PermissionViewMasters allows viewing PC and class slot master data.
	PermissionViewMasters Permission = "view_masters"

	// PermissionManageMasters allows editing PC and class slot master data.
	PermissionManageMasters Permission = "manage_masters"

	// PermissionViewSchedules allows viewing schedules, rosters, and the
	// live dashboard.
	PermissionViewSchedules Permission = "view_schedules"

	// PermissionManageSchedules allows editing schedules and entry logs.
	PermissionManageSchedules Permission = "manage_schedules"

	// PermissionManageAdmins allows managing staff accounts and roles.
	PermissionManageAdmins Permission = "manage_admins"

	// PermissionPerformBackup allows data export and import.
	PermissionPerformBackup Permission = "perform_backup"
)

// AllPermissions is a slice of all available permissions.
var AllPermissions = []Permission{
	PermissionViewUsers,
	PermissionManageUsers,
	PermissionViewMasters,
	PermissionManageMasters,
	PermissionViewSchedules,
	PermissionManageSchedules,
	PermissionManageAdmins,
	PermissionPerformBackup,
}
