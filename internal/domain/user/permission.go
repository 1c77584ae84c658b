package user

type Permission string

const (
	// Self service
	PermissionTimesheetOwn Permission = "timesheet.own"
	PermissionLeaveOwn     Permission = "leave.own"

	// Team review
	PermissionTimesheetReview Permission = "timesheet.review"
	PermissionLeaveDecide     Permission = "leave.decide"
	PermissionTeamView        Permission = "team.view"
	PermissionReportsExport   Permission = "reports.export"

	// Administration
	PermissionUserManage Permission = "user.manage"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionTimesheetOwn,
		PermissionLeaveOwn,
		PermissionTimesheetReview,
		PermissionLeaveDecide,
		PermissionTeamView,
		PermissionReportsExport,
		PermissionUserManage,
	},
	RoleManager: {
		PermissionTimesheetOwn,
		PermissionLeaveOwn,
		PermissionTimesheetReview,
		PermissionLeaveDecide,
		PermissionTeamView,
		PermissionReportsExport,
	},
	RoleEmployee: {
		PermissionTimesheetOwn,
		PermissionLeaveOwn,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
