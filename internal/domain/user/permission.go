package user

type Permission string

const (
	// Shift catalog
	PermissionShiftView Permission = "shift.view"

	// Roster Management
	PermissionRosterManage  Permission = "roster.manage"
	PermissionRosterViewAll Permission = "roster.view_all"

	// Attendance
	PermissionAttendanceClock   Permission = "attendance.clock"
	PermissionAttendanceViewOwn Permission = "attendance.view_own"
	PermissionAttendanceExport  Permission = "attendance.export"

	// Leave Management
	PermissionLeaveViewOwn Permission = "leave.view_own"
	PermissionLeaveCreate  Permission = "leave.create"
	PermissionLeaveViewAll Permission = "leave.view_all"
	PermissionLeaveApprove Permission = "leave.approve"

	// History
	PermissionHistoryViewOwn Permission = "history.view_own"
	PermissionHistoryViewAll Permission = "history.view_all"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		// Owner sees every branch and reviews but is not on rosters
		PermissionShiftView,
		PermissionRosterManage,
		PermissionRosterViewAll,
		PermissionAttendanceExport,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionHistoryViewOwn,
		PermissionHistoryViewAll,
	},
	RoleManager: {
		// Manager runs the branch and is scheduled like staff
		PermissionShiftView,
		PermissionRosterManage,
		PermissionRosterViewAll,
		PermissionAttendanceClock,
		PermissionAttendanceViewOwn,
		PermissionAttendanceExport,
		PermissionLeaveViewOwn,
		PermissionLeaveCreate,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionHistoryViewOwn,
		PermissionHistoryViewAll,
	},
	RoleEmployee: {
		PermissionShiftView,
		PermissionAttendanceClock,
		PermissionAttendanceViewOwn,
		PermissionLeaveViewOwn,
		PermissionLeaveCreate,
		PermissionHistoryViewOwn,
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

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	_, ok := RolePermissions[r]
	return ok
}
