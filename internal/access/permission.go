// Package access is the single place where roles are mapped to the operations they may invoke.
package access

import "github.com/UnknownOlympus/chronos/internal/models"

// Permission names one guarded operation.
type Permission string

const (
	// Self service
	PermissionAttendanceSelf Permission = "attendance.self"
	PermissionProfileSelf    Permission = "profile.self"

	// Leave
	PermissionLeaveSubmit  Permission = "leave.submit"
	PermissionLeaveViewOwn Permission = "leave.view_own"
	PermissionLeaveViewAll Permission = "leave.view_all"
	PermissionLeaveDecide  Permission = "leave.decide"

	// Employee directory
	PermissionEmployeeManage Permission = "employee.manage"

	// Reports
	PermissionReportsView Permission = "reports.view"
)

var selfService = []Permission{
	PermissionAttendanceSelf,
	PermissionProfileSelf,
	PermissionLeaveSubmit,
	PermissionLeaveViewOwn,
}

var approver = append(append([]Permission{}, selfService...),
	PermissionLeaveViewAll,
	PermissionLeaveDecide,
	PermissionReportsView,
)

var administrator = append(append([]Permission{}, approver...),
	PermissionEmployeeManage,
)

// rolePermissions maps roles to their permissions.
var rolePermissions = map[models.Role]map[Permission]struct{}{
	models.RoleEmployee: set(selfService),
	models.RoleManager:  set(approver),
	models.RoleHR:       set(administrator),
	models.RoleAdmin:    set(administrator),
}

// Can reports whether the role holds the permission. Unknown roles hold nothing.
func Can(role models.Role, perm Permission) bool {
	_, ok := rolePermissions[role][perm]
	return ok
}

// Permissions lists the permissions of the role.
func Permissions(role models.Role) []Permission {
	perms := make([]Permission, 0, len(rolePermissions[role]))
	for _, p := range administrator {
		if Can(role, p) {
			perms = append(perms, p)
		}
	}
	return perms
}

func set(perms []Permission) map[Permission]struct{} {
	m := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		m[p] = struct{}{}
	}
	return m
}
