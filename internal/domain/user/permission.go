package user

type Permission string

const (
	// Reconciliation
	PermissionReconciliationView Permission = "reconciliation.view"
	PermissionReconciliationEdit Permission = "reconciliation.edit"
	PermissionReviewComplete     Permission = "review.complete"
	PermissionReviewReopen       Permission = "review.reopen"

	// Payroll
	PermissionPayrollCalculate Permission = "payroll.calculate"
	PermissionPayrollConfirm   Permission = "payroll.confirm"
	PermissionPayrollUnconfirm Permission = "payroll.unconfirm"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleMaster: {
		PermissionReconciliationView,
		PermissionReconciliationEdit,
		PermissionReviewComplete,
		PermissionReviewReopen,
		PermissionPayrollCalculate,
		PermissionPayrollConfirm,
		PermissionPayrollUnconfirm,
	},
	RoleManager: {
		// Managers prepare a month; releasing a confirmed payroll is left to masters
		PermissionReconciliationView,
		PermissionReconciliationEdit,
		PermissionReviewComplete,
		PermissionReviewReopen,
		PermissionPayrollCalculate,
		PermissionPayrollConfirm,
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
