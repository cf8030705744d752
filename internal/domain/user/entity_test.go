package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrincipal_CanAccessBranch(t *testing.T) {
	master := Principal{UserID: "u1", Role: RoleMaster}
	manager := Principal{UserID: "u2", Role: RoleManager, BranchIDs: []string{"br-1"}}
	unknown := Principal{UserID: "u3", Role: Role("owner"), BranchIDs: []string{"br-1"}}

	assert.True(t, master.CanAccessBranch("anything"))
	assert.True(t, manager.CanAccessBranch("br-1"))
	assert.False(t, manager.CanAccessBranch("br-2"))
	assert.False(t, unknown.CanAccessBranch("br-1"))
}

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(RoleMaster, PermissionPayrollUnconfirm))
	assert.False(t, HasPermission(RoleManager, PermissionPayrollUnconfirm))
	assert.True(t, HasPermission(RoleManager, PermissionReviewComplete))
	assert.False(t, HasPermission(Role("pending"), PermissionReconciliationView))
}
