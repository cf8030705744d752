package user

import "slices"

type Role string

const (
	RoleMaster  Role = "master"  // All branches
	RoleManager Role = "manager" // Only the branches listed in the token
)

// Principal is the caller resolved from a verified access token.
type Principal struct {
	UserID    string
	Role      Role
	BranchIDs []string
}

// IsMaster checks if the caller may act on every branch
func (p Principal) IsMaster() bool {
	return p.Role == RoleMaster
}

// CanAccessBranch reports whether the caller may read or write branchID.
func (p Principal) CanAccessBranch(branchID string) bool {
	if p.IsMaster() {
		return true
	}
	return p.Role == RoleManager && slices.Contains(p.BranchIDs, branchID)
}

// IsValidRole checks role against the known roles
func IsValidRole(role Role) bool {
	return role == RoleMaster || role == RoleManager
}
