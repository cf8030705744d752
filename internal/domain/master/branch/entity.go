package branch

import "time"

// UnknownBranchName is shown when a branch can no longer be resolved.
const UnknownBranchName = "unknown branch"

type Branch struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}
