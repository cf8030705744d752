package branch

import "errors"

var (
	ErrBranchNotFound = errors.New("branch not found")
)
