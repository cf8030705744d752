package user

import "errors"

var (
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrInvalidRole          = errors.New("invalid role")
	ErrBranchAccessDenied   = errors.New("no access to this branch")
	ErrMasterAccessRequired = errors.New("master access required")
)
