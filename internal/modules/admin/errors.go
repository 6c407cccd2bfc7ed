package admin

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailExists     = errors.New("email already registered")
	ErrMemberNotFound  = errors.New("family member not found")
	ErrMemberForbidden = errors.New("family member belongs to another tenant")
)
