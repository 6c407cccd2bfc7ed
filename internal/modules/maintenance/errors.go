package maintenance

import "errors"

var (
	ErrNotFound          = errors.New("maintenance request not found")
	ErrNotStaffMember    = errors.New("assignee is not a staff member")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrForbidden         = errors.New("request belongs to another tenant")
)
