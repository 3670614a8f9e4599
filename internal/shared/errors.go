package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrForbidden indicates a denied policy decision.
	ErrForbidden = errors.New("forbidden")
	// ErrDuplicate indicates a unique constraint violation.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrInvalidStatus indicates a lifecycle transition the current status
	// does not permit.
	ErrInvalidStatus = errors.New("invalid status for this action")
)
