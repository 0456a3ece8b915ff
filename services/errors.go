package services

import "errors"

// Approval errors. Controllers map these onto HTTP statuses; nothing in this
// package retries or swallows them.
var (
	// ErrRequestNotFound means the request id does not resolve.
	ErrRequestNotFound = errors.New("request not found")

	// ErrUnauthorized means the acting role may not act on the current status,
	// or a department answered a clarification addressed to another department.
	ErrUnauthorized = errors.New("not authorized to act on this request")

	// ErrConflict means the request's status changed under us. The caller must
	// reload and retry the whole operation, since the branching decision may
	// depend on the now-stale status.
	ErrConflict = errors.New("request was modified concurrently")

	// ErrInvalidAction means the action token is unknown or a required payload
	// field for that action is missing.
	ErrInvalidAction = errors.New("invalid approval action")

	// ErrNoOpTransition means an authorized role/action/context combination
	// matched no transition rule. This is a workflow configuration problem and
	// is raised rather than silently leaving the status unchanged.
	ErrNoOpTransition = errors.New("no transition matches this action")
)
