package datastore

import "errors"

// Sentinel errors returned by repositories. Handlers translate these to
// status-coded responses at the HTTP boundary.
var (
	// ErrNotFound indicates a referenced entity is absent.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate indicates an application-level uniqueness rule was
	// violated (duplicate vote, duplicate bookmark, taken username).
	ErrDuplicate = errors.New("already exists")

	// ErrInvalidOption indicates a poll vote named an option that is not
	// among the poll's configured option list.
	ErrInvalidOption = errors.New("invalid poll option")
)
