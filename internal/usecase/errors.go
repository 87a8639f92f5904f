package usecase

import "errors"

// Sentinel errors shared by all repositories. Handlers translate these to
// HTTP status codes at the boundary; anything else is a 500.
var (
	ErrNotFound  = errors.New("not found")
	ErrConflict  = errors.New("already exists")
	ErrForbidden = errors.New("forbidden")
)
