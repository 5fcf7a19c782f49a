package library

import "errors"

var (
	// ErrNotFound indicates the requested entity doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate indicates a unique constraint violation.
	ErrDuplicate = errors.New("duplicate entry")

	// ErrConstraint indicates a foreign key or check constraint violation.
	ErrConstraint = errors.New("constraint violation")

	// ErrHandleMissing indicates a file handle is absent and the entry needs a relink.
	ErrHandleMissing = errors.New("file handle missing, relink required")

	// ErrUnknownFormat indicates an index path with an unsupported extension.
	ErrUnknownFormat = errors.New("unknown index format")
)
