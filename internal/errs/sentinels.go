// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested topic or revision does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates rejected caller input (empty title, bad date, non-positive days).
	ErrValidation = errors.New("validation")

	// ErrInvalidState indicates a transition attempted from a non-matching revision state,
	// e.g. completing an already-completed revision.
	ErrInvalidState = errors.New("invalid state")

	// ErrTransient indicates a repository timeout or unavailability; the caller may retry.
	ErrTransient = errors.New("transient")
)
