// Package apperrors defines the error taxonomy handlers map to HTTP statuses.
package apperrors

import "errors"

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")

	// ErrInvalidAnalysisShape reports an analysis result whose improvements
	// or aviation suggestions arrays are missing, so no roadmap can be built.
	ErrInvalidAnalysisShape = errors.New("invalid analysis shape")

	// ErrDuplicateApplication reports a second application to the same job
	// while the reject apply policy is active.
	ErrDuplicateApplication = errors.New("already applied to this job")
)
