// Package services defines the business logic for contact submissions, the
// portfolio profile, and skills. This file centralizes common service-level
// error values so that they can be consistently returned by service methods
// and checked by callers.
//
// These errors are intended for internal use by the service layer and translation
// into user-facing messages or HTTP status codes should be performed at the
// handler/controller layer.
package services

import (
	"errors"
	"strings"
)

var (
	// ErrContactNotFound indicates that the requested submission does not exist.
	ErrContactNotFound = errors.New("contact submission not found")

	// ErrInvalidStatus is returned when a listing filter or status update
	// names a status outside domain.ContactStatuses.
	ErrInvalidStatus = errors.New("invalid contact status")

	// ErrNoActiveProfile is returned when no profile is marked active.
	ErrNoActiveProfile = errors.New("no active profile found")

	// ErrUnknownCategory is returned when a skill category is not known or
	// holds no active skills. The concrete value is *UnknownCategoryError.
	ErrUnknownCategory = errors.New("skills category not found")
)

// UnknownCategoryError carries the requested category and the categories
// that do hold skills.
type UnknownCategoryError struct {
	Category  string
	Available []string
}

func (e *UnknownCategoryError) Error() string {
	return "skills category '" + e.Category + "' not found; available: " + strings.Join(e.Available, ", ")
}

// Unwrap lets errors.Is match ErrUnknownCategory.
func (e *UnknownCategoryError) Unwrap() error { return ErrUnknownCategory }
