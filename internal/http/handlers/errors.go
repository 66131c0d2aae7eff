// Package handlers maps service-layer failures onto the error taxonomy.
//
// Handlers never render errors. They call fail(), which translates the
// service sentinels below into *apperror.Error values and forwards them:
//
//	services.ErrContactNotFound    -> NotFound "Contact submission not found"
//	services.ErrNoActiveProfile    -> NotFound "No active profile found"
//	services.ErrInvalidStatus      -> Validation (status)
//	*services.UnknownCategoryError -> NotFound listing the valid categories
//
// Anything else (repo.InvalidIDError, validator errors, driver errors) is
// forwarded unchanged; apperror.Normalize in the terminal knows those.
package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-portfolio-backend/internal/apperror"
	"github.com/tbourn/go-portfolio-backend/internal/domain"
	"github.com/tbourn/go-portfolio-backend/internal/services"
)

// fail forwards err to the error terminal and stops the chain.
func fail(c *gin.Context, err error) {
	_ = c.Error(toAppError(err))
	c.Abort()
}

func toAppError(err error) error {
	var unknown *services.UnknownCategoryError
	switch {
	case errors.As(err, &unknown):
		valid := strings.Join(unknown.Available, ", ")
		return apperror.NotFound("Skills category '"+unknown.Category+"' not found").
			WithDetails(apperror.FieldError{
				Field:    "category",
				Message:  "Valid categories: " + valid,
				Value:    unknown.Category,
				Location: "params",
			}).
			WithCause(err)
	case errors.Is(err, services.ErrContactNotFound):
		return apperror.NotFound("Contact submission not found").WithCause(err)
	case errors.Is(err, services.ErrNoActiveProfile):
		return apperror.NotFound("No active profile found").WithCause(err)
	case errors.Is(err, services.ErrInvalidStatus):
		return apperror.Validation("Invalid status", statusFieldError("", "body")).WithCause(err)
	}
	return err
}

// statusFieldError describes a rejected contact status.
func statusFieldError(value, location string) apperror.FieldError {
	fe := apperror.FieldError{
		Field:    "status",
		Message:  "Status must be one of: " + strings.Join(domain.ContactStatuses, ", "),
		Location: location,
	}
	if value != "" {
		fe.Value = value
	}
	return fe
}
