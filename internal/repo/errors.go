package repo

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrDuplicate indicates that a unique key already exists.
var ErrDuplicate = errors.New("duplicate")

// Violation is one field that failed document validation.
type Violation struct {
	Field   string
	Message string
	Value   any
}

// SchemaError is returned when a document fails validation before it is
// written. It carries one Violation per offending field.
type SchemaError struct {
	Entity     string
	Violations []Violation
}

func (e *SchemaError) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		fields = append(fields, v.Field)
	}
	return fmt.Sprintf("%s failed schema validation: %s", e.Entity, strings.Join(fields, ", "))
}

func (e *SchemaError) add(field, msg string, value any) {
	e.Violations = append(e.Violations, Violation{Field: field, Message: msg, Value: value})
}

func (e *SchemaError) orNil() error {
	if len(e.Violations) == 0 {
		return nil
	}
	return e
}

// InvalidIDError is returned when an identifier is not in the storage
// identifier format (UUID).
type InvalidIDError struct {
	Param string
	Value string
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.Param, e.Value)
}

// isUniqueViolation reports whether err is a unique-key violation from any
// supported driver.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// glebarez/sqlite often returns plain-text errors for UNIQUE violations.
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique") ||
		strings.Contains(low, "duplicate entry")
}

func itoa(n int) string { return strconv.Itoa(n) }
