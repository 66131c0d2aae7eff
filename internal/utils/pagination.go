// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import "strconv"

// Pagination limits.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// AtoiDefault converts a string to an int using strconv.Atoi.
// If the string is empty or cannot be parsed as an integer,
// it returns the provided default value instead.
//
// Example:
//
//	n := utils.AtoiDefault("42", 0) // returns 42
//	n = utils.AtoiDefault("", 10)   // returns 10
//	n = utils.AtoiDefault("x", 5)   // returns 5
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// Page is a validated 1-based page request.
type Page struct {
	Page  int
	Limit int
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int { return (p.Page - 1) * p.Limit }

// TotalPages returns how many pages of p.Limit rows hold total rows.
func (p Page) TotalPages(total int64) int {
	if p.Limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}

// HasNext reports whether a page follows p.
func (p Page) HasNext(total int64) bool { return p.Page < p.TotalPages(total) }

// ParamError describes one rejected query parameter.
type ParamError struct {
	Param   string
	Value   string
	Message string
}

// ParsePage validates raw page/limit query values. Empty values take the
// defaults (page 1, DefaultLimit). Unlike AtoiDefault, malformed or
// out-of-range values are reported rather than replaced.
func ParsePage(page, limit string) (Page, []ParamError) {
	p := Page{Page: 1, Limit: DefaultLimit}
	var errs []ParamError

	if page != "" {
		n, err := strconv.Atoi(page)
		if err != nil || n < 1 {
			errs = append(errs, ParamError{Param: "page", Value: page, Message: "Page must be a positive integer"})
		} else {
			p.Page = n
		}
	}
	if limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 || n > MaxLimit {
			errs = append(errs, ParamError{Param: "limit", Value: limit, Message: "Limit must be between 1 and " + strconv.Itoa(MaxLimit)})
		} else {
			p.Limit = n
		}
	}
	return p, errs
}
