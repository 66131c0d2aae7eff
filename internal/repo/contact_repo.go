// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Contact
// model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
//
// Error semantics:
//   - A document that fails validation yields *SchemaError.
//   - A malformed identifier yields *InvalidIDError.
//   - A missing row yields ErrNotFound.
//   - Driver errors are propagated unchanged.
package repo

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-portfolio-backend/internal/domain"
)

// ContactFilter narrows contact listings.
type ContactFilter struct {
	Status string
}

func (f ContactFilter) apply(q *gorm.DB) *gorm.DB {
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	return q
}

// docValidate checks individual document values; validator instances are
// safe for concurrent use.
var docValidate = validator.New()

func validateContact(c *domain.Contact) error {
	se := &SchemaError{Entity: "contact"}
	checkLen := func(field, v string, min, max int) {
		n := utf8.RuneCountInString(strings.TrimSpace(v))
		if n < min || n > max {
			se.add(field, field+" must be between "+itoa(min)+" and "+itoa(max)+" characters", v)
		}
	}
	checkLen("name", c.Name, 1, 100)
	checkLen("subject", c.Subject, 1, 100)
	if c.Message == "" {
		se.add("message", "message is required", c.Message)
	}
	if err := docValidate.Var(c.Email, "required,email,max=255"); err != nil {
		se.add("email", "email must be a valid address", c.Email)
	}
	if !domain.IsValidContactStatus(c.Status) {
		se.add("status", "status must be one of: "+strings.Join(domain.ContactStatuses, ", "), c.Status)
	}
	return se.orNil()
}

// CreateContact validates and inserts c. ID, Status and SubmittedAt are
// filled in when empty.
func CreateContact(ctx context.Context, db *gorm.DB, c *domain.Contact) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = domain.ContactStatusNew
	}
	if c.SubmittedAt.IsZero() {
		c.SubmittedAt = time.Now().UTC()
	}
	if err := validateContact(c); err != nil {
		return err
	}
	return db.WithContext(ctx).Create(c).Error
}

// GetContact fetches a submission by id. id must be a UUID.
func GetContact(ctx context.Context, db *gorm.DB, id string) (*domain.Contact, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, &InvalidIDError{Param: "id", Value: id}
	}
	var c domain.Contact
	if err := db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// CountContacts returns the number of submissions matching f.
func CountContacts(ctx context.Context, db *gorm.DB, f ContactFilter) (int64, error) {
	var total int64
	err := f.apply(db.WithContext(ctx).Model(&domain.Contact{})).Count(&total).Error
	return total, err
}

// ListContactsPage returns a page of submissions matching f, newest first.
// Use CountContacts to obtain the total for pagination metadata.
//
// The caller is responsible for computing offset and limit (e.g., (page-1)*pageSize).
func ListContactsPage(ctx context.Context, db *gorm.DB, f ContactFilter, offset, limit int) ([]domain.Contact, error) {
	var out []domain.Contact
	err := f.apply(db.WithContext(ctx)).
		Order("submitted_at desc, id desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// UpdateContactStatus moves a submission to a new lifecycle status.
func UpdateContactStatus(ctx context.Context, db *gorm.DB, id, status string) error {
	if _, err := uuid.Parse(id); err != nil {
		return &InvalidIDError{Param: "id", Value: id}
	}
	if !domain.IsValidContactStatus(status) {
		se := &SchemaError{Entity: "contact"}
		se.add("status", "status must be one of: "+strings.Join(domain.ContactStatuses, ", "), status)
		return se
	}
	res := db.WithContext(ctx).Model(&domain.Contact{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
