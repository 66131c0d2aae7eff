// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Profile
// model and its Experience rows.
package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-portfolio-backend/internal/domain"
)

func orderedExperience(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order asc, id asc")
}

// GetActiveProfile returns the active profile with its experience rows in
// display order, or ErrNotFound when none is active.
func GetActiveProfile(ctx context.Context, db *gorm.DB) (*domain.Profile, error) {
	var p domain.Profile
	err := db.WithContext(ctx).
		Preload("Experience", orderedExperience).
		Where("is_active = ?", true).
		Order("version desc").
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProfiles returns every stored profile (active or not) with experience.
func ListProfiles(ctx context.Context, db *gorm.DB) ([]domain.Profile, error) {
	var out []domain.Profile
	err := db.WithContext(ctx).
		Preload("Experience", orderedExperience).
		Order("version asc").
		Find(&out).Error
	return out, err
}

func validateProfile(p *domain.Profile) error {
	se := &SchemaError{Entity: "profile"}
	required := []struct{ field, value string }{{"name", p.Name}, {"title", p.Title}, {"bio", p.Bio}}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			se.add(r.field, r.field+" is required", r.value)
		}
	}
	if err := docValidate.Var(p.Email, "required,email"); err != nil {
		se.add("email", "email must be a valid address", p.Email)
	}
	for i, e := range p.Experience {
		if strings.TrimSpace(e.Company) == "" || strings.TrimSpace(e.Role) == "" {
			se.add("experience["+itoa(i)+"]", "company and position are required", e.Company)
		}
	}
	return se.orNil()
}

// ReplaceProfile deletes every stored profile and inserts p as the single
// active profile. It must be run inside a transaction by the caller when
// atomicity with other writes is required.
func ReplaceProfile(ctx context.Context, tx *gorm.DB, p *domain.Profile) error {
	if err := validateProfile(p); err != nil {
		return err
	}
	var maxVersion int
	if err := tx.WithContext(ctx).Model(&domain.Profile{}).
		Select("COALESCE(MAX(version), 0)").Scan(&maxVersion).Error; err != nil {
		return err
	}
	if err := tx.WithContext(ctx).Where("1 = 1").Delete(&domain.Experience{}).Error; err != nil {
		return err
	}
	if err := tx.WithContext(ctx).Where("1 = 1").Delete(&domain.Profile{}).Error; err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.IsActive = true
	p.Version = maxVersion + 1
	for i := range p.Experience {
		p.Experience[i].ID = 0
		p.Experience[i].ProfileID = p.ID
		p.Experience[i].Position = i
	}
	return tx.WithContext(ctx).Create(p).Error
}
