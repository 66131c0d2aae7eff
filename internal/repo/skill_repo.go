// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Skill
// model.
package repo

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-portfolio-backend/internal/domain"
)

// skillOrder is the canonical read order: display order, then insertion.
const skillOrder = "display_order asc, created_at asc, id asc"

// ListActiveSkills returns all active skills in canonical order.
func ListActiveSkills(ctx context.Context, db *gorm.DB) ([]domain.Skill, error) {
	var out []domain.Skill
	err := db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("category asc, " + skillOrder).
		Find(&out).Error
	return out, err
}

// ListSkillsByCategory returns the active skills of one category in order.
func ListSkillsByCategory(ctx context.Context, db *gorm.DB, category string) ([]domain.Skill, error) {
	var out []domain.Skill
	err := db.WithContext(ctx).
		Where("is_active = ? AND category = ?", true, category).
		Order(skillOrder).
		Find(&out).Error
	return out, err
}

// ListAllSkills returns every stored skill, active or not.
func ListAllSkills(ctx context.Context, db *gorm.DB) ([]domain.Skill, error) {
	var out []domain.Skill
	err := db.WithContext(ctx).Order("category asc, " + skillOrder).Find(&out).Error
	return out, err
}

// SkillsLastUpdated returns the greatest updated_at among active skills, or
// nil when there are none.
func SkillsLastUpdated(ctx context.Context, db *gorm.DB) (*time.Time, error) {
	var row struct {
		UpdatedAt time.Time
	}
	// avoid MAX() -> TEXT in SQLite
	res := db.WithContext(ctx).Model(&domain.Skill{}).
		Where("is_active = ?", true).
		Select("updated_at").Order("updated_at desc").Limit(1).Scan(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &row.UpdatedAt, nil
}

func validateSkill(i int, s *domain.Skill, se *SchemaError) {
	prefix := "skills[" + itoa(i) + "]."
	if !domain.IsValidSkillCategory(s.Category) {
		se.add(prefix+"category", "category must be one of: "+strings.Join(domain.SkillCategories, ", "), s.Category)
	}
	if strings.TrimSpace(s.Name) == "" {
		se.add(prefix+"name", "name is required", s.Name)
	}
	if err := docValidate.Var(s.Proficiency, "oneof=beginner intermediate advanced expert"); err != nil {
		se.add(prefix+"proficiency", "proficiency must be one of: "+strings.Join(domain.SkillProficiencies, ", "), s.Proficiency)
	}
	if s.YearsOfExperience < 0 || s.YearsOfExperience > 50 {
		se.add(prefix+"yearsOfExperience", "yearsOfExperience must be between 0 and 50", s.YearsOfExperience)
	}
}

// ReplaceSkills deletes every stored skill and inserts skills. Rows without
// an explicit DisplayOrder keep their position in the slice.
func ReplaceSkills(ctx context.Context, tx *gorm.DB, skills []domain.Skill) error {
	se := &SchemaError{Entity: "skills"}
	for i := range skills {
		if skills[i].Proficiency == "" {
			skills[i].Proficiency = "intermediate"
		}
		validateSkill(i, &skills[i], se)
	}
	if err := se.orNil(); err != nil {
		return err
	}
	if err := tx.WithContext(ctx).Where("1 = 1").Delete(&domain.Skill{}).Error; err != nil {
		return err
	}
	if len(skills) == 0 {
		return nil
	}
	for i := range skills {
		skills[i].ID = 0
		skills[i].IsActive = true
	}
	return tx.WithContext(ctx).CreateInBatches(skills, 100).Error
}
