// Package services – SkillService
//
// Skills are stored as flat rows and served grouped by category. Within a
// category rows are ordered by display order with ties kept in storage
// order; categories themselves follow domain.SkillCategories.
package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/tbourn/go-portfolio-backend/internal/domain"
)

// SkillRepo defines the repository contract required by SkillService.
type SkillRepo interface {
	ListActiveSkills(ctx context.Context, db *gorm.DB) ([]domain.Skill, error)
	ListSkillsByCategory(ctx context.Context, db *gorm.DB, category string) ([]domain.Skill, error)
	SkillsLastUpdated(ctx context.Context, db *gorm.DB) (*time.Time, error)
}

// SkillCatalog is every active skill grouped by category.
type SkillCatalog struct {
	Groups      map[string][]domain.Skill
	Categories  []string
	Counts      map[string]int
	Total       int
	LastUpdated *time.Time
}

// SkillService serves the skills catalogue.
type SkillService struct {
	DB   *gorm.DB
	Repo SkillRepo
}

// NewSkillService constructs a SkillService.
func NewSkillService(db *gorm.DB, r SkillRepo) *SkillService {
	return &SkillService{DB: db, Repo: r}
}

// GroupSkills buckets skills by category. Categories come back in
// domain.SkillCategories order, followed by any unknown ones alphabetically.
func GroupSkills(skills []domain.Skill) (map[string][]domain.Skill, []string) {
	groups := make(map[string][]domain.Skill)
	for _, sk := range skills {
		groups[sk.Category] = append(groups[sk.Category], sk)
	}
	for _, g := range groups {
		sort.SliceStable(g, func(i, j int) bool { return g[i].DisplayOrder < g[j].DisplayOrder })
	}

	cats := make([]string, 0, len(groups))
	seen := make(map[string]bool, len(groups))
	for _, c := range domain.SkillCategories {
		if _, ok := groups[c]; ok {
			cats = append(cats, c)
			seen[c] = true
		}
	}
	var extra []string
	for c := range groups {
		if !seen[c] {
			extra = append(extra, c)
		}
	}
	sort.Strings(extra)
	return groups, append(cats, extra...)
}

// Catalog returns all active skills grouped by category with counts.
func (s *SkillService) Catalog(ctx context.Context) (*SkillCatalog, error) {
	ctx, span := otel.Tracer("services/SkillService").Start(ctx, "Catalog")
	defer span.End()

	skills, err := s.Repo.ListActiveSkills(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	last, err := s.Repo.SkillsLastUpdated(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	groups, cats := GroupSkills(skills)
	counts := make(map[string]int, len(groups))
	for c, g := range groups {
		counts[c] = len(g)
	}
	span.SetAttributes(attribute.Int("skills.total", len(skills)))
	return &SkillCatalog{
		Groups:      groups,
		Categories:  cats,
		Counts:      counts,
		Total:       len(skills),
		LastUpdated: last,
	}, nil
}

// Category returns the active skills of one category. The lookup is
// case-insensitive. An unknown or empty category yields
// *UnknownCategoryError listing the categories that hold skills.
func (s *SkillService) Category(ctx context.Context, category string) (string, []domain.Skill, error) {
	category = cases.Lower(language.Und).String(strings.TrimSpace(category))
	ctx, span := otel.Tracer("services/SkillService").Start(ctx, "Category",
		trace.WithAttributes(attribute.String("skills.category", category)))
	defer span.End()

	if domain.IsValidSkillCategory(category) {
		skills, err := s.Repo.ListSkillsByCategory(ctx, s.DB, category)
		if err != nil {
			return category, nil, err
		}
		if len(skills) > 0 {
			sort.SliceStable(skills, func(i, j int) bool { return skills[i].DisplayOrder < skills[j].DisplayOrder })
			return category, skills, nil
		}
	}

	all, err := s.Repo.ListActiveSkills(ctx, s.DB)
	if err != nil {
		return category, nil, err
	}
	_, available := GroupSkills(all)
	return category, nil, &UnknownCategoryError{Category: category, Available: available}
}
