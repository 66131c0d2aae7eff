// Package services – ProfileService
//
// ProfileService assembles the "about" document: the active profile with its
// experience plus the skills catalogue grouped by category.
package services

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/tbourn/go-portfolio-backend/internal/domain"
	"github.com/tbourn/go-portfolio-backend/internal/repo"
)

// ProfileRepo defines the repository contract required by ProfileService.
type ProfileRepo interface {
	GetActiveProfile(ctx context.Context, db *gorm.DB) (*domain.Profile, error)
	ListActiveSkills(ctx context.Context, db *gorm.DB) ([]domain.Skill, error)
}

// About is the active profile with grouped skills.
type About struct {
	Profile     *domain.Profile
	Skills      map[string][]domain.Skill
	Categories  []string
	LastUpdated time.Time
}

// ProfileService serves the about document.
type ProfileService struct {
	DB   *gorm.DB
	Repo ProfileRepo
}

// NewProfileService constructs a ProfileService.
func NewProfileService(db *gorm.DB, r ProfileRepo) *ProfileService {
	return &ProfileService{DB: db, Repo: r}
}

// About returns the active profile and its skills. ErrNoActiveProfile is
// returned when no profile is active.
func (s *ProfileService) About(ctx context.Context) (*About, error) {
	ctx, span := otel.Tracer("services/ProfileService").Start(ctx, "About")
	defer span.End()

	p, err := s.Repo.GetActiveProfile(ctx, s.DB)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNoActiveProfile
	}
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("profile.id", p.ID),
		attribute.Int("profile.version", p.Version),
	)

	skills, err := s.Repo.ListActiveSkills(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	groups, cats := GroupSkills(skills)

	last := p.UpdatedAt
	for _, sk := range skills {
		if sk.UpdatedAt.After(last) {
			last = sk.UpdatedAt
		}
	}
	return &About{Profile: p, Skills: groups, Categories: cats, LastUpdated: last}, nil
}
