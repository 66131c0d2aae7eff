// Package seed loads the portfolio profile and skills catalogue from JSON
// files and replaces the stored copies in a single transaction.
//
// about.json holds one profile document. skills.json maps a category to an
// ordered list of skills; each entry is either a bare name or an object:
//
//	{
//	  "languages": ["Go", {"name": "SQL", "proficiency": "advanced", "yearsOfExperience": 6}]
//	}
//
// Array position becomes the skill's display order within its category.
package seed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-portfolio-backend/internal/domain"
	"github.com/tbourn/go-portfolio-backend/internal/repo"
)

// skillEntry accepts both "Go" and {"name": "Go", ...}.
type skillEntry struct {
	Name              string `json:"name"`
	Proficiency       string `json:"proficiency"`
	YearsOfExperience int    `json:"yearsOfExperience"`
	Description       string `json:"description"`
}

func (e *skillEntry) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &e.Name)
	}
	type plain skillEntry
	return json.Unmarshal(b, (*plain)(e))
}

// Data is a parsed seed set.
type Data struct {
	Profile *domain.Profile
	Skills  []domain.Skill
	// Skipped lists categories in skills.json that are not recognised.
	Skipped []string
}

// Load reads about.json and skills.json from dir.
func Load(dir string) (*Data, error) {
	var p domain.Profile
	if err := readJSON(filepath.Join(dir, "about.json"), &p); err != nil {
		return nil, err
	}

	var raw map[string][]skillEntry
	if err := readJSON(filepath.Join(dir, "skills.json"), &raw); err != nil {
		return nil, err
	}
	skills, skipped := flatten(raw)
	return &Data{Profile: &p, Skills: skills, Skipped: skipped}, nil
}

func readJSON(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("seed: read %s: %w", path, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("seed: parse %s: %w", path, err)
	}
	return nil
}

// flatten orders skills by the canonical category order, keeping array order
// within each category.
func flatten(raw map[string][]skillEntry) ([]domain.Skill, []string) {
	var out []domain.Skill
	for _, cat := range domain.SkillCategories {
		for i, e := range raw[cat] {
			out = append(out, domain.Skill{
				Category:          cat,
				Name:              e.Name,
				Proficiency:       e.Proficiency,
				YearsOfExperience: e.YearsOfExperience,
				Description:       e.Description,
				DisplayOrder:      i,
			})
		}
	}
	var skipped []string
	for cat := range raw {
		if !domain.IsValidSkillCategory(cat) {
			skipped = append(skipped, cat)
		}
	}
	sort.Strings(skipped)
	return out, skipped
}

// Counts reports how many profiles and skills are stored.
func Counts(ctx context.Context, db *gorm.DB) (profiles, skills int64, err error) {
	if err = db.WithContext(ctx).Model(&domain.Profile{}).Count(&profiles).Error; err != nil {
		return 0, 0, err
	}
	if err = db.WithContext(ctx).Model(&domain.Skill{}).Count(&skills).Error; err != nil {
		return 0, 0, err
	}
	return profiles, skills, nil
}

type backupFile struct {
	Timestamp string           `json:"timestamp"`
	About     []domain.Profile `json:"about"`
	Skills    []domain.Skill   `json:"skills"`
}

// backupName turns an ISO-8601 instant into a file-name-safe stamp:
// 2024-06-21T10:30:00.123Z becomes 2024-06-21T10-30-00-123Z.
func backupName(t time.Time) string {
	stamp := strings.NewReplacer(":", "-", ".", "-").Replace(t.Format("2006-01-02T15:04:05.000Z"))
	return "backup-" + stamp + ".json"
}

// Backup writes every stored profile and skill to dir/backup-<ts>.json and
// returns the file path. dir is created when missing.
func Backup(ctx context.Context, db *gorm.DB, dir string, now time.Time) (string, error) {
	profiles, err := repo.ListProfiles(ctx, db)
	if err != nil {
		return "", fmt.Errorf("seed: list profiles: %w", err)
	}
	skills, err := repo.ListAllSkills(ctx, db)
	if err != nil {
		return "", fmt.Errorf("seed: list skills: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("seed: backup dir: %w", err)
	}
	now = now.UTC()
	b, err := json.MarshalIndent(backupFile{
		Timestamp: now.Format(time.RFC3339Nano),
		About:     profiles,
		Skills:    skills,
	}, "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, backupName(now))
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("seed: write backup: %w", err)
	}
	return path, nil
}

// ErrEmpty is returned by Apply when there is nothing to seed.
var ErrEmpty = errors.New("seed: no profile to apply")

// Apply replaces the profile and skills atomically: either both tables hold
// the new data or neither changed.
func Apply(ctx context.Context, db *gorm.DB, d *Data) error {
	if d == nil || d.Profile == nil {
		return ErrEmpty
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.ReplaceProfile(ctx, tx, d.Profile); err != nil {
			return fmt.Errorf("profile: %w", err)
		}
		if err := repo.ReplaceSkills(ctx, tx, d.Skills); err != nil {
			return fmt.Errorf("skills: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	log.Info().
		Str("profile", d.Profile.Name).
		Int("version", d.Profile.Version).
		Int("skills", len(d.Skills)).
		Msg("seed applied")
	return nil
}
