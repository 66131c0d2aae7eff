package seed

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-portfolio-backend/internal/domain"
	"github.com/tbourn/go-portfolio-backend/internal/repo"
)

const aboutJSON = `{
  "name": "Jane Doe",
  "title": "Backend Engineer",
  "email": "jane@example.com",
  "location": "Lisbon",
  "bio": "Builds APIs.",
  "experience": [
    {"company": "Acme", "position": "Engineer", "duration": "2020 - Present", "description": "APIs", "achievements": ["Shipped v2"]}
  ]
}`

const skillsJSON = `{
  "languages": ["Go", {"name": "SQL", "proficiency": "advanced", "yearsOfExperience": 6}],
  "tools": [{"name": "Docker", "proficiency": "expert"}],
  "cooking": ["Pasta"]
}`

func writeData(t *testing.T, about, skills string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "about.json"), []byte(about), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "skills.json"), []byte(skills), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func newDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repo.OpenSQLite("file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestLoad_FlattensAndSkipsUnknownCategories(t *testing.T) {
	d, err := Load(writeData(t, aboutJSON, skillsJSON))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.Profile.Name != "Jane Doe" || len(d.Profile.Experience) != 1 || d.Profile.Experience[0].Role != "Engineer" {
		t.Fatalf("profile = %+v", d.Profile)
	}
	if len(d.Skills) != 3 {
		t.Fatalf("skills = %+v", d.Skills)
	}
	first, second := d.Skills[0], d.Skills[1]
	if first.Category != "languages" || first.Name != "Go" || first.DisplayOrder != 0 {
		t.Fatalf("first = %+v", first)
	}
	if second.Name != "SQL" || second.Proficiency != "advanced" || second.YearsOfExperience != 6 || second.DisplayOrder != 1 {
		t.Fatalf("second = %+v", second)
	}
	if d.Skills[2].Category != "tools" {
		t.Fatalf("category order: %+v", d.Skills[2])
	}
	if len(d.Skipped) != 1 || d.Skipped[0] != "cooking" {
		t.Fatalf("skipped = %v", d.Skipped)
	}
}

func TestLoad_MissingOrMalformedFile(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Fatalf("expected error for missing files")
	}
	if _, err := Load(writeData(t, "{", skillsJSON)); err == nil || !strings.Contains(err.Error(), "about.json") {
		t.Fatalf("err = %v", err)
	}
}

func TestApply_ReplacesAndBumpsVersion(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	dir := writeData(t, aboutJSON, skillsJSON)

	for i := 1; i <= 2; i++ {
		d, err := Load(dir)
		if err != nil {
			t.Fatal(err)
		}
		if err := Apply(ctx, db, d); err != nil {
			t.Fatalf("Apply #%d: %v", i, err)
		}
	}

	profiles, skills, err := Counts(ctx, db)
	if err != nil || profiles != 1 || skills != 3 {
		t.Fatalf("Counts = %d, %d, %v", profiles, skills, err)
	}
	p, err := repo.GetActiveProfile(ctx, db)
	if err != nil {
		t.Fatalf("GetActiveProfile: %v", err)
	}
	if p.Version != 2 || len(p.Experience) != 1 || p.Experience[0].Achievements[0] != "Shipped v2" {
		t.Fatalf("profile = %+v", p)
	}
}

func TestApply_RollsBackOnInvalidSkills(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()

	good, err := Load(writeData(t, aboutJSON, skillsJSON))
	if err != nil {
		t.Fatal(err)
	}
	if err := Apply(ctx, db, good); err != nil {
		t.Fatal(err)
	}

	bad, err := Load(writeData(t, strings.Replace(aboutJSON, "Jane Doe", "Someone Else", 1),
		`{"languages": [{"name": "Go", "proficiency": "wizard"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	err = Apply(ctx, db, bad)
	var se *repo.SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want SchemaError", err)
	}

	p, err := repo.GetActiveProfile(ctx, db)
	if err != nil || p.Name != "Jane Doe" {
		t.Fatalf("profile after rollback = %+v, %v", p, err)
	}
	if _, n, _ := Counts(ctx, db); n != 3 {
		t.Fatalf("skills after rollback = %d", n)
	}
}

func TestApply_Empty(t *testing.T) {
	if err := Apply(context.Background(), newDB(t), &Data{}); !errors.Is(err, ErrEmpty) {
		t.Fatalf("err = %v", err)
	}
}

func TestBackup_WritesTimestampedFile(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	d, _ := Load(writeData(t, aboutJSON, skillsJSON))
	if err := Apply(ctx, db, d); err != nil {
		t.Fatal(err)
	}

	dir := filepath.Join(t.TempDir(), "backups")
	now := time.Date(2024, 6, 21, 10, 30, 0, 123e6, time.UTC)
	path, err := Backup(ctx, db, dir, now)
	if err != nil {
		t.Fatalf("Backup: %v", err)
	}
	if filepath.Base(path) != "backup-2024-06-21T10-30-00-123Z.json" {
		t.Fatalf("path = %s", path)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		Timestamp string           `json:"timestamp"`
		About     []domain.Profile `json:"about"`
		Skills    []domain.Skill   `json:"skills"`
	}
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("backup not JSON: %v", err)
	}
	if len(got.About) != 1 || got.About[0].Name != "Jane Doe" || len(got.Skills) != 3 {
		t.Fatalf("backup = %+v", got)
	}
}
