package repo

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/tbourn/go-portfolio-backend/internal/domain"
)

func TestReplaceSkills_AndList(t *testing.T) {
	db := newTestDB(t, &domain.Skill{})
	ctx := context.Background()

	skills := []domain.Skill{
		{Category: domain.CategoryLanguages, Name: "Go", Proficiency: "expert", YearsOfExperience: 6, DisplayOrder: 2},
		{Category: domain.CategoryLanguages, Name: "Kotlin", Proficiency: "advanced", YearsOfExperience: 4, DisplayOrder: 1},
		{Category: domain.CategoryLanguages, Name: "Swift", YearsOfExperience: 3, DisplayOrder: 1},
		{Category: domain.CategoryTools, Name: "Git", Proficiency: "expert", YearsOfExperience: 10},
	}
	if err := db.Transaction(func(tx *gorm.DB) error { return ReplaceSkills(ctx, tx, skills) }); err != nil {
		t.Fatalf("ReplaceSkills: %v", err)
	}

	langs, err := ListSkillsByCategory(ctx, db, domain.CategoryLanguages)
	if err != nil {
		t.Fatalf("ListSkillsByCategory: %v", err)
	}
	var names []string
	for _, s := range langs {
		names = append(names, s.Name)
	}
	// display order ascending, ties in insertion order
	want := []string{"Kotlin", "Swift", "Go"}
	for i := range want {
		if i >= len(names) || names[i] != want[i] {
			t.Fatalf("order = %v; want %v", names, want)
		}
	}
	if langs[1].Proficiency != "intermediate" {
		t.Fatalf("default proficiency not applied: %q", langs[1].Proficiency)
	}

	all, err := ListActiveSkills(ctx, db)
	if err != nil || len(all) != 4 {
		t.Fatalf("ListActiveSkills: %d err=%v", len(all), err)
	}
	last, err := SkillsLastUpdated(ctx, db)
	if err != nil || last == nil {
		t.Fatalf("SkillsLastUpdated: %v err=%v", last, err)
	}

	// Replacing again swaps the whole set.
	if err := ReplaceSkills(ctx, db, []domain.Skill{{Category: domain.CategoryDatabases, Name: "MySQL", Proficiency: "advanced"}}); err != nil {
		t.Fatalf("ReplaceSkills #2: %v", err)
	}
	stored, _ := ListAllSkills(ctx, db)
	if len(stored) != 1 || stored[0].Name != "MySQL" {
		t.Fatalf("unexpected skills after replace: %+v", stored)
	}
}

func TestReplaceSkills_SchemaError(t *testing.T) {
	db := newTestDB(t, &domain.Skill{})
	err := ReplaceSkills(context.Background(), db, []domain.Skill{
		{Category: "cooking", Name: "Pasta", Proficiency: "expert"},
		{Category: domain.CategoryTools, Name: "Vim", Proficiency: "guru", YearsOfExperience: 60},
	})
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if len(se.Violations) != 3 {
		t.Fatalf("expected 3 violations, got %+v", se.Violations)
	}
	if se.Violations[0].Field != "skills[0].category" {
		t.Fatalf("unexpected first violation: %+v", se.Violations[0])
	}
}

func TestSkillsLastUpdated_Empty(t *testing.T) {
	db := newTestDB(t, &domain.Skill{})
	last, err := SkillsLastUpdated(context.Background(), db)
	if err != nil || last != nil {
		t.Fatalf("expected (nil, nil), got (%v, %v)", last, err)
	}
}
