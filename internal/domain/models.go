// Package domain defines the persistence models for contact submissions, the
// portfolio profile, and skills. These types are mapped with GORM and form
// the core data layer of the portfolio API.
package domain

import (
	"time"
)

// Contact submission statuses.
const (
	ContactStatusNew      = "new"
	ContactStatusRead     = "read"
	ContactStatusReplied  = "replied"
	ContactStatusArchived = "archived"
)

// ContactStatuses lists every valid Contact.Status in lifecycle order.
var ContactStatuses = []string{ContactStatusNew, ContactStatusRead, ContactStatusReplied, ContactStatusArchived}

// IsValidContactStatus reports whether s is a known contact status.
func IsValidContactStatus(s string) bool {
	for _, v := range ContactStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Contact is a persisted contact-form submission.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - Name / Email / Subject: validated submitter input (email lowercased).
//   - Message: the composed body ("Subject: ...\n\n<message>").
//   - SubmittedAt: when the submission was accepted; indexed for newest-first listing.
//   - IPAddress / UserAgent: client metadata, never returned by the API.
//   - Status: new, read, replied or archived (DB check constraint).
type Contact struct {
	ID          string    `json:"id"          gorm:"type:char(36);primaryKey"`
	Name        string    `json:"name"        gorm:"type:varchar(100);not null"`
	Email       string    `json:"email"       gorm:"type:varchar(255);not null;index:idx_contacts_email"`
	Subject     string    `json:"subject"     gorm:"type:varchar(100);not null"`
	Message     string    `json:"message"     gorm:"type:text;not null"`
	SubmittedAt time.Time `json:"submittedAt" gorm:"not null;index:idx_contacts_submitted"`
	IPAddress   string    `json:"-"           gorm:"type:varchar(64)"`
	UserAgent   string    `json:"-"           gorm:"type:varchar(512)"`
	Status      string    `json:"status"      gorm:"type:varchar(16);not null;default:'new';index:idx_contacts_status;check:chk_contacts_status,status IN ('new','read','replied','archived')"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName returns the database table name for Contact.
func (Contact) TableName() string { return "contacts" }

// Profile is the portfolio owner's "about" record. Only one profile is
// active at a time; older versions stay in the table with IsActive=false.
type Profile struct {
	ID           string       `json:"id"           gorm:"type:char(36);primaryKey"`
	Name         string       `json:"name"         gorm:"type:varchar(100);not null"`
	Title        string       `json:"title"        gorm:"type:varchar(200);not null"`
	Email        string       `json:"email"        gorm:"type:varchar(255);not null"`
	Phone        string       `json:"phone"        gorm:"type:varchar(50)"`
	Location     string       `json:"location"     gorm:"type:varchar(100)"`
	Bio          string       `json:"bio"          gorm:"type:text;not null"`
	Website      string       `json:"website"      gorm:"type:varchar(255)"`
	GitHub       string       `json:"github"       gorm:"column:github;type:varchar(255)"`
	LinkedIn     string       `json:"linkedin"     gorm:"column:linkedin;type:varchar(255)"`
	Resume       string       `json:"resume"       gorm:"type:varchar(255)"`
	ProfileImage string       `json:"profileImage" gorm:"type:varchar(255)"`
	IsActive     bool         `json:"-"            gorm:"not null;default:true;index:idx_profiles_active"`
	Version      int          `json:"version"      gorm:"not null;default:1"`
	Experience   []Experience `json:"experience"   gorm:"foreignKey:ProfileID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// TableName returns the database table name for Profile.
func (Profile) TableName() string { return "profiles" }

// Experience is one professional position listed on a Profile.
// Position orders rows within a profile.
type Experience struct {
	ID           uint     `json:"-"            gorm:"primaryKey;autoIncrement"`
	ProfileID    string   `json:"-"            gorm:"type:char(36);not null;index:idx_experience_profile,priority:1"`
	Position     int      `json:"-"            gorm:"column:sort_order;not null;default:0;index:idx_experience_profile,priority:2"`
	Company      string   `json:"company"      gorm:"type:varchar(100);not null"`
	Role         string   `json:"position"     gorm:"column:role;type:varchar(100);not null"`
	Duration     string   `json:"duration"     gorm:"type:varchar(50);not null"`
	Description  string   `json:"description"  gorm:"type:text;not null"`
	Achievements []string `json:"achievements" gorm:"type:text;serializer:json"`
}

// TableName returns the database table name for Experience.
func (Experience) TableName() string { return "experiences" }

// Skill categories.
const (
	CategoryLanguages     = "languages"
	CategoryMobile        = "mobile"
	CategoryBackend       = "backend"
	CategoryTools         = "tools"
	CategoryMethodologies = "methodologies"
	CategoryFrameworks    = "frameworks"
	CategoryPlatforms     = "platforms"
	CategoryDatabases     = "databases"
)

// SkillCategories lists every valid Skill.Category.
var SkillCategories = []string{
	CategoryLanguages, CategoryMobile, CategoryBackend, CategoryTools,
	CategoryMethodologies, CategoryFrameworks, CategoryPlatforms, CategoryDatabases,
}

// Skill proficiency levels.
var SkillProficiencies = []string{"beginner", "intermediate", "advanced", "expert"}

// IsValidSkillCategory reports whether c is a known skill category.
func IsValidSkillCategory(c string) bool {
	for _, v := range SkillCategories {
		if v == c {
			return true
		}
	}
	return false
}

// Skill is one technical skill shown on the portfolio.
// The (category, name) pair is unique.
type Skill struct {
	ID                uint      `json:"-"                 gorm:"primaryKey;autoIncrement"`
	Category          string    `json:"category"          gorm:"type:varchar(32);not null;uniqueIndex:ux_skills_category_name,priority:1;index:idx_skills_category_order,priority:1;check:chk_skills_category,category IN ('languages','mobile','backend','tools','methodologies','frameworks','platforms','databases')"`
	Name              string    `json:"name"              gorm:"type:varchar(100);not null;uniqueIndex:ux_skills_category_name,priority:2"`
	Proficiency       string    `json:"proficiency"       gorm:"type:varchar(16);not null;default:'intermediate';check:chk_skills_proficiency,proficiency IN ('beginner','intermediate','advanced','expert')"`
	YearsOfExperience int       `json:"yearsOfExperience" gorm:"not null;default:0;check:chk_skills_years,years_of_experience BETWEEN 0 AND 50"`
	Description       string    `json:"description"       gorm:"type:varchar(500)"`
	IsActive          bool      `json:"-"                 gorm:"not null;default:true"`
	DisplayOrder      int       `json:"-"                 gorm:"not null;default:0;index:idx_skills_category_order,priority:2"`
	CreatedAt         time.Time `json:"-"`
	UpdatedAt         time.Time `json:"-"`
}

// TableName returns the database table name for Skill.
func (Skill) TableName() string { return "skills" }
