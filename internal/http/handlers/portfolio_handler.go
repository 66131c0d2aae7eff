// Portfolio HTTP handlers.
//
// This file exposes the read-only portfolio content:
//   - GET /api/about               (active profile with grouped skills)
//   - GET /api/skills              (all skills grouped by category)
//   - GET /api/skills/{category}   (one category)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-portfolio-backend/internal/domain"
)

//
// DTOs
//

// SkillView is the public shape of a skill.
type SkillView struct {
	Name              string `json:"name"              example:"Go"`
	Proficiency       string `json:"proficiency"       example:"advanced"`
	YearsOfExperience int    `json:"yearsOfExperience" example:"5"`
	Description       string `json:"description"       example:"Services and CLIs"`
}

// AboutData is the profile document served by /api/about.
type AboutData struct {
	Name         string                 `json:"name"         example:"Jane Doe"`
	Title        string                 `json:"title"        example:"Senior Software Engineer"`
	Email        string                 `json:"email"        example:"jane@example.com"`
	Phone        string                 `json:"phone"`
	Location     string                 `json:"location"     example:"Lisbon, Portugal"`
	Bio          string                 `json:"bio"`
	Experience   []domain.Experience    `json:"experience"`
	Website      string                 `json:"website"`
	GitHub       string                 `json:"github"`
	LinkedIn     string                 `json:"linkedin"`
	Resume       string                 `json:"resume"`
	ProfileImage string                 `json:"profileImage,omitempty"`
	Skills       map[string][]SkillView `json:"skills"`
}

// AboutResponse wraps the about document.
type AboutResponse struct {
	Success     bool      `json:"success"     example:"true"`
	Data        AboutData `json:"data"`
	LastUpdated string    `json:"lastUpdated" example:"2024-06-21T10:00:00.000Z"`
	Message     string    `json:"message"     example:"About information retrieved successfully"`
}

// SkillsResponse is the full catalogue.
type SkillsResponse struct {
	Success     bool                   `json:"success"     example:"true"`
	Data        map[string][]SkillView `json:"data"`
	Categories  []string               `json:"categories"`
	Counts      map[string]int         `json:"counts"`
	Total       int                    `json:"total"       example:"24"`
	LastUpdated string                 `json:"lastUpdated" example:"2024-06-21T10:00:00.000Z"`
	Message     string                 `json:"message"     example:"Skills information retrieved successfully"`
}

// SkillCategoryResponse is one category of the catalogue.
type SkillCategoryResponse struct {
	Success     bool        `json:"success"     example:"true"`
	Category    string      `json:"category"    example:"languages"`
	Skills      []SkillView `json:"skills"`
	Count       int         `json:"count"       example:"4"`
	LastUpdated string      `json:"lastUpdated" example:"2024-06-21T10:00:00.000Z"`
	Message     string      `json:"message"     example:"Skills for category 'languages' retrieved successfully"`
}

func skillViews(skills []domain.Skill) []SkillView {
	out := make([]SkillView, 0, len(skills))
	for _, s := range skills {
		out = append(out, SkillView{
			Name:              s.Name,
			Proficiency:       s.Proficiency,
			YearsOfExperience: s.YearsOfExperience,
			Description:       s.Description,
		})
	}
	return out
}

func groupViews(groups map[string][]domain.Skill) map[string][]SkillView {
	out := make(map[string][]SkillView, len(groups))
	for cat, skills := range groups {
		out[cat] = skillViews(skills)
	}
	return out
}

//
// Handlers
//

// GetAbout godoc
// @ID          getAbout
// @Summary     Portfolio owner profile
// @Description Returns the active profile with experience and skills grouped by category.
// @Tags        Portfolio
// @Produce     json
// @Success     200  {object}  handlers.AboutResponse
// @Failure     404  {object}  middleware.ErrorEnvelope  "No active profile found"
// @Failure     500  {object}  middleware.ErrorEnvelope  "Internal error"
// @Router      /about [get]
func (h *Handlers) GetAbout(c *gin.Context) {
	about, err := h.profile.About(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	p := about.Profile
	exp := p.Experience
	if exp == nil {
		exp = []domain.Experience{}
	}
	ok(c, http.StatusOK, AboutResponse{
		Success: true,
		Data: AboutData{
			Name:         p.Name,
			Title:        p.Title,
			Email:        p.Email,
			Phone:        p.Phone,
			Location:     p.Location,
			Bio:          p.Bio,
			Experience:   exp,
			Website:      p.Website,
			GitHub:       p.GitHub,
			LinkedIn:     p.LinkedIn,
			Resume:       p.Resume,
			ProfileImage: p.ProfileImage,
			Skills:       groupViews(about.Skills),
		},
		LastUpdated: formatTime(about.LastUpdated),
		Message:     "About information retrieved successfully",
	})
}

// ListSkills godoc
// @ID          listSkills
// @Summary     Skills catalogue
// @Description Every active skill grouped by category, with per-category counts.
// @Tags        Portfolio
// @Produce     json
// @Success     200  {object}  handlers.SkillsResponse
// @Failure     500  {object}  middleware.ErrorEnvelope  "Internal error"
// @Router      /skills [get]
func (h *Handlers) ListSkills(c *gin.Context) {
	cat, err := h.skills.Catalog(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	last := h.now()
	if cat.LastUpdated != nil {
		last = *cat.LastUpdated
	}
	ok(c, http.StatusOK, SkillsResponse{
		Success:     true,
		Data:        groupViews(cat.Groups),
		Categories:  cat.Categories,
		Counts:      cat.Counts,
		Total:       cat.Total,
		LastUpdated: formatTime(last),
		Message:     "Skills information retrieved successfully",
	})
}

// GetSkillCategory godoc
// @ID          getSkillCategory
// @Summary     Skills in one category
// @Tags        Portfolio
// @Produce     json
// @Param       category  path  string  true  "Skill category"  example(languages)
// @Success     200  {object}  handlers.SkillCategoryResponse
// @Failure     404  {object}  middleware.ErrorEnvelope  "Unknown category; details list the valid ones"
// @Failure     500  {object}  middleware.ErrorEnvelope  "Internal error"
// @Router      /skills/{category} [get]
func (h *Handlers) GetSkillCategory(c *gin.Context) {
	category, skills, err := h.skills.Category(c.Request.Context(), c.Param("category"))
	if err != nil {
		fail(c, err)
		return
	}
	views := skillViews(skills)
	ok(c, http.StatusOK, SkillCategoryResponse{
		Success:     true,
		Category:    category,
		Skills:      views,
		Count:       len(views),
		LastUpdated: formatTime(h.now()),
		Message:     "Skills for category '" + category + "' retrieved successfully",
	})
}
