// Utility and informational HTTP handlers.
//
// This file exposes:
//   - GET /api/isitnotfriday   (day check on the injected clock)
//   - GET /api/health          (liveness)
//   - GET /api/info            (service metadata and endpoint list)
//   - GET /api/docs            (machine-readable endpoint catalogue)
//   - GET /                    (welcome)
package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-portfolio-backend/internal/http/middleware"
)

// endpoints lists every public route signature, in display order.
var endpoints = []string{
	"GET /api/health",
	"GET /api/info",
	"GET /api/docs",
	"POST /api/contact",
	"GET /api/contact",
	"GET /api/contact/:id",
	"PATCH /api/contact/:id",
	"GET /api/isitnotfriday",
	"GET /api/about",
	"GET /api/skills",
	"GET /api/skills/:category",
}

//
// DTOs
//

// DayCheck is the outcome of the Friday check for one instant.
type DayCheck struct {
	CurrentDay string `json:"currentDay" example:"Monday"`
	IsFriday   bool   `json:"isFriday"   example:"false"`
	DayOfWeek  int    `json:"dayOfWeek"  example:"1"`
	Timestamp  string `json:"timestamp"  example:"2024-06-17T10:00:00.000Z"`
	Timezone   string `json:"timezone"   example:"Europe/Lisbon"`
}

// Answer is "No" on Fridays and "Yes" otherwise.
func (d DayCheck) Answer() string {
	if d.IsFriday {
		return "No"
	}
	return "Yes"
}

// CheckDay evaluates t in loc. zone overrides the reported zone name.
func CheckDay(t time.Time, loc *time.Location, zone string) DayCheck {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	if zone == "" {
		zone = loc.String()
	}
	wd := local.Weekday()
	return DayCheck{
		CurrentDay: wd.String(),
		IsFriday:   wd == time.Friday,
		DayOfWeek:  int(wd),
		Timestamp:  formatTime(t),
		Timezone:   zone,
	}
}

// NotFridayResponse is returned by /api/isitnotfriday.
type NotFridayResponse struct {
	Success  bool     `json:"success"  example:"true"`
	Question string   `json:"question" example:"Is it not Friday?"`
	Answer   string   `json:"answer"   example:"Yes" enums:"Yes,No"`
	Details  DayCheck `json:"details"`
	Message  string   `json:"message"  example:"It's Monday. Still waiting for Friday!"`
}

// HealthResponse is the liveness document.
type HealthResponse struct {
	Success     bool   `json:"success"     example:"true"`
	Status      string `json:"status"      example:"healthy"`
	Timestamp   string `json:"timestamp"   example:"2024-06-21T10:00:00.000Z"`
	Environment string `json:"environment" example:"production"`
	Version     string `json:"version"     example:"1.0.0"`
	Message     string `json:"message"     example:"API is running successfully"`
}

// InfoResponse describes the service.
type InfoResponse struct {
	Success       bool     `json:"success"       example:"true"`
	Name          string   `json:"name"          example:"portfolio-api"`
	Version       string   `json:"version"       example:"1.0.0"`
	Description   string   `json:"description"   example:"REST API for the portfolio website"`
	Author        string   `json:"author"        example:"Jane Doe"`
	Environment   string   `json:"environment"   example:"production"`
	Documentation string   `json:"documentation" example:"/api/docs"`
	Endpoints     []string `json:"endpoints"`
}

// EndpointDoc documents one route.
type EndpointDoc struct {
	Method      string         `json:"method"              example:"GET"`
	Path        string         `json:"path"                example:"/api/health"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters,omitempty"`
	Body        map[string]any `json:"body,omitempty"`
	Example     any            `json:"example,omitempty"`
	TestURL     string         `json:"testUrl"`
}

// DocsBaseURL lists the URLs the API is reachable at.
type DocsBaseURL struct {
	Current     string `json:"current"     example:"https://api.example.com"`
	Development string `json:"development" example:"http://localhost:3000"`
}

// DocsResponse is the endpoint catalogue.
type DocsResponse struct {
	Success     bool                   `json:"success"     example:"true"`
	Title       string                 `json:"title"       example:"portfolio-api documentation"`
	Version     string                 `json:"version"     example:"1.0.0"`
	Description string                 `json:"description"`
	Author      string                 `json:"author"`
	BaseURL     DocsBaseURL            `json:"baseUrl"`
	LastUpdated string                 `json:"lastUpdated" example:"2024-06-21T10:00:00.000Z"`
	Endpoints   map[string]EndpointDoc `json:"endpoints"`
}

// WelcomeResponse is served at the root.
type WelcomeResponse struct {
	Success       bool   `json:"success"       example:"true"`
	Message       string `json:"message"       example:"Welcome to the portfolio API"`
	Documentation string `json:"documentation" example:"/api/info"`
}

//
// Helpers
//

// baseURL returns scheme://host of the request, honoring X-Forwarded-Proto.
func baseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}

func (h *Handlers) description() string {
	if h.opts.Author != "" {
		return "REST API for " + h.opts.Author + "'s portfolio website"
	}
	return "REST API for the portfolio website"
}

func (h *Handlers) endpointDocs(base string) map[string]EndpointDoc {
	now := formatTime(h.now())
	return map[string]EndpointDoc{
		"health": {
			Method: "GET", Path: "/api/health",
			Description: "Check API server status and health",
			Example: HealthResponse{
				Success: true, Status: "healthy", Timestamp: now,
				Environment: h.opts.Environment, Version: h.opts.Version,
				Message: "API is running successfully",
			},
			TestURL: base + "/api/health",
		},
		"info": {
			Method: "GET", Path: "/api/info",
			Description: "Get API information and available endpoints",
			TestURL:     base + "/api/info",
		},
		"docs": {
			Method: "GET", Path: "/api/docs",
			Description: "This endpoint catalogue",
			TestURL:     base + "/api/docs",
		},
		"contactSubmit": {
			Method: "POST", Path: "/api/contact",
			Description: "Submit the contact form; e-mails are sent best-effort",
			Body: map[string]any{
				"required": []string{"name", "email", "subject", "message"},
				"schema": map[string]string{
					"name":    "2-50 characters, letters/spaces/hyphens/apostrophes/periods only",
					"email":   "valid e-mail address, max 100 characters",
					"subject": "5-100 characters",
					"message": "10-1000 characters",
				},
				"example": ContactRequest{
					Name:    "John Doe",
					Email:   "john.doe@example.com",
					Subject: "Project Inquiry",
					Message: "I'm interested in discussing a potential project with you.",
				},
			},
			Parameters: map[string]any{"Idempotency-Key": "optional header; retries with the same key return the original receipt"},
			TestURL:    base + "/api/contact",
		},
		"contactList": {
			Method: "GET", Path: "/api/contact",
			Description: "List contact submissions, newest first",
			Parameters: map[string]any{
				"page":   "page number, default 1",
				"limit":  "items per page, 1-100, default 10",
				"status": "new, read, replied or archived",
			},
			TestURL: base + "/api/contact",
		},
		"contactGet": {
			Method: "GET", Path: "/api/contact/:id",
			Description: "Get one contact submission by ID",
			Parameters:  map[string]any{"id": "submission UUID"},
			TestURL:     base + "/api/contact/{id}",
		},
		"contactStatus": {
			Method: "PATCH", Path: "/api/contact/:id",
			Description: "Change the status of a submission",
			Body:        map[string]any{"status": "new, read, replied or archived"},
			TestURL:     base + "/api/contact/{id}",
		},
		"isItNotFriday": {
			Method: "GET", Path: "/api/isitnotfriday",
			Description: "Answers \"Yes\" unless today is Friday",
			TestURL:     base + "/api/isitnotfriday",
		},
		"about": {
			Method: "GET", Path: "/api/about",
			Description: "Owner profile with experience and grouped skills",
			TestURL:     base + "/api/about",
		},
		"skills": {
			Method: "GET", Path: "/api/skills",
			Description: "All skills grouped by category",
			TestURL:     base + "/api/skills",
		},
		"skillsByCategory": {
			Method: "GET", Path: "/api/skills/:category",
			Description: "Skills in one category; 404 lists the valid categories",
			Parameters:  map[string]any{"category": "e.g. languages, mobile, backend, tools"},
			TestURL:     base + "/api/skills/languages",
		},
	}
}

//
// Handlers
//

// IsItNotFriday godoc
// @ID          isItNotFriday
// @Summary     Is it not Friday?
// @Description Answers "Yes" on every day but Friday.
// @Tags        Utility
// @Produce     json
// @Success     200  {object}  handlers.NotFridayResponse
// @Router      /isitnotfriday [get]
func (h *Handlers) IsItNotFriday(c *gin.Context) {
	d := CheckDay(h.now(), h.opts.Location, h.opts.TimezoneName)
	msg := "It's " + d.CurrentDay + ". Still waiting for Friday!"
	if d.IsFriday {
		msg = "It's Friday! Time to celebrate!"
	}
	middleware.LoggerFrom(c).Debug().
		Str("day", d.CurrentDay).
		Str("answer", d.Answer()).
		Msg("friday check")
	ok(c, http.StatusOK, NotFridayResponse{
		Success:  true,
		Question: "Is it not Friday?",
		Answer:   d.Answer(),
		Details:  d,
		Message:  msg,
	})
}

// Health godoc
// @ID          health
// @Summary     Liveness probe
// @Tags        Meta
// @Produce     json
// @Success     200  {object}  handlers.HealthResponse
// @Router      /health [get]
func (h *Handlers) Health(c *gin.Context) {
	ok(c, http.StatusOK, HealthResponse{
		Success:     true,
		Status:      "healthy",
		Timestamp:   formatTime(h.now()),
		Environment: h.opts.Environment,
		Version:     h.opts.Version,
		Message:     "API is running successfully",
	})
}

// Info godoc
// @ID          info
// @Summary     Service metadata
// @Tags        Meta
// @Produce     json
// @Success     200  {object}  handlers.InfoResponse
// @Router      /info [get]
func (h *Handlers) Info(c *gin.Context) {
	ok(c, http.StatusOK, InfoResponse{
		Success:       true,
		Name:          h.opts.ServiceName,
		Version:       h.opts.Version,
		Description:   h.description(),
		Author:        h.opts.Author,
		Environment:   h.opts.Environment,
		Documentation: "/api/docs",
		Endpoints:     append([]string(nil), endpoints...),
	})
}

// Docs godoc
// @ID          docs
// @Summary     Endpoint catalogue
// @Description Describes every endpoint with examples and a test URL built from the request host.
// @Tags        Meta
// @Produce     json
// @Success     200  {object}  handlers.DocsResponse
// @Router      /docs [get]
func (h *Handlers) Docs(c *gin.Context) {
	base := baseURL(c)
	ok(c, http.StatusOK, DocsResponse{
		Success:     true,
		Title:       h.opts.ServiceName + " documentation",
		Version:     h.opts.Version,
		Description: h.description(),
		Author:      h.opts.Author,
		BaseURL:     DocsBaseURL{Current: base, Development: "http://localhost:3000"},
		LastUpdated: formatTime(h.now()),
		Endpoints:   h.endpointDocs(base),
	})
}

// Root godoc
// @ID          root
// @Summary     Welcome
// @Tags        Meta
// @Produce     json
// @Success     200  {object}  handlers.WelcomeResponse
// @Router      / [get]
func (h *Handlers) Root(c *gin.Context) {
	name := "the portfolio API"
	if h.opts.Author != "" {
		name = h.opts.Author + "'s portfolio API"
	}
	ok(c, http.StatusOK, WelcomeResponse{
		Success:       true,
		Message:       "Welcome to " + name,
		Documentation: "/api/info",
	})
}
