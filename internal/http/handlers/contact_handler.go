// Contact HTTP handlers.
//
// This file exposes REST endpoints for contact-form submissions:
//   - POST  /api/contact        (submit; idempotent with Idempotency-Key)
//   - GET   /api/contact        (admin list, paginated, ETag support)
//   - GET   /api/contact/{id}   (admin lookup)
//   - PATCH /api/contact/{id}   (admin status update)
//
// Client metadata (IP, user agent) is stored with each submission but never
// serialized back.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/tbourn/go-portfolio-backend/internal/apperror"
	"github.com/tbourn/go-portfolio-backend/internal/domain"
	"github.com/tbourn/go-portfolio-backend/internal/http/middleware"
	"github.com/tbourn/go-portfolio-backend/internal/services"
	"github.com/tbourn/go-portfolio-backend/internal/utils"
)

//
// DTOs
//

// ContactRequest is the JSON payload of a contact-form submission. Values
// are trimmed before validation.
type ContactRequest struct {
	Name    string `json:"name"    binding:"required,min=2,max=50,personname" example:"John Doe"`
	Email   string `json:"email"   binding:"required,email,max=100"           example:"john.doe@example.com"`
	Subject string `json:"subject" binding:"required,min=5,max=100"           example:"Project Inquiry"`
	Message string `json:"message" binding:"required,min=10,max=1000"         example:"I'm interested in discussing a potential project with you."`
}

func (r *ContactRequest) trim() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Subject = strings.TrimSpace(r.Subject)
	r.Message = strings.TrimSpace(r.Message)
}

// ContactStatusRequest is the JSON payload for a status update.
type ContactStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=new read replied archived" example:"read"`
}

// ContactReceipt identifies an accepted submission.
type ContactReceipt struct {
	SubmissionID string `json:"submissionId" example:"7b0b8a8e-2f1e-4a57-9a35-1f0b7f7a4c11"`
	Timestamp    string `json:"timestamp"    example:"2024-06-21T10:00:00.000Z"`
}

// ContactCreatedResponse is returned by POST /api/contact. The receipt is
// repeated at top level for older clients.
type ContactCreatedResponse struct {
	Success      bool           `json:"success"      example:"true"`
	Message      string         `json:"message"      example:"Contact form submitted successfully"`
	Data         ContactReceipt `json:"data"`
	SubmissionID string         `json:"submissionId" example:"7b0b8a8e-2f1e-4a57-9a35-1f0b7f7a4c11"`
	Timestamp    string         `json:"timestamp"    example:"2024-06-21T10:00:00.000Z"`
}

// ContactListResponse wraps a page of submissions.
type ContactListResponse struct {
	Success    bool             `json:"success" example:"true"`
	Data       []domain.Contact `json:"data"`
	Pagination Pagination       `json:"pagination"`
	Message    string           `json:"message" example:"Contact submissions retrieved successfully"`
}

// ContactResponse wraps one submission.
type ContactResponse struct {
	Success bool            `json:"success" example:"true"`
	Data    *domain.Contact `json:"data"`
	Message string          `json:"message" example:"Contact submission retrieved successfully"`
}

func newContactCreated(c *domain.Contact) ContactCreatedResponse {
	r := ContactReceipt{SubmissionID: c.ID, Timestamp: formatTime(c.SubmittedAt)}
	return ContactCreatedResponse{
		Success:      true,
		Message:      "Contact form submitted successfully",
		Data:         r,
		SubmissionID: r.SubmissionID,
		Timestamp:    r.Timestamp,
	}
}

//
// Helpers
//

// requireJSON rejects bodies that are not declared as JSON; only those pass
// through the sanitizer.
func requireJSON(c *gin.Context) error {
	if middleware.IsJSON(c) {
		return nil
	}
	ct := c.ContentType()
	return apperror.Validation("Unsupported content type", apperror.FieldError{
		Field:    "Content-Type",
		Message:  "Content-Type must be application/json",
		Value:    ct,
		Location: "headers",
	})
}

// bindContact decodes the body, trims every field, then validates, so
// "  Al  " is accepted as "Al" and whitespace-only values are rejected.
func bindContact(c *gin.Context, req *ContactRequest) error {
	if err := requireJSON(c); err != nil {
		return err
	}
	if err := json.NewDecoder(c.Request.Body).Decode(req); err != nil {
		return err
	}
	req.trim()
	return binding.Validator.ValidateStruct(req)
}

// listQuery validates page, limit and status, collecting every failure.
func listQuery(c *gin.Context) (utils.Page, string, error) {
	pg, perrs := utils.ParsePage(c.Query("page"), c.Query("limit"))
	status := strings.ToLower(strings.TrimSpace(c.Query("status")))

	details := make([]apperror.FieldError, 0, len(perrs)+1)
	for _, pe := range perrs {
		details = append(details, apperror.FieldError{
			Field: pe.Param, Message: pe.Message, Value: pe.Value, Location: "query",
		})
	}
	if status != "" && !domain.IsValidContactStatus(status) {
		details = append(details, statusFieldError(status, "query"))
	}
	if len(details) > 0 {
		return pg, status, apperror.Validation("Invalid query parameters", details...)
	}
	return pg, status, nil
}

func contactsETag(status string, count int64, latestUnix int64, pg utils.Page) string {
	if status == "" {
		status = "all"
	}
	return fmt.Sprintf(`W/"contacts:%s:%d:%d:%d:%d"`, status, count, latestUnix, pg.Page, pg.Limit)
}

//
// Handlers
//

// SubmitContact godoc
// @ID          submitContact
// @Summary     Submit the contact form
// @Description Validates and stores a submission, then e-mails the owner and the submitter (best-effort).
// @Description With an Idempotency-Key header a retried request returns the original receipt.
// @Tags        Contact
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false  "Client retry key"  example(contact-5f2c)
// @Param       body             body    handlers.ContactRequest  true  "Contact form"
//
// @Success     201  {object}  handlers.ContactCreatedResponse
// @Header      201  {string}  Idempotency-Replayed  "true when served from a previous request"
// @Failure     400  {object}  middleware.ErrorEnvelope  "Validation failed"
// @Failure     429  {object}  middleware.ErrorEnvelope  "Too many submissions"
// @Failure     500  {object}  middleware.ErrorEnvelope  "Internal error"
// @Router      /contact [post]
func (h *Handlers) SubmitContact(c *gin.Context) {
	ctx := c.Request.Context()
	clientKey := c.ClientIP()
	key, hasKey := middleware.GetIdempotencyKey(c)

	if hasKey && middleware.IsReplay(c) {
		prev, found, err := h.contacts.Replay(ctx, clientKey, key)
		if err != nil {
			middleware.LoggerFrom(c).Warn().Err(err).Msg("idempotent replay failed; processing normally")
		}
		if found {
			c.Header(middleware.HeaderIdempotencyReplayed, "true")
			ok(c, http.StatusCreated, newContactCreated(prev))
			return
		}
	}

	var req ContactRequest
	if err := bindContact(c, &req); err != nil {
		fail(c, err)
		return
	}

	sub, err := h.contacts.Submit(ctx, services.ContactInput{
		Name:      req.Name,
		Email:     req.Email,
		Subject:   req.Subject,
		Message:   req.Message,
		IPAddress: clientKey,
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		fail(c, err)
		return
	}

	if hasKey {
		if err := h.contacts.Remember(ctx, clientKey, key, sub.ID, http.StatusCreated); err != nil {
			middleware.LoggerFrom(c).Warn().Err(err).Str("submission_id", sub.ID).Msg("idempotency record not stored")
		}
	}
	ok(c, http.StatusCreated, newContactCreated(sub))
}

// ListContacts godoc
// @ID          listContacts
// @Summary     List contact submissions (paginated)
// @Description Newest first. Supports a weak ETag via If-None-Match and may return 304.
// @Tags        Contact
// @Produce     json
//
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"  example(W/\"contacts:all:3:1718964000:1:10\")
// @Param       page           query   int     false  "Page number"                 minimum(1) default(1)
// @Param       limit          query   int     false  "Items per page"              minimum(1) maximum(100) default(10)
// @Param       status         query   string  false  "Status filter"               Enums(new, read, replied, archived)
//
// @Success     200  {object}  handlers.ContactListResponse
// @Header      200  {string}  ETag  "Weak ETag for current result"
// @Success     304  {string}  string  "Not Modified"
// @Failure     400  {object}  middleware.ErrorEnvelope  "Invalid query parameters"
// @Failure     500  {object}  middleware.ErrorEnvelope  "Internal error"
// @Router      /contact [get]
func (h *Handlers) ListContacts(c *gin.Context) {
	ctx := c.Request.Context()
	pg, status, err := listQuery(c)
	if err != nil {
		fail(c, err)
		return
	}

	// ETag pre-check (best effort).
	if count, latest, err := h.contacts.Stats(ctx, status); err == nil {
		var ts int64
		if latest != nil {
			ts = latest.Unix()
		}
		etag := contactsETag(status, count, ts, pg)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	items, total, err := h.contacts.ListPage(ctx, status, pg.Page, pg.Limit)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, http.StatusOK, ContactListResponse{
		Success: true,
		Data:    items,
		Pagination: Pagination{
			Page:       pg.Page,
			Limit:      pg.Limit,
			Total:      total,
			TotalPages: pg.TotalPages(total),
			HasNext:    pg.HasNext(total),
		},
		Message: "Contact submissions retrieved successfully",
	})
}

// GetContact godoc
// @ID          getContact
// @Summary     Get a contact submission
// @Tags        Contact
// @Produce     json
//
// @Param       id  path  string  true  "Submission ID (UUID)"  format(uuid) example(7b0b8a8e-2f1e-4a57-9a35-1f0b7f7a4c11)
//
// @Success     200  {object}  handlers.ContactResponse
// @Failure     400  {object}  middleware.ErrorEnvelope  "Invalid ID format"
// @Failure     404  {object}  middleware.ErrorEnvelope  "Contact submission not found"
// @Failure     500  {object}  middleware.ErrorEnvelope  "Internal error"
// @Router      /contact/{id} [get]
func (h *Handlers) GetContact(c *gin.Context) {
	sub, err := h.contacts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, ContactResponse{
		Success: true,
		Data:    sub,
		Message: "Contact submission retrieved successfully",
	})
}

// UpdateContactStatus godoc
// @ID          updateContactStatus
// @Summary     Change a submission's status
// @Tags        Contact
// @Accept      json
// @Produce     json
//
// @Param       id    path  string  true  "Submission ID (UUID)"  format(uuid)
// @Param       body  body  handlers.ContactStatusRequest  true  "New status"
//
// @Success     200  {object}  handlers.ContactResponse
// @Failure     400  {object}  middleware.ErrorEnvelope  "Validation failed"
// @Failure     404  {object}  middleware.ErrorEnvelope  "Contact submission not found"
// @Failure     500  {object}  middleware.ErrorEnvelope  "Internal error"
// @Router      /contact/{id} [patch]
func (h *Handlers) UpdateContactStatus(c *gin.Context) {
	var req ContactStatusRequest
	if err := requireJSON(c); err != nil {
		fail(c, err)
		return
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}
	sub, err := h.contacts.UpdateStatus(c.Request.Context(), c.Param("id"), strings.ToLower(req.Status))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, ContactResponse{
		Success: true,
		Data:    sub,
		Message: "Contact submission status updated",
	})
}
