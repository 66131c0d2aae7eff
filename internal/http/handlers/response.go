// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the success-side response utilities shared by every
// endpoint. Failures never pass through here: handlers forward them with
// fail(), and middleware.ErrorTerminal renders the error envelope. Keeping
// the two paths apart guarantees that a body carries "success": true exactly
// when the status is 2xx.
//
// Conventions:
//   - Every success body has a top-level `success: true` and, for resource
//     endpoints, a human `message`.
//   - Timestamps are UTC with millisecond precision (2024-06-21T10:00:00.000Z).
//   - List endpoints carry a Pagination block.
//
// Example success response:
//
//	HTTP/1.1 200 OK
//	{
//	  "success": true,
//	  "data": [...],
//	  "pagination": {"page": 1, "limit": 10, "total": 42, "totalPages": 5, "hasNext": true},
//	  "message": "Contact submissions retrieved successfully"
//	}
package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
)

// timestampLayout renders instants like JavaScript's toISOString.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"       example:"1"`
	Limit      int   `json:"limit"      example:"10"`
	Total      int64 `json:"total"      example:"42"`
	TotalPages int   `json:"totalPages" example:"5"`
	HasNext    bool  `json:"hasNext"    example:"true"`
}

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// formatTime renders t in UTC with timestampLayout.
func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
