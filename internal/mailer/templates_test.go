package mailer

import (
	"strings"
	"testing"
	"time"
)

func TestContactNotification_EscapesUserInput(t *testing.T) {
	m := ContactNotification("owner@example.com", Submission{
		Name:        "<script>alert(1)</script>Eve",
		Email:       "eve@example.com",
		Subject:     "Hi <b>there</b>",
		Message:     "line one\nline two",
		SubmittedAt: time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC),
		IPAddress:   "198.51.100.2",
	})
	if m.Kind != KindContactNotification || m.To[0] != "owner@example.com" || m.ReplyTo != "eve@example.com" {
		t.Fatalf("unexpected envelope: %+v", m)
	}
	if strings.Contains(m.HTML, "<script") || strings.Contains(m.HTML, "<b>") {
		t.Fatalf("HTML part contains live markup from input: %s", m.HTML)
	}
	if !strings.Contains(m.Text, "line one\nline two") || !strings.Contains(m.Text, "2025-02-03T04:05:06Z") {
		t.Fatalf("unexpected text part: %s", m.Text)
	}
	if !strings.Contains(m.HTML, "<h2>New Contact Form Submission</h2>") {
		t.Fatalf("template tags must survive sanitizing: %s", m.HTML)
	}
}

func TestContactConfirmation(t *testing.T) {
	m := ContactConfirmation("", Submission{Name: "Ada", Email: "ada@example.com", Subject: "Project", Message: "Hello"})
	if m.To[0] != "ada@example.com" || m.Subject != "Thank you for contacting the site owner" {
		t.Fatalf("unexpected message: %+v", m)
	}
	m = ContactConfirmation("Jane Doe", Submission{Name: "Ada", Email: "ada@example.com", Subject: "Project", Message: "Hello"})
	if !strings.Contains(m.Text, "Jane Doe") || !strings.Contains(m.Text, `about "Project"`) {
		t.Fatalf("unexpected text: %s", m.Text)
	}
}
