package mailer

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

// Message kinds.
const (
	KindContactNotification = "contact_notification"
	KindContactConfirmation = "contact_confirmation"
)

// Submission is the data rendered into contact e-mails.
type Submission struct {
	Name        string
	Email       string
	Subject     string
	Message     string // the submitter's text, without the composed subject line
	SubmittedAt time.Time
	IPAddress   string
}

// htmlPolicy allows the small set of tags the templates emit. bluemonday
// policies are safe for concurrent use once built.
var htmlPolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("h2", "h3", "p", "strong", "br", "hr", "small")
	return p
}()

func paragraphs(s string) string {
	return strings.ReplaceAll(html.EscapeString(s), "\n", "<br>")
}

// ContactNotification renders the operator notification for s.
func ContactNotification(to string, s Submission) Message {
	ts := s.SubmittedAt.UTC().Format(time.RFC3339)
	text := fmt.Sprintf(`New Contact Form Submission

From: %s
Email: %s
Subject: %s

Message:
%s

Submitted on: %s
IP Address: %s
`, s.Name, s.Email, s.Subject, s.Message, ts, s.IPAddress)

	body := fmt.Sprintf(`<h2>New Contact Form Submission</h2>
<p><strong>From:</strong> %s</p>
<p><strong>Email:</strong> %s</p>
<p><strong>Subject:</strong> %s</p>
<p><strong>Message:</strong></p>
<p>%s</p>
<hr>
<p><small>Submitted on: %s</small></p>
<p><small>IP Address: %s</small></p>
`, html.EscapeString(s.Name), html.EscapeString(s.Email), html.EscapeString(s.Subject),
		paragraphs(s.Message), ts, html.EscapeString(s.IPAddress))

	return Message{
		Kind:    KindContactNotification,
		To:      []string{to},
		ReplyTo: s.Email,
		Subject: "New Contact Form Submission: " + s.Subject,
		Text:    text,
		HTML:    htmlPolicy.Sanitize(body),
	}
}

// ContactConfirmation renders the acknowledgement sent to the submitter.
// owner is the display name used in the greeting and signature.
func ContactConfirmation(owner string, s Submission) Message {
	if owner == "" {
		owner = "the site owner"
	}
	text := fmt.Sprintf(`Thank you for your message!

Hi %s,

Thank you for reaching out through my website. I've received your message about "%s" and will get back to you as soon as possible.

Your message:
%s

Best regards,
%s

---
This is an automated confirmation email. Please don't reply to this email.
`, s.Name, s.Subject, s.Message, owner)

	body := fmt.Sprintf(`<h2>Thank you for your message!</h2>
<p>Hi %s,</p>
<p>Thank you for reaching out through my website. I've received your message about &#34;%s&#34; and will get back to you as soon as possible.</p>
<h3>Your message:</h3>
<p>%s</p>
<p>Best regards,<br>%s</p>
<hr>
<p><small>This is an automated confirmation email. Please don't reply to this email.</small></p>
`, html.EscapeString(s.Name), html.EscapeString(s.Subject), paragraphs(s.Message), html.EscapeString(owner))

	return Message{
		Kind:    KindContactConfirmation,
		To:      []string{s.Email},
		Subject: "Thank you for contacting " + owner,
		Text:    text,
		HTML:    htmlPolicy.Sanitize(body),
	}
}
