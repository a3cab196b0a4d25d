// Package notify delivers rendered e-mail messages. It knows nothing about
// bookings: callers pick a template and supply its data.
package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"

	"gopkg.in/gomail.v2"
)

// EmailSender is the interface for sending email messages.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// SMTPConfig holds the settings of an SMTP relay.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender sends HTML mail through an SMTP relay.
type SMTPSender struct {
	from   string
	dialer *gomail.Dialer
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// SendEmail opens a connection per message. The context is only checked
// before dialing; gomail has no cancellation.
func (s *SMTPSender) SendEmail(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

// Template is a subject and body with {{key}} placeholders.
type Template struct {
	ID      string
	Subject string
	Body    string
}

// Template ids, one per notification type.
const (
	TemplateConfirmation = "confirmation"
	TemplateReminder     = "reminder"
	TemplateCancellation = "cancellation"
)

// TemplateEngine manages templates and renders them with data.
type TemplateEngine struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewTemplateEngine creates a TemplateEngine with the appointment templates
// pre-registered.
func NewTemplateEngine() *TemplateEngine {
	e := &TemplateEngine{templates: make(map[string]*Template)}
	for _, t := range []Template{
		{
			ID:      TemplateConfirmation,
			Subject: "Appointment confirmed for {{date}}",
			Body:    "<p>Dear {{patient_name}},</p><p>Your appointment on {{date}} from {{start}} to {{end}} is confirmed.</p>",
		},
		{
			ID:      TemplateReminder,
			Subject: "Reminder: appointment on {{date}}",
			Body:    "<p>Dear {{patient_name}},</p><p>This is a reminder of your appointment on {{date}} at {{start}}.</p>",
		},
		{
			ID:      TemplateCancellation,
			Subject: "Appointment on {{date}} cancelled",
			Body:    "<p>Dear {{patient_name}},</p><p>Your appointment on {{date}} at {{start}} has been cancelled.</p>",
		},
	} {
		e.RegisterTemplate(t)
	}
	return e
}

// RegisterTemplate adds or replaces a template.
func (e *TemplateEngine) RegisterTemplate(t Template) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.templates[t.ID] = &t
}

// Render performs {{key}} replacement on the template's subject and body.
// Values are HTML-escaped in the body and inserted verbatim in the plain-text
// subject. Placeholders without data are left as-is.
func (e *TemplateEngine) Render(templateID string, data map[string]string) (subject, body string, err error) {
	e.mu.RLock()
	t, ok := e.templates[templateID]
	e.mu.RUnlock()
	if !ok {
		return "", "", fmt.Errorf("template %q not found", templateID)
	}

	subject, body = t.Subject, t.Body
	for k, v := range data {
		placeholder := "{{" + k + "}}"
		subject = strings.ReplaceAll(subject, placeholder, v)
		body = strings.ReplaceAll(body, placeholder, html.EscapeString(v))
	}
	return subject, body, nil
}

// EmailCall records a single call to SendEmail.
type EmailCall struct {
	To      string
	Subject string
	Body    string
}

// MockEmailSender is a test double for EmailSender.
type MockEmailSender struct {
	mu         sync.Mutex
	calls      []EmailCall
	ShouldFail bool
	FailError  string
}

func (m *MockEmailSender) SendEmail(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, EmailCall{To: to, Subject: subject, Body: body})
	if m.ShouldFail {
		return errors.New(m.FailError)
	}
	return nil
}

// Calls returns a copy of the recorded calls.
func (m *MockEmailSender) Calls() []EmailCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]EmailCall, len(m.calls))
	copy(out, m.calls)
	return out
}
