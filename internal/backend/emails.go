package backend

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"mail-triage/internal/model"
)

// emailPayload is the wire form of an email. Timestamps arrive as the raw
// date header string, so they are parsed leniently.
type emailPayload struct {
	ID          string   `json:"id"`
	Sender      string   `json:"sender"`
	Subject     string   `json:"subject"`
	Body        string   `json:"body"`
	Timestamp   string   `json:"timestamp"`
	Attachments []string `json:"attachments"`
	PDFContent  string   `json:"pdfContent"`
}

var timestampLayouts = []string{
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"2006-01-02 15:04:05",
}

func parseTimestamp(value string) time.Time {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts
		}
	}
	return time.Now()
}

func (p *emailPayload) toModel() *model.Email {
	email := model.NewEmail(p.Sender, p.Subject, p.Body, parseTimestamp(p.Timestamp), p.Attachments)
	if p.ID != "" {
		email.ID = p.ID
	} else {
		email.ID = uuid.New().String()
	}
	if email.Attachments == nil {
		email.Attachments = []string{}
	}
	email.PDFContent = p.PDFContent
	return email
}

// CheckEmails asks the backend to poll the mailbox and returns the new
// messages, already normalized to fresh triage records.
func (c *Client) CheckEmails(ctx context.Context) ([]*model.Email, error) {
	var result struct {
		Success bool           `json:"success"`
		Count   int            `json:"count"`
		Emails  []emailPayload `json:"emails"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/emails/check", nil, &result); err != nil {
		return nil, fmt.Errorf("failed to check emails: %w", err)
	}

	emails := make([]*model.Email, 0, len(result.Emails))
	for i := range result.Emails {
		emails = append(emails, result.Emails[i].toModel())
	}

	c.logger.Info("Checked mailbox, found", len(emails), "new emails")
	return emails, nil
}

// ProcessEmail runs the AI analysis for one email and returns the analysis
// together with the suggested department name.
func (c *Client) ProcessEmail(ctx context.Context, email *model.Email) (*model.EmailAnalysis, string, error) {
	request := map[string]interface{}{"email": email}

	var result struct {
		Success             bool                `json:"success"`
		Analysis            model.EmailAnalysis `json:"analysis"`
		SuggestedDepartment string              `json:"suggestedDepartment"`
		DepartmentEmail     string              `json:"departmentEmail"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/emails/process", request, &result); err != nil {
		return nil, "", fmt.Errorf("failed to process email: %w", err)
	}

	suggested := result.SuggestedDepartment
	if suggested == "" {
		suggested = result.Analysis.RepartoSuggerito
	}

	c.logger.Info("Email", email.ID, "classified as:", suggested, "confidence:", result.Analysis.Confidence)
	return &result.Analysis, suggested, nil
}

// ForwardEmail asks the backend to forward the email to the department's
// address via SMTP. The analysis is optional and rides along for the
// forwarding template.
func (c *Client) ForwardEmail(ctx context.Context, email *model.Email, department string, analysis *model.EmailAnalysis) error {
	request := map[string]interface{}{
		"email":      email,
		"department": department,
	}
	if analysis != nil {
		request["analysis"] = analysis
	}

	var ack ackResponse
	if err := c.doJSON(ctx, http.MethodPost, "/emails/forward", request, &ack); err != nil {
		return fmt.Errorf("failed to forward email: %w", err)
	}

	c.logger.Info("Email", email.ID, "forwarded to department:", department)
	return nil
}
