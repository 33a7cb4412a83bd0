package model

import (
	"time"

	"github.com/google/uuid"
)

// Status is the position of an email in the triage cycle.
type Status string

const (
	StatusNotProcessed Status = "not_processed"
	StatusAnalyzing    Status = "analyzing"
	StatusForwarded    Status = "forwarded"
	StatusCancelled    Status = "cancelled"
	StatusError        Status = "error"
)

type Email struct {
	ID                    string     `json:"id"`
	Sender                string     `json:"sender"`
	Subject               string     `json:"subject"`
	Body                  string     `json:"body"`
	Timestamp             time.Time  `json:"timestamp"`
	Attachments           []string   `json:"attachments"`
	Status                Status     `json:"status"`
	SuggestedDepartment   string     `json:"suggestedDepartment,omitempty"`
	Confidence            int        `json:"confidence"`
	AISummary             string     `json:"aiSummary,omitempty"`
	AIReasoning           string     `json:"aiReasoning,omitempty"`
	ForwardedToDepartment string     `json:"forwardedToDepartment,omitempty"`
	ProcessedAt           *time.Time `json:"processedAt,omitempty"`
	Error                 string     `json:"error,omitempty"`
	PDFContent            string     `json:"pdfContent,omitempty"`
}

func NewEmail(sender, subject, body string, timestamp time.Time, attachments []string) *Email {
	return &Email{
		ID:          uuid.New().String(),
		Sender:      sender,
		Subject:     subject,
		Body:        body,
		Timestamp:   timestamp,
		Attachments: attachments,
		Status:      StatusNotProcessed,
	}
}

// InToProcess reports whether the email still needs a triage decision.
func (e *Email) InToProcess() bool {
	return e.Status == StatusNotProcessed || e.Status == StatusAnalyzing || e.Status == StatusError
}

// InProcessed reports whether the email has reached a terminal decision.
func (e *Email) InProcessed() bool {
	return e.Status == StatusForwarded || e.Status == StatusCancelled
}

// Clone returns a copy safe to hand out as a read-only snapshot.
func (e *Email) Clone() *Email {
	clone := *e
	if e.Attachments != nil {
		clone.Attachments = append([]string(nil), e.Attachments...)
	}
	if e.ProcessedAt != nil {
		t := *e.ProcessedAt
		clone.ProcessedAt = &t
	}
	return &clone
}

// EmailAnalysis is the classifier verdict for one email. Field names follow
// the backend wire format.
type EmailAnalysis struct {
	RepartoSuggerito string `json:"reparto_suggerito"`
	Confidence       int    `json:"confidence"`
	Summary          string `json:"summary"`
	Reasoning        string `json:"reasoning"`
}
