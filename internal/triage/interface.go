package triage

import (
	"context"

	"mail-triage/internal/model"
)

// MailGateway reaches the external service that owns mailbox polling and
// SMTP forwarding.
type MailGateway interface {
	CheckEmails(ctx context.Context) ([]*model.Email, error)
	ForwardEmail(ctx context.Context, email *model.Email, department string, analysis *model.EmailAnalysis) error
}

// Classifier reaches the external AI analysis service.
type Classifier interface {
	ProcessEmail(ctx context.Context, email *model.Email) (*model.EmailAnalysis, string, error)
}

// StatsRecorder reads and increments the backend-owned all-time counters.
type StatsRecorder interface {
	GetStats(ctx context.Context) (*model.HistoricalStats, error)
	RecordProcessed(ctx context.Context, department string, confidence int) (*model.HistoricalStats, error)
	RecordReceived(ctx context.Context, count int) (*model.HistoricalStats, error)
}

// SettingsStore persists settings and departments and mirrors the
// automation toggle to the backend.
type SettingsStore interface {
	GetSettings(ctx context.Context) (*model.AppSettings, error)
	SaveSettings(ctx context.Context, settings *model.AppSettings) error
	AddDepartment(ctx context.Context, department model.Department) error
	DeleteDepartment(ctx context.Context, nome string) error
	StartAutomation(ctx context.Context) error
	StopAutomation(ctx context.Context) error
}

// Notifier pushes triage events to whatever front end is attached.
type Notifier interface {
	Notify(event string, data interface{})
}
