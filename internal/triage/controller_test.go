package triage

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mail-triage/internal/backend"
	"mail-triage/internal/logger"
	"mail-triage/internal/metrics"
	"mail-triage/internal/model"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingNotifier) Notify(event string, data interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingNotifier) has(event string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e == event {
			return true
		}
	}
	return false
}

func newTestController(mock *backend.MockClient) (*Controller, *recordingNotifier) {
	notifier := &recordingNotifier{}
	c := NewController(mock, mock, mock, mock, notifier, metrics.New(), logger.NewWithWriter(io.Discard), 0)
	c.settings.Departments = []model.Department{
		{Nome: "Support", Email: "support@example.com"},
		{Nome: "Sales", Email: "sales@example.com"},
	}
	return c, notifier
}

func seedEmail(c *Controller, id string, status model.Status) *model.Email {
	email := &model.Email{
		ID:        id,
		Sender:    "alice@example.com",
		Subject:   "Order question",
		Body:      "Where is my order?",
		Timestamp: time.Now(),
		Status:    status,
	}
	c.mu.Lock()
	c.emails = append(c.emails, email)
	c.mu.Unlock()
	return email
}

func TestCheckMailPrependsNewestFirst(t *testing.T) {
	mock := backend.NewMockClient()
	mock.CheckEmailsFunc = func(ctx context.Context) ([]*model.Email, error) {
		return []*model.Email{
			model.NewEmail("new@example.com", "New", "body", time.Now(), nil),
		}, nil
	}
	c, notifier := newTestController(mock)
	seedEmail(c, "old-1", model.StatusNotProcessed)

	fetched, err := c.CheckMail(context.Background())
	require.NoError(t, err)
	require.Len(t, fetched, 1)

	emails := c.Emails()
	require.Len(t, emails, 2)
	assert.Equal(t, "New", emails[0].Subject)
	assert.Equal(t, "old-1", emails[1].ID)
	assert.True(t, notifier.has("mail_checked"))
}

func TestCheckMailEmptyResultIsQuiet(t *testing.T) {
	mock := backend.NewMockClient()
	c, notifier := newTestController(mock)

	fetched, err := c.CheckMail(context.Background())
	require.NoError(t, err)
	assert.Empty(t, fetched)
	assert.False(t, notifier.has("mail_checked"))
}

func TestCheckMailBackendError(t *testing.T) {
	mock := backend.NewMockClient()
	mock.CheckEmailsFunc = func(ctx context.Context) ([]*model.Email, error) {
		return nil, errors.New("imap unreachable")
	}
	c, _ := newTestController(mock)

	_, err := c.CheckMail(context.Background())
	require.Error(t, err)
	assert.Empty(t, c.Emails())
}

func TestClassifyPopulatesSuggestion(t *testing.T) {
	mock := backend.NewMockClient()
	mock.ProcessEmailFunc = func(ctx context.Context, email *model.Email) (*model.EmailAnalysis, string, error) {
		return &model.EmailAnalysis{
			RepartoSuggerito: "Sales",
			Confidence:       92,
			Summary:          "Customer asks about an order",
			Reasoning:        "Mentions an order number",
		}, "Sales", nil
	}
	c, notifier := newTestController(mock)
	seedEmail(c, "e-1", model.StatusNotProcessed)

	email, err := c.Classify(context.Background(), "e-1")
	require.NoError(t, err)
	require.NotNil(t, email)
	assert.Equal(t, model.StatusNotProcessed, email.Status)
	assert.Equal(t, "Sales", email.SuggestedDepartment)
	assert.Equal(t, 92, email.Confidence)
	assert.Equal(t, "Customer asks about an order", email.AISummary)
	assert.True(t, notifier.has("email_classified"))
}

func TestClassifyFailureSetsErrorStatus(t *testing.T) {
	mock := backend.NewMockClient()
	mock.ProcessEmailFunc = func(ctx context.Context, email *model.Email) (*model.EmailAnalysis, string, error) {
		return nil, "", errors.New("model overloaded")
	}
	c, _ := newTestController(mock)
	seedEmail(c, "e-1", model.StatusNotProcessed)

	_, err := c.Classify(context.Background(), "e-1")
	require.Error(t, err)

	email := c.Emails()[0]
	assert.Equal(t, model.StatusError, email.Status)
	assert.Contains(t, email.Error, "model overloaded")
	assert.Empty(t, email.SuggestedDepartment)
	assert.Zero(t, email.Confidence)
}

func TestClassifyIsNoOpForDecidedEmail(t *testing.T) {
	mock := backend.NewMockClient()
	called := false
	mock.ProcessEmailFunc = func(ctx context.Context, email *model.Email) (*model.EmailAnalysis, string, error) {
		called = true
		return nil, "", nil
	}
	c, _ := newTestController(mock)
	seedEmail(c, "e-1", model.StatusForwarded)

	email, err := c.Classify(context.Background(), "e-1")
	require.NoError(t, err)
	assert.Nil(t, email)
	assert.False(t, called)
	assert.Equal(t, model.StatusForwarded, c.Emails()[0].Status)
}

func TestClassifyUnknownEmail(t *testing.T) {
	c, _ := newTestController(backend.NewMockClient())

	_, err := c.Classify(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrEmailNotFound)
}

func TestRetryClassificationRecoversFromError(t *testing.T) {
	mock := backend.NewMockClient()
	c, _ := newTestController(mock)
	email := seedEmail(c, "e-1", model.StatusError)
	email.Error = "model overloaded"

	classified, err := c.RetryClassification(context.Background(), "e-1")
	require.NoError(t, err)
	require.NotNil(t, classified)
	assert.Equal(t, model.StatusNotProcessed, classified.Status)
	assert.Empty(t, classified.Error)
	assert.Equal(t, "Support", classified.SuggestedDepartment)
}

func TestConfirmForwardsToSuggestedDepartment(t *testing.T) {
	mock := backend.NewMockClient()
	var forwardedTo string
	mock.ForwardEmailFunc = func(ctx context.Context, email *model.Email, department string, analysis *model.EmailAnalysis) error {
		forwardedTo = department
		return nil
	}
	c, notifier := newTestController(mock)
	email := seedEmail(c, "e-1", model.StatusNotProcessed)
	email.SuggestedDepartment = "Support"
	email.Confidence = 85

	count, err := c.Confirm(context.Background(), []string{"e-1"})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, "Support", forwardedTo)

	got := c.Emails()[0]
	assert.Equal(t, model.StatusForwarded, got.Status)
	assert.Equal(t, "Support", got.ForwardedToDepartment)
	require.NotNil(t, got.ProcessedAt)
	assert.True(t, notifier.has("emails_forwarded"))
}

func TestConfirmSkipsEmailsWithoutSuggestion(t *testing.T) {
	mock := backend.NewMockClient()
	c, _ := newTestController(mock)
	seedEmail(c, "e-1", model.StatusNotProcessed)

	count, err := c.Confirm(context.Background(), []string{"e-1"})
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Equal(t, model.StatusNotProcessed, c.Emails()[0].Status)
}

func TestConfirmAbortsOnForwardFailure(t *testing.T) {
	mock := backend.NewMockClient()
	calls := 0
	mock.ForwardEmailFunc = func(ctx context.Context, email *model.Email, department string, analysis *model.EmailAnalysis) error {
		calls++
		if calls == 2 {
			return errors.New("smtp refused")
		}
		return nil
	}
	c, _ := newTestController(mock)
	for _, id := range []string{"e-1", "e-2", "e-3"} {
		email := seedEmail(c, id, model.StatusNotProcessed)
		email.SuggestedDepartment = "Support"
	}

	count, err := c.Confirm(context.Background(), []string{"e-1", "e-2", "e-3"})
	require.Error(t, err)
	assert.Equal(t, 1, count)

	emails := c.Emails()
	assert.Equal(t, model.StatusForwarded, emails[0].Status)
	assert.Equal(t, model.StatusNotProcessed, emails[1].Status)
	assert.Equal(t, model.StatusNotProcessed, emails[2].Status)
}

func TestCancelKeepsAnalysis(t *testing.T) {
	c, notifier := newTestController(backend.NewMockClient())
	email := seedEmail(c, "e-1", model.StatusNotProcessed)
	email.SuggestedDepartment = "Support"
	email.Confidence = 70
	email.AISummary = "Summary"

	cancelled := c.Cancel([]string{"e-1", "missing"})
	assert.Equal(t, 1, cancelled)

	got := c.Emails()[0]
	assert.Equal(t, model.StatusCancelled, got.Status)
	assert.Equal(t, "Support", got.SuggestedDepartment)
	assert.Equal(t, 70, got.Confidence)
	require.NotNil(t, got.ProcessedAt)
	assert.True(t, notifier.has("emails_cancelled"))
}

func TestOverrideValidatesDepartment(t *testing.T) {
	c, _ := newTestController(backend.NewMockClient())
	email := seedEmail(c, "e-1", model.StatusNotProcessed)
	email.SuggestedDepartment = "Support"

	_, err := c.Override("e-1", "Legal")
	assert.ErrorIs(t, err, ErrUnknownDepartment)
	assert.Equal(t, "Support", c.Emails()[0].SuggestedDepartment)
}

func TestOverrideReplacesSuggestion(t *testing.T) {
	c, notifier := newTestController(backend.NewMockClient())
	email := seedEmail(c, "e-1", model.StatusNotProcessed)
	email.SuggestedDepartment = "Support"

	got, err := c.Override("e-1", "Sales")
	require.NoError(t, err)
	assert.Equal(t, "Sales", got.SuggestedDepartment)
	assert.True(t, notifier.has("suggestion_overridden"))
}

func TestOverrideSameDepartmentIsNoOp(t *testing.T) {
	c, notifier := newTestController(backend.NewMockClient())
	email := seedEmail(c, "e-1", model.StatusNotProcessed)
	email.SuggestedDepartment = "Support"

	got, err := c.Override("e-1", "Support")
	require.NoError(t, err)
	assert.Equal(t, "Support", got.SuggestedDepartment)
	assert.False(t, notifier.has("suggestion_overridden"))
}

func TestRemove(t *testing.T) {
	c, _ := newTestController(backend.NewMockClient())
	seedEmail(c, "e-1", model.StatusNotProcessed)

	assert.True(t, c.Remove("e-1"))
	assert.Empty(t, c.Emails())
	assert.False(t, c.Remove("e-1"))
}

func TestSaveSettingsRejectsDuplicateDepartments(t *testing.T) {
	c, _ := newTestController(backend.NewMockClient())
	settings := c.Settings()
	settings.Departments = append(settings.Departments, model.Department{
		Nome:  "Support",
		Email: "other@example.com",
	})

	err := c.SaveSettings(context.Background(), settings)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate department")
}

func TestSaveSettingsRejectsBadInterval(t *testing.T) {
	c, _ := newTestController(backend.NewMockClient())
	settings := c.Settings()
	settings.AutomaticRouting = model.AutomationConfig{Enabled: true, CheckInterval: 0}

	err := c.SaveSettings(context.Background(), settings)
	require.Error(t, err)
}

func TestSaveSettingsSyncsBackendAutomation(t *testing.T) {
	mock := backend.NewMockClient()
	started, stopped := false, false
	mock.StartAutomationFunc = func(ctx context.Context) error { started = true; return nil }
	mock.StopAutomationFunc = func(ctx context.Context) error { stopped = true; return nil }
	c, _ := newTestController(mock)
	c.intervalFor = func(minutes int) time.Duration { return time.Hour }
	defer c.Shutdown()

	settings := c.Settings()
	settings.AutomaticRouting = model.AutomationConfig{Enabled: true, CheckInterval: 5}
	require.NoError(t, c.SaveSettings(context.Background(), settings))
	assert.True(t, started)
	assert.True(t, c.AutomationRunning())

	settings.AutomaticRouting.Enabled = false
	require.NoError(t, c.SaveSettings(context.Background(), settings))
	assert.True(t, stopped)
	assert.False(t, c.AutomationRunning())
}

func TestAddDepartmentRejectsDuplicate(t *testing.T) {
	c, _ := newTestController(backend.NewMockClient())

	err := c.AddDepartment(context.Background(), model.Department{
		Nome:  "Support",
		Email: "dup@example.com",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestAddAndDeleteDepartment(t *testing.T) {
	c, _ := newTestController(backend.NewMockClient())

	err := c.AddDepartment(context.Background(), model.Department{
		Nome:  "Billing",
		Email: "billing@example.com",
	})
	require.NoError(t, err)
	settings := c.Settings()
	_, found := settings.FindDepartment("Billing")
	assert.True(t, found)

	require.NoError(t, c.DeleteDepartment(context.Background(), "Billing"))
	settings = c.Settings()
	_, found = settings.FindDepartment("Billing")
	assert.False(t, found)

	err = c.DeleteDepartment(context.Background(), "Billing")
	assert.ErrorIs(t, err, ErrUnknownDepartment)
}

func TestStatsRefreshUpdatesCache(t *testing.T) {
	mock := backend.NewMockClient()
	mock.GetStatsFunc = func(ctx context.Context) (*model.HistoricalStats, error) {
		return &model.HistoricalStats{
			TotalProcessed: 7,
			TotalReceived:  12,
			ByDepartment:   map[string]int{"Support": 7},
			LastUpdated:    time.Now(),
		}, nil
	}
	c, _ := newTestController(mock)

	stats, err := c.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, stats.TotalProcessed)
	assert.Equal(t, 7, c.CachedStats().TotalProcessed)
}
