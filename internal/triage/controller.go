// Package triage holds the in-memory email collection and the decision
// flows that move emails from fetched to forwarded or cancelled.
package triage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"mail-triage/internal/logger"
	"mail-triage/internal/metrics"
	"mail-triage/internal/model"
)

var (
	ErrEmailNotFound     = errors.New("email not found")
	ErrUnknownDepartment = errors.New("unknown department")
)

// Controller owns the session email collection. All mutations go through
// it so the dashboard, the batch flow and the automation timer see one
// consistent state.
type Controller struct {
	mail       MailGateway
	classifier Classifier
	stats      StatsRecorder
	store      SettingsStore
	notifier   Notifier
	metrics    *metrics.TriageMetrics
	logger     *logger.Logger

	mu        sync.Mutex
	emails    []*model.Email
	settings  model.AppSettings
	histStats model.HistoricalStats
	review    []ReviewItem

	batchDelay time.Duration

	autoMu     sync.Mutex
	autoCancel context.CancelFunc

	// intervalFor can be overridden in tests to shrink the timer.
	intervalFor func(minutes int) time.Duration
}

func NewController(mail MailGateway, classifier Classifier, stats StatsRecorder, store SettingsStore, notifier Notifier, m *metrics.TriageMetrics, log *logger.Logger, batchDelay time.Duration) *Controller {
	return &Controller{
		mail:       mail,
		classifier: classifier,
		stats:      stats,
		store:      store,
		notifier:   notifier,
		metrics:    m,
		logger:     log,
		settings:   model.DefaultSettings(),
		batchDelay: batchDelay,
	}
}

// LoadSettings pulls settings and historical stats from the backend and
// arms the automation timer if routing is enabled. Called once at startup.
func (c *Controller) LoadSettings(ctx context.Context) error {
	settings, err := c.store.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	c.mu.Lock()
	c.settings = *settings
	automation := settings.AutomaticRouting
	c.mu.Unlock()

	if stats, err := c.stats.GetStats(ctx); err != nil {
		c.logger.Warn("Failed to load historical stats:", err)
	} else {
		c.setStats(stats)
	}

	c.configureAutomation(automation)
	return nil
}

// CheckMail fetches new emails and prepends them to the collection, newest
// first. Returns the fetched emails.
func (c *Controller) CheckMail(ctx context.Context) ([]*model.Email, error) {
	fetched, err := c.mail.CheckEmails(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check mail: %w", err)
	}
	if len(fetched) == 0 {
		return []*model.Email{}, nil
	}

	c.mu.Lock()
	c.emails = append(append([]*model.Email{}, fetched...), c.emails...)
	c.updateQueueGaugeLocked()
	clones := make([]*model.Email, len(fetched))
	for i, email := range fetched {
		clones[i] = email.Clone()
	}
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.RecordReceived(len(fetched))
	}
	if stats, err := c.stats.RecordReceived(ctx, len(fetched)); err != nil {
		c.logger.Warn("Failed to record received count:", err)
	} else {
		c.setStats(stats)
	}

	c.logger.Info("Fetched", len(fetched), "new emails")
	c.notify("mail_checked", map[string]interface{}{"count": len(fetched)})
	return clones, nil
}

// Classify runs AI analysis for a single email. Only emails still awaiting
// a decision are classified; anything else is left untouched.
func (c *Controller) Classify(ctx context.Context, emailID string) (*model.Email, error) {
	c.mu.Lock()
	email := c.findLocked(emailID)
	if email == nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrEmailNotFound, emailID)
	}
	if email.Status != model.StatusNotProcessed {
		c.mu.Unlock()
		return nil, nil
	}
	email.Status = model.StatusAnalyzing
	snapshot := email.Clone()
	c.mu.Unlock()

	c.notify("email_analyzing", map[string]interface{}{"emailId": emailID})
	analysis, suggested, err := c.classifier.ProcessEmail(ctx, snapshot)

	c.mu.Lock()
	defer c.mu.Unlock()
	email = c.findLocked(emailID)
	if email == nil {
		// Removed while the call was in flight, drop the late result.
		return nil, nil
	}
	if err != nil {
		email.Status = model.StatusError
		email.Error = err.Error()
		if c.metrics != nil {
			c.metrics.RecordClassification(false, 0)
		}
		c.logger.Error("Failed to classify email", emailID+":", err)
		return nil, fmt.Errorf("failed to classify email: %w", err)
	}

	email.Status = model.StatusNotProcessed
	email.Error = ""
	email.SuggestedDepartment = suggested
	email.Confidence = analysis.Confidence
	email.AISummary = analysis.Summary
	email.AIReasoning = analysis.Reasoning
	if c.metrics != nil {
		c.metrics.RecordClassification(true, analysis.Confidence)
	}

	clone := email.Clone()
	c.notify("email_classified", clone)
	return clone, nil
}

// RetryClassification resets a failed email and classifies it again.
func (c *Controller) RetryClassification(ctx context.Context, emailID string) (*model.Email, error) {
	c.mu.Lock()
	email := c.findLocked(emailID)
	if email == nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrEmailNotFound, emailID)
	}
	if email.Status == model.StatusError {
		email.Status = model.StatusNotProcessed
		email.Error = ""
	}
	c.mu.Unlock()

	return c.Classify(ctx, emailID)
}

// Confirm forwards the listed emails to their suggested departments.
// Returns how many were forwarded; a forward failure aborts the remainder
// but already forwarded emails keep their state.
func (c *Controller) Confirm(ctx context.Context, emailIDs []string) (int, error) {
	forwarded := 0
	for _, id := range emailIDs {
		c.mu.Lock()
		email := c.findLocked(id)
		if email == nil || email.Status != model.StatusNotProcessed || email.SuggestedDepartment == "" {
			c.mu.Unlock()
			continue
		}
		snapshot := email.Clone()
		c.mu.Unlock()

		analysis := &model.EmailAnalysis{
			RepartoSuggerito: snapshot.SuggestedDepartment,
			Confidence:       snapshot.Confidence,
			Summary:          snapshot.AISummary,
			Reasoning:        snapshot.AIReasoning,
		}
		if err := c.mail.ForwardEmail(ctx, snapshot, snapshot.SuggestedDepartment, analysis); err != nil {
			c.logger.Error("Failed to forward email", id+":", err)
			return forwarded, fmt.Errorf("failed to forward email: %w", err)
		}

		c.markForwarded(ctx, id, snapshot.SuggestedDepartment, "manual")
		forwarded++
	}

	if forwarded > 0 {
		c.notify("emails_forwarded", map[string]interface{}{"count": forwarded})
	}
	return forwarded, nil
}

// Cancel rejects the suggestion for the listed emails. The AI analysis is
// kept for the processed view.
func (c *Controller) Cancel(emailIDs []string) int {
	now := time.Now()
	cancelled := 0

	c.mu.Lock()
	for _, id := range emailIDs {
		email := c.findLocked(id)
		if email == nil || email.Status != model.StatusNotProcessed {
			continue
		}
		email.Status = model.StatusCancelled
		email.ProcessedAt = &now
		cancelled++
	}
	c.updateQueueGaugeLocked()
	c.mu.Unlock()

	if cancelled > 0 {
		if c.metrics != nil {
			c.metrics.RecordCancelled(cancelled)
		}
		c.notify("emails_cancelled", map[string]interface{}{"count": cancelled})
	}
	return cancelled
}

// Override replaces the suggested department with an operator choice. The
// department must exist in the configured list.
func (c *Controller) Override(emailID, department string) (*model.Email, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.settings.FindDepartment(department); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDepartment, department)
	}
	email := c.findLocked(emailID)
	if email == nil {
		return nil, fmt.Errorf("%w: %s", ErrEmailNotFound, emailID)
	}
	if email.SuggestedDepartment == department {
		return email.Clone(), nil
	}

	email.SuggestedDepartment = department
	clone := email.Clone()
	c.notify("suggestion_overridden", clone)
	return clone, nil
}

// Remove drops an email from the session collection entirely.
func (c *Controller) Remove(emailID string) bool {
	c.mu.Lock()
	index := -1
	for i, email := range c.emails {
		if email.ID == emailID {
			index = i
			break
		}
	}
	if index < 0 {
		c.mu.Unlock()
		return false
	}
	c.emails = append(c.emails[:index], c.emails[index+1:]...)
	c.updateQueueGaugeLocked()
	c.mu.Unlock()

	c.notify("email_removed", map[string]interface{}{"emailId": emailID})
	return true
}

// Emails returns a snapshot of the whole collection, newest first.
func (c *Controller) Emails() []*model.Email {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := make([]*model.Email, len(c.emails))
	for i, email := range c.emails {
		snapshot[i] = email.Clone()
	}
	return snapshot
}

// Settings returns a copy of the current settings.
func (c *Controller) Settings() model.AppSettings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copySettingsLocked()
}

// SaveSettings persists settings to the backend, applies them locally and
// re-arms the automation timer to match.
func (c *Controller) SaveSettings(ctx context.Context, settings model.AppSettings) error {
	seen := map[string]bool{}
	for _, department := range settings.Departments {
		if err := department.Validate(); err != nil {
			return err
		}
		if seen[department.Nome] {
			return fmt.Errorf("duplicate department: %s", department.Nome)
		}
		seen[department.Nome] = true
	}
	if settings.AutomaticRouting.Enabled && settings.AutomaticRouting.CheckInterval <= 0 {
		return fmt.Errorf("automation interval must be positive")
	}

	if err := c.store.SaveSettings(ctx, &settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	c.mu.Lock()
	c.settings = settings
	c.mu.Unlock()

	c.configureAutomation(settings.AutomaticRouting)
	c.syncBackendAutomation(ctx, settings.AutomaticRouting.Enabled)
	c.notify("settings_saved", nil)
	return nil
}

// AddDepartment validates and persists a new department.
func (c *Controller) AddDepartment(ctx context.Context, department model.Department) error {
	if err := department.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	if _, exists := c.settings.FindDepartment(department.Nome); exists {
		c.mu.Unlock()
		return fmt.Errorf("department already exists: %s", department.Nome)
	}
	c.mu.Unlock()

	if err := c.store.AddDepartment(ctx, department); err != nil {
		return fmt.Errorf("failed to add department: %w", err)
	}

	c.mu.Lock()
	c.settings.Departments = append(c.settings.Departments, department)
	c.mu.Unlock()

	c.notify("department_added", department)
	return nil
}

// DeleteDepartment removes a department by name.
func (c *Controller) DeleteDepartment(ctx context.Context, nome string) error {
	c.mu.Lock()
	if _, exists := c.settings.FindDepartment(nome); !exists {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownDepartment, nome)
	}
	c.mu.Unlock()

	if err := c.store.DeleteDepartment(ctx, nome); err != nil {
		return fmt.Errorf("failed to delete department: %w", err)
	}

	c.mu.Lock()
	kept := c.settings.Departments[:0]
	for _, department := range c.settings.Departments {
		if department.Nome != nome {
			kept = append(kept, department)
		}
	}
	c.settings.Departments = kept
	c.mu.Unlock()

	c.notify("department_deleted", map[string]interface{}{"nome": nome})
	return nil
}

// Stats refreshes the historical counters from the backend.
func (c *Controller) Stats(ctx context.Context) (model.HistoricalStats, error) {
	stats, err := c.stats.GetStats(ctx)
	if err != nil {
		return model.HistoricalStats{}, fmt.Errorf("failed to get stats: %w", err)
	}
	c.setStats(stats)
	return *stats, nil
}

// CachedStats returns the last stats seen without hitting the backend.
func (c *Controller) CachedStats() model.HistoricalStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.histStats
}

// markForwarded applies the post-forward state transition and records the
// processed counters.
func (c *Controller) markForwarded(ctx context.Context, emailID, department, mode string) {
	now := time.Now()
	confidence := 0

	c.mu.Lock()
	email := c.findLocked(emailID)
	if email == nil {
		c.mu.Unlock()
		return
	}
	email.Status = model.StatusForwarded
	email.ForwardedToDepartment = department
	email.ProcessedAt = &now
	email.Error = ""
	confidence = email.Confidence
	c.updateQueueGaugeLocked()
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.RecordForwarded(department, mode)
	}
	if stats, err := c.stats.RecordProcessed(ctx, department, confidence); err != nil {
		c.logger.Warn("Failed to record processed email:", err)
	} else {
		c.setStats(stats)
	}
}

func (c *Controller) findLocked(emailID string) *model.Email {
	for _, email := range c.emails {
		if email.ID == emailID {
			return email
		}
	}
	return nil
}

func (c *Controller) updateQueueGaugeLocked() {
	if c.metrics == nil {
		return
	}
	count := 0
	for _, email := range c.emails {
		if email.InToProcess() {
			count++
		}
	}
	c.metrics.SetToProcess(count)
}

func (c *Controller) copySettingsLocked() model.AppSettings {
	settings := c.settings
	settings.Departments = append([]model.Department{}, c.settings.Departments...)
	return settings
}

func (c *Controller) setStats(stats *model.HistoricalStats) {
	c.mu.Lock()
	c.histStats = *stats
	c.mu.Unlock()
}

func (c *Controller) syncBackendAutomation(ctx context.Context, enabled bool) {
	var err error
	if enabled {
		err = c.store.StartAutomation(ctx)
	} else {
		err = c.store.StopAutomation(ctx)
	}
	if err != nil {
		c.logger.Warn("Failed to sync automation state to backend:", err)
	}
}

func (c *Controller) notify(event string, data interface{}) {
	if c.notifier == nil {
		return
	}
	c.notifier.Notify(event, data)
}
