package triage

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"mail-triage/internal/model"
)

// geographicRotation is the fixed set of regional desks automatic routing
// distributes over.
var geographicRotation = []string{"Nord", "Centro", "Sud"}

// configureAutomation arms or disarms the routing timer to match the
// current settings. Any previous timer is cancelled first so an interval
// change takes effect immediately.
func (c *Controller) configureAutomation(cfg model.AutomationConfig) {
	c.autoMu.Lock()
	defer c.autoMu.Unlock()

	if c.autoCancel != nil {
		c.autoCancel()
		c.autoCancel = nil
	}
	if !cfg.Enabled || cfg.CheckInterval <= 0 {
		c.logger.Info("Automatic routing disabled")
		return
	}

	interval := c.autoInterval(cfg.CheckInterval)
	ctx, cancel := context.WithCancel(context.Background())
	c.autoCancel = cancel
	go c.runAutomation(ctx, interval)
	c.logger.Info("Automatic routing enabled, interval:", interval.String())
}

func (c *Controller) autoInterval(minutes int) time.Duration {
	if c.intervalFor != nil {
		return c.intervalFor(minutes)
	}
	return time.Duration(minutes) * time.Minute
}

func (c *Controller) runAutomation(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.AutoRouteTick(ctx); err != nil {
				c.logger.Error("Automatic routing tick failed:", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// AutoRouteTick forwards the first pending email in list order to a
// randomly chosen regional desk without operator confirmation. A tick
// with an empty queue does nothing.
func (c *Controller) AutoRouteTick(ctx context.Context) error {
	if c.metrics != nil {
		c.metrics.RecordAutomationTick()
	}

	c.mu.Lock()
	var target *model.Email
	for _, email := range c.emails {
		if email.Status == model.StatusNotProcessed {
			target = email
			break
		}
	}
	if target == nil {
		c.mu.Unlock()
		return nil
	}
	snapshot := target.Clone()
	notifyEnabled := c.settings.NotificationsEnabled
	c.mu.Unlock()

	department := geographicRotation[rand.Intn(len(geographicRotation))]
	reasoning := fmt.Sprintf("Automatically routed to the %s regional desk by geographic rotation.", department)
	analysis := &model.EmailAnalysis{
		RepartoSuggerito: department,
		Confidence:       snapshot.Confidence,
		Summary:          snapshot.AISummary,
		Reasoning:        reasoning,
	}
	if err := c.mail.ForwardEmail(ctx, snapshot, department, analysis); err != nil {
		return fmt.Errorf("failed to auto-route email: %w", err)
	}

	c.mu.Lock()
	if email := c.findLocked(snapshot.ID); email != nil {
		email.SuggestedDepartment = department
		email.AIReasoning = reasoning
	}
	c.mu.Unlock()
	c.markForwarded(ctx, snapshot.ID, department, "auto")

	c.logger.Info("Auto-routed email", snapshot.ID, "to", department)
	if notifyEnabled {
		c.notify("auto_routed", map[string]interface{}{
			"emailId":    snapshot.ID,
			"department": department,
		})
	}
	return nil
}

// AutomationRunning reports whether the routing timer is armed.
func (c *Controller) AutomationRunning() bool {
	c.autoMu.Lock()
	defer c.autoMu.Unlock()
	return c.autoCancel != nil
}

// Shutdown disarms the automation timer. Safe to call more than once.
func (c *Controller) Shutdown() {
	c.autoMu.Lock()
	defer c.autoMu.Unlock()
	if c.autoCancel != nil {
		c.autoCancel()
		c.autoCancel = nil
	}
	c.logger.Info("Triage controller shut down")
}
