package triage

import (
	"context"
	"fmt"
	"time"

	"mail-triage/internal/model"
)

// ReviewItem is one row of the batch review table.
type ReviewItem struct {
	EmailID             string `json:"emailId"`
	Sender              string `json:"sender"`
	Subject             string `json:"subject"`
	SuggestedDepartment string `json:"suggestedDepartment"`
	Confidence          int    `json:"confidence"`
	Summary             string `json:"summary"`
}

// ReviewDecision is the operator verdict for one review row.
type ReviewDecision struct {
	EmailID    string `json:"emailId"`
	Department string `json:"department,omitempty"`
	Include    bool   `json:"include"`
}

// ProcessAll classifies every email awaiting a decision, serially with a
// delay between calls, and returns the review rows. The queue is
// snapshotted up front so emails fetched mid-batch are not picked up.
// A failed classification skips the email without aborting the batch.
func (c *Controller) ProcessAll(ctx context.Context) ([]ReviewItem, error) {
	c.mu.Lock()
	queue := make([]string, 0, len(c.emails))
	for _, email := range c.emails {
		if email.Status == model.StatusNotProcessed {
			queue = append(queue, email.ID)
		}
	}
	c.mu.Unlock()

	if len(queue) == 0 {
		return []ReviewItem{}, nil
	}
	c.logger.Info("Batch processing", len(queue), "emails")

	review := make([]ReviewItem, 0, len(queue))
	for i, id := range queue {
		if i > 0 && c.batchDelay > 0 {
			// Throttle so the analysis backend is not hammered.
			select {
			case <-time.After(c.batchDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		c.mu.Lock()
		email := c.findLocked(id)
		if email == nil || email.Status != model.StatusNotProcessed {
			c.mu.Unlock()
			continue
		}
		snapshot := email.Clone()
		c.mu.Unlock()

		analysis, suggested, err := c.classifier.ProcessEmail(ctx, snapshot)
		if err != nil {
			// Skip and leave the email untouched for a later attempt.
			c.logger.Error("Failed to classify email", id, "in batch:", err)
			if c.metrics != nil {
				c.metrics.RecordClassification(false, 0)
			}
			continue
		}

		now := time.Now()
		c.mu.Lock()
		email = c.findLocked(id)
		if email == nil {
			c.mu.Unlock()
			continue
		}
		email.ProcessedAt = &now
		email.SuggestedDepartment = suggested
		email.Confidence = analysis.Confidence
		email.AISummary = analysis.Summary
		email.AIReasoning = analysis.Reasoning
		review = append(review, ReviewItem{
			EmailID:             email.ID,
			Sender:              email.Sender,
			Subject:             email.Subject,
			SuggestedDepartment: suggested,
			Confidence:          analysis.Confidence,
			Summary:             analysis.Summary,
		})
		c.mu.Unlock()

		if c.metrics != nil {
			c.metrics.RecordClassification(true, analysis.Confidence)
		}
	}

	c.mu.Lock()
	c.review = review
	c.mu.Unlock()

	if len(review) > 0 {
		c.notify("batch_ready", map[string]interface{}{"count": len(review)})
	}
	return review, nil
}

// ReviewBatch returns the rows from the last ProcessAll awaiting
// confirmation.
func (c *Controller) ReviewBatch() []ReviewItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]ReviewItem{}, c.review...)
}

// ConfirmReview applies the operator decisions for a batch. Included
// emails are forwarded, excluded ones have their suggestion cleared so
// they re-enter triage fresh. A forward failure aborts and keeps the
// batch open.
func (c *Controller) ConfirmReview(ctx context.Context, decisions []ReviewDecision) (int, error) {
	forwarded := 0
	for _, decision := range decisions {
		if !decision.Include {
			c.mu.Lock()
			if email := c.findLocked(decision.EmailID); email != nil && email.Status == model.StatusNotProcessed {
				email.SuggestedDepartment = ""
				email.Confidence = 0
			}
			c.mu.Unlock()
			continue
		}

		c.mu.Lock()
		email := c.findLocked(decision.EmailID)
		if email == nil || email.Status != model.StatusNotProcessed {
			c.mu.Unlock()
			continue
		}
		department := decision.Department
		if department == "" {
			department = email.SuggestedDepartment
		} else if _, ok := c.settings.FindDepartment(department); !ok {
			// Edited targets are validated like Override; the batch
			// stays open.
			c.mu.Unlock()
			return forwarded, fmt.Errorf("%w: %s", ErrUnknownDepartment, department)
		}
		snapshot := email.Clone()
		c.mu.Unlock()

		if department == "" {
			continue
		}
		analysis := &model.EmailAnalysis{
			RepartoSuggerito: snapshot.SuggestedDepartment,
			Confidence:       snapshot.Confidence,
			Summary:          snapshot.AISummary,
			Reasoning:        snapshot.AIReasoning,
		}
		if err := c.mail.ForwardEmail(ctx, snapshot, department, analysis); err != nil {
			c.logger.Error("Failed to forward email", decision.EmailID, "from batch:", err)
			return forwarded, fmt.Errorf("failed to forward email: %w", err)
		}

		c.markForwarded(ctx, decision.EmailID, department, "batch")
		forwarded++
	}

	c.mu.Lock()
	c.review = nil
	c.mu.Unlock()

	c.notify("batch_confirmed", map[string]interface{}{"forwarded": forwarded})
	return forwarded, nil
}
