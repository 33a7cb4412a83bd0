package backend

import (
	"context"
	"fmt"
	"net/http"

	"mail-triage/internal/model"
)

// GetStats reads the all-time counters.
func (c *Client) GetStats(ctx context.Context) (*model.HistoricalStats, error) {
	var stats model.HistoricalStats
	if err := c.doJSON(ctx, http.MethodGet, "/stats", nil, &stats); err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	return &stats, nil
}

// RecordProcessed increments the processed counters for a department after a
// successful forward and returns the updated stats.
func (c *Client) RecordProcessed(ctx context.Context, department string, confidence int) (*model.HistoricalStats, error) {
	request := map[string]interface{}{
		"department": department,
		"confidence": confidence,
	}
	var stats model.HistoricalStats
	if err := c.doJSON(ctx, http.MethodPost, "/stats/processed", request, &stats); err != nil {
		return nil, fmt.Errorf("failed to record processed email: %w", err)
	}
	return &stats, nil
}

// RecordReceived adds newly fetched emails to the received counter and
// returns the updated stats.
func (c *Client) RecordReceived(ctx context.Context, count int) (*model.HistoricalStats, error) {
	request := map[string]interface{}{"count": count}
	var stats model.HistoricalStats
	if err := c.doJSON(ctx, http.MethodPost, "/stats/received", request, &stats); err != nil {
		return nil, fmt.Errorf("failed to record received count: %w", err)
	}
	return &stats, nil
}
