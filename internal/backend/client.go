// Package backend implements the REST client for the external service that
// owns mailbox access, AI inference, SMTP forwarding and settings/stats
// persistence. Everything here is a thin JSON-over-HTTP wrapper; no real
// work happens in this process.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mail-triage/internal/logger"
	"mail-triage/internal/model"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *logger.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type ackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// doJSON performs one request against the backend. Non-2xx responses are
// turned into a single human-readable error built from the backend's
// {"error": ...} body, falling back to the HTTP status.
func (c *Client) doJSON(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("backend request failed: %s", apiErr.Error)
		}
		return fmt.Errorf("backend request failed with status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// GetSettings loads the full application settings from the backend.
func (c *Client) GetSettings(ctx context.Context) (*model.AppSettings, error) {
	var settings model.AppSettings
	if err := c.doJSON(ctx, http.MethodGet, "/settings", nil, &settings); err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &settings, nil
}

// SaveSettings persists the full application settings.
func (c *Client) SaveSettings(ctx context.Context, settings *model.AppSettings) error {
	var ack ackResponse
	if err := c.doJSON(ctx, http.MethodPost, "/settings", settings, &ack); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	if !ack.Success {
		return fmt.Errorf("failed to save settings: %s", ack.Message)
	}
	return nil
}

// GetDepartments lists the configured routing targets.
func (c *Client) GetDepartments(ctx context.Context) ([]model.Department, error) {
	var departments []model.Department
	if err := c.doJSON(ctx, http.MethodGet, "/departments", nil, &departments); err != nil {
		return nil, fmt.Errorf("failed to get departments: %w", err)
	}
	return departments, nil
}

// AddDepartment registers a new routing target.
func (c *Client) AddDepartment(ctx context.Context, department model.Department) error {
	var ack ackResponse
	if err := c.doJSON(ctx, http.MethodPost, "/departments", department, &ack); err != nil {
		return fmt.Errorf("failed to add department: %w", err)
	}
	return nil
}

// DeleteDepartment removes a routing target by name.
func (c *Client) DeleteDepartment(ctx context.Context, nome string) error {
	path := "/departments/" + url.PathEscape(nome)
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("failed to delete department: %w", err)
	}
	return nil
}

// AutomationStatus reports whether the backend-side automation loop runs and
// at which interval (minutes).
func (c *Client) AutomationStatus(ctx context.Context) (bool, int, error) {
	var status struct {
		Enabled       bool `json:"enabled"`
		CheckInterval int  `json:"checkInterval"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/automation/status", nil, &status); err != nil {
		return false, 0, fmt.Errorf("failed to get automation status: %w", err)
	}
	return status.Enabled, status.CheckInterval, nil
}

// StartAutomation enables the backend-side automation loop.
func (c *Client) StartAutomation(ctx context.Context) error {
	if err := c.doJSON(ctx, http.MethodPost, "/automation/start", nil, nil); err != nil {
		return fmt.Errorf("failed to start automation: %w", err)
	}
	return nil
}

// StopAutomation disables the backend-side automation loop.
func (c *Client) StopAutomation(ctx context.Context) error {
	if err := c.doJSON(ctx, http.MethodPost, "/automation/stop", nil, nil); err != nil {
		return fmt.Errorf("failed to stop automation: %w", err)
	}
	return nil
}

// Health checks backend liveness.
func (c *Client) Health(ctx context.Context) error {
	var health struct {
		Status    string `json:"status"`
		Timestamp string `json:"timestamp"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, &health); err != nil {
		return fmt.Errorf("backend health check failed: %w", err)
	}
	return nil
}
