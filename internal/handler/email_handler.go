package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"mail-triage/internal/logger"
	"mail-triage/internal/sse"
	"mail-triage/internal/triage"
)

type EmailHandler struct {
	controller *triage.Controller
	hub        *sse.Hub
	logger     *logger.Logger
}

func NewEmailHandler(controller *triage.Controller, hub *sse.Hub, log *logger.Logger) *EmailHandler {
	return &EmailHandler{
		controller: controller,
		hub:        hub,
		logger:     log,
	}
}

// ListEmails returns the session collection, optionally narrowed to one
// partition and filtered by the query parameters.
func (h *EmailHandler) ListEmails(c echo.Context) error {
	emails := h.controller.Emails()

	switch c.QueryParam("view") {
	case "to_process":
		emails = triage.PartitionToProcess(emails)
	case "processed":
		emails = triage.PartitionProcessed(emails)
	}

	filter := triage.ListFilter{
		Search:     c.QueryParam("search"),
		Department: c.QueryParam("department"),
		Sender:     c.QueryParam("sender"),
		SortBy:     c.QueryParam("sort"),
	}
	emails = filter.Apply(emails)

	return c.JSON(http.StatusOK, emails)
}

// CheckMail fetches new emails from the backend.
func (h *EmailHandler) CheckMail(c echo.Context) error {
	emails, err := h.controller.CheckMail(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"emails": emails,
		"count":  len(emails),
	})
}

// Classify runs AI analysis for one email.
func (h *EmailHandler) Classify(c echo.Context) error {
	email, err := h.controller.Classify(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, triage.ErrEmailNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}
	if email == nil {
		// Not in a classifiable state, nothing changed.
		return c.JSON(http.StatusOK, map[string]bool{"skipped": true})
	}
	return c.JSON(http.StatusOK, email)
}

// Retry re-runs classification for an email that previously failed.
func (h *EmailHandler) Retry(c echo.Context) error {
	email, err := h.controller.RetryClassification(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, triage.ErrEmailNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}
	if email == nil {
		return c.JSON(http.StatusOK, map[string]bool{"skipped": true})
	}
	return c.JSON(http.StatusOK, email)
}

// ProcessAll classifies every pending email and returns the review rows.
func (h *EmailHandler) ProcessAll(c echo.Context) error {
	review, err := h.controller.ProcessAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"review": review,
		"count":  len(review),
	})
}

// ReviewBatch returns the rows from the last batch awaiting confirmation.
func (h *EmailHandler) ReviewBatch(c echo.Context) error {
	return c.JSON(http.StatusOK, h.controller.ReviewBatch())
}

// ConfirmReview applies the operator decisions for the open batch.
func (h *EmailHandler) ConfirmReview(c echo.Context) error {
	var request struct {
		Decisions []triage.ReviewDecision `json:"decisions"`
	}
	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	forwarded, err := h.controller.ConfirmReview(c.Request().Context(), request.Decisions)
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]interface{}{
			"error":     err.Error(),
			"forwarded": forwarded,
		})
	}
	return c.JSON(http.StatusOK, map[string]int{"forwarded": forwarded})
}

// Confirm forwards the listed emails to their suggested departments.
func (h *EmailHandler) Confirm(c echo.Context) error {
	var request struct {
		EmailIDs []string `json:"emailIds"`
	}
	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if len(request.EmailIDs) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "emailIds is required"})
	}

	forwarded, err := h.controller.Confirm(c.Request().Context(), request.EmailIDs)
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]interface{}{
			"error":     err.Error(),
			"forwarded": forwarded,
		})
	}
	return c.JSON(http.StatusOK, map[string]int{"forwarded": forwarded})
}

// Cancel rejects the suggestion for the listed emails.
func (h *EmailHandler) Cancel(c echo.Context) error {
	var request struct {
		EmailIDs []string `json:"emailIds"`
	}
	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if len(request.EmailIDs) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "emailIds is required"})
	}

	cancelled := h.controller.Cancel(request.EmailIDs)
	return c.JSON(http.StatusOK, map[string]int{"cancelled": cancelled})
}

// Override replaces the suggested department for one email.
func (h *EmailHandler) Override(c echo.Context) error {
	var request struct {
		Department string `json:"department"`
	}
	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if request.Department == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "department is required"})
	}

	email, err := h.controller.Override(c.Param("id"), request.Department)
	if err != nil {
		if errors.Is(err, triage.ErrEmailNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, email)
}

// Remove drops an email from the session collection.
func (h *EmailHandler) Remove(c echo.Context) error {
	if !h.controller.Remove(c.Param("id")) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "email not found"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Events streams triage events to the client over SSE.
func (h *EmailHandler) Events(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().Header().Set("Connection", "keep-alive")
	c.Response().WriteHeader(http.StatusOK)

	channel := h.hub.AddClient()
	defer h.hub.RemoveClient(channel)

	for {
		select {
		case message, ok := <-channel:
			if !ok {
				return nil
			}
			fmt.Fprintf(c.Response(), "data: %s\n\n", message)
			c.Response().Flush()
		case <-c.Request().Context().Done():
			return nil
		}
	}
}
