package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"mail-triage/internal/logger"
	"mail-triage/internal/triage"
)

type AutomationHandler struct {
	controller *triage.Controller
	logger     *logger.Logger
}

func NewAutomationHandler(controller *triage.Controller, log *logger.Logger) *AutomationHandler {
	return &AutomationHandler{
		controller: controller,
		logger:     log,
	}
}

func (h *AutomationHandler) Status(c echo.Context) error {
	settings := h.controller.Settings()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"running":       h.controller.AutomationRunning(),
		"enabled":       settings.AutomaticRouting.Enabled,
		"checkInterval": settings.AutomaticRouting.CheckInterval,
	})
}

// Start enables automatic routing. The toggle is saved through the normal
// settings flow so it survives a restart.
func (h *AutomationHandler) Start(c echo.Context) error {
	settings := h.controller.Settings()
	settings.AutomaticRouting.Enabled = true

	if err := h.controller.SaveSettings(c.Request().Context(), settings); err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]bool{"running": true})
}

// Stop disables automatic routing.
func (h *AutomationHandler) Stop(c echo.Context) error {
	settings := h.controller.Settings()
	settings.AutomaticRouting.Enabled = false

	if err := h.controller.SaveSettings(c.Request().Context(), settings); err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]bool{"running": false})
}
