package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"mail-triage/internal/logger"
	"mail-triage/internal/model"
	"mail-triage/internal/triage"
)

type SettingsHandler struct {
	controller *triage.Controller
	logger     *logger.Logger
}

func NewSettingsHandler(controller *triage.Controller, log *logger.Logger) *SettingsHandler {
	return &SettingsHandler{
		controller: controller,
		logger:     log,
	}
}

func (h *SettingsHandler) GetSettings(c echo.Context) error {
	return c.JSON(http.StatusOK, h.controller.Settings())
}

// SaveSettings persists the full settings document and re-arms automation.
func (h *SettingsHandler) SaveSettings(c echo.Context) error {
	var settings model.AppSettings
	if err := c.Bind(&settings); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if err := h.controller.SaveSettings(c.Request().Context(), settings); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

func (h *SettingsHandler) ListDepartments(c echo.Context) error {
	return c.JSON(http.StatusOK, h.controller.Settings().Departments)
}

func (h *SettingsHandler) AddDepartment(c echo.Context) error {
	var department model.Department
	if err := c.Bind(&department); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if err := h.controller.AddDepartment(c.Request().Context(), department); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, department)
}

func (h *SettingsHandler) DeleteDepartment(c echo.Context) error {
	nome := c.Param("nome")
	if err := h.controller.DeleteDepartment(c.Request().Context(), nome); err != nil {
		if errors.Is(err, triage.ErrUnknownDepartment) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

// Stats returns the all-time counters, refreshed from the backend. Falls
// back to the cached copy when the backend is unreachable.
func (h *SettingsHandler) Stats(c echo.Context) error {
	stats, err := h.controller.Stats(c.Request().Context())
	if err != nil {
		h.logger.Warn("Falling back to cached stats:", err)
		return c.JSON(http.StatusOK, h.controller.CachedStats())
	}
	return c.JSON(http.StatusOK, stats)
}
