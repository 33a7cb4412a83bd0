package router

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"mail-triage/internal/handler"
	"mail-triage/internal/metrics"
)

// New wires all routes onto a configured Echo instance.
func New(emails *handler.EmailHandler, settings *handler.SettingsHandler, automation *handler.AutomationHandler, m *metrics.TriageMetrics) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	api := e.Group("/api")

	api.GET("/emails", emails.ListEmails)
	api.POST("/emails/check", emails.CheckMail)
	api.POST("/emails/process-all", emails.ProcessAll)
	api.GET("/emails/review", emails.ReviewBatch)
	api.POST("/emails/review/confirm", emails.ConfirmReview)
	api.POST("/emails/confirm", emails.Confirm)
	api.POST("/emails/cancel", emails.Cancel)
	api.POST("/emails/:id/classify", emails.Classify)
	api.POST("/emails/:id/retry", emails.Retry)
	api.PUT("/emails/:id/department", emails.Override)
	api.DELETE("/emails/:id", emails.Remove)
	api.GET("/events", emails.Events)

	api.GET("/settings", settings.GetSettings)
	api.POST("/settings", settings.SaveSettings)
	api.GET("/departments", settings.ListDepartments)
	api.POST("/departments", settings.AddDepartment)
	api.DELETE("/departments/:nome", settings.DeleteDepartment)
	api.GET("/stats", settings.Stats)

	api.GET("/automation/status", automation.Status)
	api.POST("/automation/start", automation.Start)
	api.POST("/automation/stop", automation.Stop)

	return e
}
