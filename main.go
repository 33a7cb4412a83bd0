package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mail-triage/internal/backend"
	"mail-triage/internal/config"
	"mail-triage/internal/handler"
	"mail-triage/internal/logger"
	"mail-triage/internal/metrics"
	"mail-triage/internal/router"
	"mail-triage/internal/sse"
	"mail-triage/internal/triage"
)

func main() {
	log := logger.New()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Error("Failed to load config:", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("Invalid config:", err)
		os.Exit(1)
	}

	client := backend.NewClient(cfg.BackendURL, time.Duration(cfg.RequestTimeoutS)*time.Second, log)
	triageMetrics := metrics.New()
	hub := sse.NewHub(log)

	controller := triage.NewController(
		client, client, client, client,
		hub,
		triageMetrics,
		log,
		time.Duration(cfg.BatchDelayMS)*time.Millisecond,
	)

	startupCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := controller.LoadSettings(startupCtx); err != nil {
		// The backend may come up later; defaults keep the dashboard usable.
		log.Warn("Starting with default settings:", err)
	}
	cancel()

	emailHandler := handler.NewEmailHandler(controller, hub, log)
	settingsHandler := handler.NewSettingsHandler(controller, log)
	automationHandler := handler.NewAutomationHandler(controller, log)

	e := router.New(emailHandler, settingsHandler, automationHandler, triageMetrics)

	go func() {
		log.Info("Starting triage server on port", cfg.Port)
		if err := e.Start(":" + cfg.Port); err != nil {
			log.Info("Server stopped:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	controller.Shutdown()
	hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to shut down server:", err)
	}
}
