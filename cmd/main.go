package main

import (
	"context"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"user-console/internal/coordinator"
	"user-console/internal/handler"
	"user-console/internal/middleware"
	"user-console/internal/store"
	"user-console/pkg/client"
	"user-console/pkg/config"
	"user-console/pkg/logger"
	"user-console/prometheus"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting user console service...", zap.String("environment", cfg.Server.Env))

	// Initialize Prometheus metrics
	prometheus.InitMetrics(cfg)
	log.Info("Prometheus metrics initialized")

	// Wire the record store, remote sync client and view coordinator
	recordStore := store.New(log)
	usersClient := client.NewUsersClient(cfg.UsersAPI.BaseURL, cfg.UsersAPI.Timeout)
	notifier := &coordinator.LogNotifier{Log: log}
	coord := coordinator.New(recordStore, usersClient, notifier, log)

	// One-time initial fetch; a failure leaves the store empty and is
	// reported, with no retry loop.
	if err := coord.Load(context.Background()); err != nil {
		log.Warn("starting with an empty record store", zap.Error(err))
	}

	h := handler.New(coord, usersClient)

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes
	e.GET("/", handler.Hello)
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// View coordinator routes
	view := e.Group("/view")
	view.GET("", h.GetView)
	view.PUT("/search", h.Search)
	view.POST("/add", h.OpenAdd)
	view.POST("/add/submit", h.SubmitAdd)
	view.POST("/edit/:id", h.OpenEdit)
	view.POST("/edit/submit", h.SubmitEdit)
	view.POST("/delete/:id", h.OpenDelete)
	view.POST("/delete/confirm", h.ConfirmDelete)
	view.POST("/close", h.CloseModal)

	// Detail view
	e.GET("/details/:id", h.UserDetails)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
