package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hangoctan1012/FaceCookTan/notify/internal/handlers"
	"github.com/hangoctan1012/FaceCookTan/notify/internal/repositories"
	services "github.com/hangoctan1012/FaceCookTan/notify/internal/service"
	"github.com/hangoctan1012/FaceCookTan/pkg/config"
	"github.com/hangoctan1012/FaceCookTan/pkg/db"
	"github.com/hangoctan1012/FaceCookTan/pkg/messaging"
	"github.com/hangoctan1012/FaceCookTan/pkg/ws"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
	})
	logger.SetOutput(os.Stdout)
	logger.SetLevel(logrus.InfoLevel)

	cfg := config.Load()

	logger.Info("Connecting to database...")
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(database, cfg.MigrationsDir); err != nil {
			logger.Fatalf("Failed to run migrations: %v", err)
		}
	}

	factory := messaging.NewFactory(cfg.Prefetch, cfg.RetryLimit)

	mqConn := messaging.NewConnection(messaging.ConnectionConfig{
		URL:                 cfg.RabbitMQURL,
		Queues:              factory.NotifyQueues(),
		Prefetch:            cfg.Prefetch,
		CloseReconnectDelay: cfg.CloseReconnectDelay,
		DialRetryDelay:      cfg.DialRetryDelay,
	}, logger)
	defer mqConn.Close()

	// Reply consumer for the followers RPC must be wired before Connect so
	// it is (re)registered on every successful connect.
	followersRPC := messaging.NewRPCClient(mqConn, messaging.QueueUserFollowers, cfg.RPCTimeout, logger)

	if err := mqConn.Connect(); err != nil {
		logger.WithError(err).Warn("RabbitMQ not available yet, reconnecting in background")
	}

	hub := ws.NewHub(logger)

	notifyRepo := repositories.NewNotificationRepository(database)
	notifyService := services.NewNotifyService(
		notifyRepo,
		services.NewFollowerClient(followersRPC),
		hub,
		logger,
	)

	consumerHandler := handlers.NewConsumerHandler(notifyService, logger)

	queueManager := messaging.NewQueueManager(mqConn, logger)
	queueManager.RegisterConsumer("notifications", factory.NotificationConsumer(), consumerHandler.HandleNotificationEvent)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	queueManager.StartAllConsumers(ctx)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
	}))

	notifyHandler := handlers.NewNotificationHandler(notifyRepo)
	e.GET("/notifications", notifyHandler.ListNotifications)
	e.GET("/notifications/unread", notifyHandler.UnreadCount)
	e.PUT("/notifications/:id/read", notifyHandler.MarkRead)

	e.GET("/ws", echo.WrapHandler(hub))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	go func() {
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start HTTP server:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error:", err)
	}

	cancel()
	queueManager.StopAllConsumers()

	logger.Info("Server stopped gracefully")
}
