package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hangoctan1012/FaceCookTan/pkg/config"
	"github.com/hangoctan1012/FaceCookTan/pkg/db"
	"github.com/hangoctan1012/FaceCookTan/pkg/messaging"
	"github.com/hangoctan1012/FaceCookTan/posts/internal/handlers"
	"github.com/hangoctan1012/FaceCookTan/posts/internal/repositories"
	services "github.com/hangoctan1012/FaceCookTan/posts/internal/service"

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
		Queues:              factory.PostQueues(),
		Prefetch:            cfg.Prefetch,
		CloseReconnectDelay: cfg.CloseReconnectDelay,
		DialRetryDelay:      cfg.DialRetryDelay,
	}, logger)
	defer mqConn.Close()

	// violation checks go to the stats queue; wire the reply consumer
	// before the first connect
	violationRPC := messaging.NewRPCClient(mqConn, messaging.QueueStats, cfg.RPCTimeout, logger)

	if err := mqConn.Connect(); err != nil {
		logger.WithError(err).Warn("RabbitMQ not available yet, reconnecting in background")
	}

	postRepo := repositories.NewPostRepository(database)
	commentRepo := repositories.NewCommentRepository(database)
	engagementRepo := repositories.NewEngagementRepository(database)
	counterRepo := repositories.NewCounterRepository(database)

	cascadeService := services.NewCascadeService(postRepo, commentRepo, engagementRepo, counterRepo, logger)
	violationChecker := services.NewViolationChecker(violationRPC)
	publisher := messaging.NewPublisher(mqConn)

	consumerHandler := handlers.NewConsumerHandler(cascadeService, logger)
	postHandler := handlers.NewPostHandler(postRepo, counterRepo, violationChecker, publisher, logger)
	commentHandler := handlers.NewCommentHandler(postRepo, commentRepo, violationChecker, publisher, logger)

	queueManager := messaging.NewQueueManager(mqConn, logger)
	queueManager.RegisterConsumer("cascade_delete", factory.CascadeDeleteConsumer(), consumerHandler.HandleDeleteCommand)

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

	e.POST("/posts", postHandler.CreatePost)
	e.POST("/comments", commentHandler.CreateComment)

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
