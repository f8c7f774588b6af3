package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"m365-admin-service/internal/config"
	"m365-admin-service/internal/graph"
	"m365-admin-service/internal/handler"
	"m365-admin-service/internal/logstore"
	"m365-admin-service/internal/repository"
	"m365-admin-service/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	// Логгер
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Конфиг
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Warnf(".env not found: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}

	// Клиент Graph API
	client := graph.NewClient(cfg, logger)

	// Репозитории
	userRepo := repository.NewUserRepository(client, cfg, logger)
	groupRepo := repository.NewGroupRepository(client, logger)
	teamRepo := repository.NewTeamRepository(client, logger)

	// Use Cases
	studentUC := usecase.NewStudentService(userRepo, cfg, logger)
	courseUC := usecase.NewCourseService(userRepo, groupRepo, cfg, logger)
	teamUC := usecase.NewTeamService(teamRepo, groupRepo, userRepo, cfg, logger)

	// Хранилище журналов
	store := logstore.NewStore(cfg.LogsDir, cfg.SchoolName, logger)

	// Echo + Handlers
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(handler.LoggingMiddleware(logger))

	runHandler := handler.NewRunHandler(studentUC, courseUC, teamUC, store, cfg, logger)
	logHandler := handler.NewLogHandler(store, teamUC, cfg, logger)
	handler.RegisterRoutes(e, runHandler, logHandler)

	// Запуск сервера
	go func() {
		if err := e.Start(":" + cfg.ServerPort); err != nil {
			logger.Infof("Server stopped: %v", err)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatalf("Shutdown failed: %v", err)
	}

	logger.Info("Server exited")
}
