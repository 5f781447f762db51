package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jabatayo/task-management-api/internal/auth"
	"github.com/jabatayo/task-management-api/internal/config"
	"github.com/jabatayo/task-management-api/internal/handler"
	"github.com/jabatayo/task-management-api/internal/repo"
	"github.com/jabatayo/task-management-api/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Подключаем логгер
		logger, err := zap.NewProduction()
		if err != nil {
			return err
		}
		defer logger.Sync()

		cfg := config.Load()

		// Подключаем БД
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("Failed to connect to Database.", zap.Error(err))
		}
		defer pool.Close()

		if err := pool.Ping(context.Background()); err != nil {
			logger.Fatal("Failed to ping the Database.", zap.Error(err))
		}
		logger.Info("Successfully connected to the Database!")

		taskRepo := repo.NewTaskRepo(pool)
		userRepo := repo.NewUserRepo(pool)
		contactRepo := repo.NewContactRepo(pool)

		tokens := auth.NewJWTManager(cfg.JWTSecret)
		passwords := auth.NewPasswordManager()

		h := handler.Handlers{
			Auth:      handler.NewAuthHandler(service.NewAuthService(userRepo, tokens, passwords), logger),
			Tasks:     handler.NewTaskHandler(service.NewTaskService(taskRepo), logger),
			Dashboard: handler.NewDashboardHandler(service.NewDashboardService(taskRepo), logger),
			Users:     handler.NewUserHandler(service.NewUserService(userRepo), logger),
			Contact:   handler.NewContactHandler(service.NewContactService(contactRepo), logger),
		}
		authn := handler.NewAuthenticator(tokens, userRepo, logger)

		srv := http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      handler.NewRouter(h, authn),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		}

		go func() {
			logger.Info("Server started", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Fatal("Server failed: ", zap.Error(err))
			}
		}()

		// Graceful shutdown
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
		<-quit

		logger.Info("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Fatal("Shutdown error: ", zap.Error(err))
		}
		logger.Info("Server stopped succsessfully!")
		return nil
	},
}
