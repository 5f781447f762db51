package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jabatayo/task-management-api/internal/config"
	"github.com/jabatayo/task-management-api/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed roles, demo users and demo tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := zap.NewProduction()
		if err != nil {
			return err
		}
		defer logger.Sync()

		cfg := config.Load()
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()

		return seed.Run(context.Background(), pool, logger)
	},
}
