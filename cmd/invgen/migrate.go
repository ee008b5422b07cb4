package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rof/invgen/internal/infrastructure/config"
	"github.com/rof/invgen/internal/infrastructure/db/mongo"
	"github.com/rof/invgen/pkg/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the MongoDB indexes the API relies on",
	Long: `Create the MongoDB indexes the API relies on.

Index creation is idempotent, so the command is safe to run on every deploy.`,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.IsDevelopment(), File: cfg.LogFile})

	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	log.Info().Str("database", cfg.Mongo.Database).Msg("indexes are up to date")
	return nil
}
