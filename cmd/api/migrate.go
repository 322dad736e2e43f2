package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crowdinfra/crowdinfra-api/internal/config"
	"github.com/crowdinfra/crowdinfra-api/internal/observability"
	"github.com/crowdinfra/crowdinfra-api/internal/persistence"
)

func newMigrateCmd() *cobra.Command {
	var list bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Long:  "Applies the embedded SQL migrations to the database named by POSTGRES_DSN.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				names, err := persistence.MigrationNames()
				if err != nil {
					return err
				}
				for _, name := range names {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}
			return runMigrate(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "print migration names without applying them")
	return cmd
}

func runMigrate(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Postgres.DSN == "" {
		return errors.New("POSTGRES_DSN is required to migrate")
	}
	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pg.Close()

	return persistence.RunMigrations(ctx, pg.PoolHandle(), logger)
}
