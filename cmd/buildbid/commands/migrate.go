package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/buildbid/backend/pkg/database"
	"github.com/wonny/buildbid/backend/pkg/logger"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "DB 마이그레이션 적용",
	Long: `Applies every embedded migration (pkg/database/migrations/*.sql) that is
not yet recorded in schema_migrations. Safe to run from several processes at
once; a Postgres advisory lock serializes them.

Example:
  go run ./cmd/buildbid migrate
  go run ./cmd/buildbid migrate --list`,
	RunE: runMigrate,
}

var migrateList bool

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().BoolVar(&migrateList, "list", false, "list embedded migrations and exit")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	if migrateList {
		names, err := database.MigrationNames()
		if err != nil {
			return err
		}
		PrintNumberedList(names)
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	ran, err := database.Migrate(cmd.Context(), db.Pool, log)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	reportMigrations(ran)
	return nil
}

func applyMigrations(ctx context.Context, a *app, log *logger.Logger) error {
	ran, err := database.Migrate(ctx, a.db.Pool, log)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	reportMigrations(ran)
	return nil
}

func reportMigrations(ran []string) {
	if len(ran) == 0 {
		PrintInfo("Schema is up to date")
		return
	}
	PrintSuccess(fmt.Sprintf("Applied %d migration(s)", len(ran)))
	PrintList(ran)
}
