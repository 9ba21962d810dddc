package cmd

import (
	"errors"
	"fmt"

	"harsi-trading-bot/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"
)

var migrationsPath string

func migrationDSN(db config.Database) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		db.User, db.Password, db.Host, db.Port, db.DBName, db.SSLMode)
}

// runMigration applies fn against the configured database. migrate.ErrNoChange
// is treated as success so re-running an up-to-date schema stays quiet.
func runMigration(cmd *cobra.Command, fn func(*migrate.Migrate) error, done string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	m, err := migrate.New("file://"+migrationsPath, migrationDSN(cfg.DB))
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			cmd.PrintErrf("migration source close: %v\n", srcErr)
		}
		if dbErr != nil {
			cmd.PrintErrf("migration database close: %v\n", dbErr)
		}
	}()

	if err := fn(m); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			cmd.Println("Schema already up to date.")
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}
	cmd.Println(done)
	return nil
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigration(cmd, (*migrate.Migrate).Up, "Applied migrations successfully.")
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert the last database migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigration(cmd, func(m *migrate.Migrate) error { return m.Steps(-1) }, "Reverted last migration successfully.")
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

func init() {
	migrateCmd.PersistentFlags().StringVar(&migrationsPath, "path", "migrations", "directory holding the migration files")
	migrateCmd.AddCommand(upCmd)
	migrateCmd.AddCommand(downCmd)
}
