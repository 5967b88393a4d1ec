package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Zachkp/portfolio/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the content database schema",
	Long: `Manage the content database schema.

Migrations are embedded in the binary and applied with golang-migrate.

Example:
  portfolio migrate up
  portfolio migrate down 2
  portfolio migrate status`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply every pending migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbURL, err := databaseURL()
		if err != nil {
			return err
		}
		version, err := db.Up(dbURL)
		if err != nil {
			return err
		}
		fmt.Printf("Migrated to version: %d\n", version)
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Rollback migrations (default 1)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps := 1
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("steps must be a positive number, got %q", args[0])
			}
			steps = n
		}
		dbURL, err := databaseURL()
		if err != nil {
			return err
		}
		fmt.Printf("Rolling back %d migration(s)...\n", steps)
		version, err := db.Down(dbURL, steps)
		if err != nil {
			return err
		}
		fmt.Printf("Rolled back to version: %d\n", version)
		return nil
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current migration version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbURL, err := databaseURL()
		if err != nil {
			return err
		}
		version, dirty, ok, err := db.Status(dbURL)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("No migrations have been applied yet")
			return nil
		}
		fmt.Printf("Current version: %d\n", version)
		if dirty {
			fmt.Println("Warning: Database is in a dirty state")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}

func databaseURL() (string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}
	if err := cfg.ValidateDatabase(); err != nil {
		return "", err
	}
	return cfg.DatabaseURL, nil
}
