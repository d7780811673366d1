package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"promptlab-content-service/internal/infra/postgres/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending mirror schema migrations",
	Long: `Apply pending mirror schema migrations.

Examples:
  contentctl migrate                                # Apply every pending migration
  contentctl migrate --to 001_create_content_items  # Stop at a specific migration`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

var rollbackCmd = &cobra.Command{
	Use:   "rollback",
	Short: "Roll back the last applied migration",
	Args:  cobra.NoArgs,
	RunE:  runRollback,
}

var migrateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known migration IDs in order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		for _, m := range migrations.Migrations() {
			fmt.Fprintln(cmd.OutOrStdout(), m.ID)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(rollbackCmd, migrateListCmd)

	migrateCmd.Flags().String("to", "", "migrate up to and including this migration ID")
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	target, _ := cmd.Flags().GetString("to")

	db, err := openMirror(cmd.Context())
	if err != nil {
		return err
	}
	defer closeMirror(db)

	if target != "" {
		if err := migrations.MigrateTo(db, target); err != nil {
			return fmt.Errorf("migrating to %s: %w", target, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "migrated to %s\n", target)

		return nil
	}

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "migrations up to date")

	return nil
}

func runRollback(cmd *cobra.Command, _ []string) error {
	db, err := openMirror(cmd.Context())
	if err != nil {
		return err
	}
	defer closeMirror(db)

	if err := migrations.Rollback(db); err != nil {
		return fmt.Errorf("rolling back: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "rolled back last migration")

	return nil
}
