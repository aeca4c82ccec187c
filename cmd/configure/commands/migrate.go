package commands

import (
	"context"
	"fmt"

	"github.com/benvon/simple-todo/internal/database"
	"github.com/spf13/cobra"
)

// NewMigrateCmd creates the migrate command
func NewMigrateCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, open, func(ctx context.Context, db *database.DB) error {
				applied, err := db.Migrate(ctx)
				if err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
				version, err := db.SchemaVersion(ctx)
				if err != nil {
					return fmt.Errorf("read schema version: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s); schema version %d\n", applied, version)
				return nil
			})
		},
	}
}
