package commands

import (
	"context"
	"fmt"

	"github.com/benvon/simple-todo/internal/config"
	"github.com/benvon/simple-todo/internal/database"
	"github.com/spf13/cobra"
)

// Opener connects to the database the commands operate on
type Opener func(ctx context.Context) (*database.DB, error)

// OpenFromEnv connects using DATABASE_URL
func OpenFromEnv(context.Context) (*database.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}

// NewRootCmd assembles the configure CLI
func NewRootCmd(open Opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "simple-todo-configure",
		Short:         "Administration tool for the Simple Todo API",
		Long:          "CLI tool for schema migrations, todo maintenance, CORS and rate limit settings",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(NewMigrateCmd(open))
	root.AddCommand(NewTodosCmd(open))
	root.AddCommand(NewCorsCmd(open))
	root.AddCommand(NewRatelimitCmd(open))
	root.AddCommand(NewCheckCmd())
	return root
}

// withDB opens the database for the duration of fn
func withDB(cmd *cobra.Command, open Opener, fn func(ctx context.Context, db *database.DB) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	db, err := open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to close database: %v\n", err)
		}
	}()
	return fn(ctx, db)
}
