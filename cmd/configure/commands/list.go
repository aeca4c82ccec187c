package commands

import (
	"context"
	"fmt"

	"github.com/benvon/simple-todo/internal/database"
	"github.com/benvon/simple-todo/internal/models"
	"github.com/spf13/cobra"
)

// NewTodosCmd creates the todos command with list and clear subcommands.
// These act on the store directly and do not publish change events.
func NewTodosCmd(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "todos",
		Short: "Inspect or clear the todo list",
	}
	cmd.AddCommand(newTodosListCmd(open))
	cmd.AddCommand(newTodosClearCmd(open))
	return cmd
}

func newTodosListCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List todos, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, open, func(ctx context.Context, db *database.DB) error {
				todos, err := database.NewTodoRepository(db).List(ctx)
				if err != nil {
					return fmt.Errorf("list todos: %w", err)
				}

				out := cmd.OutOrStdout()
				if len(todos) == 0 {
					fmt.Fprintln(out, "No todos")
					return nil
				}
				for _, t := range todos {
					mark := " "
					if t.Done {
						mark = "x"
					}
					fmt.Fprintf(out, "[%s] %s  %s  (created %s)\n", mark, t.ID, t.Title, t.CreatedAt.UTC().Format(models.TimestampLayout))
				}
				return nil
			})
		},
	}
}

func newTodosClearCmd(open Opener) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every todo",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to delete all todos without --yes")
			}
			return withDB(cmd, open, func(ctx context.Context, db *database.DB) error {
				n, err := database.NewTodoRepository(db).DeleteAll(ctx)
				if err != nil {
					return fmt.Errorf("clear todos: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Successfully deleted %d todos\n", n)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deleting every todo")
	return cmd
}
