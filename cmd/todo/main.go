package main

import (
	"fmt"
	"os"

	"github.com/benvon/simple-todo/internal/client"
	"github.com/benvon/simple-todo/internal/logger"
	"github.com/benvon/simple-todo/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	var debug bool

	root := &cobra.Command{
		Use:   "simple-todo",
		Short: "Terminal client for the Simple Todo API",
		Long: "Interactive todo list backed by a Simple Todo server.\n\n" +
			"Settings come from flags, TODO_SERVER_URL / TODO_THEME / TODO_LOG_FILE, " +
			"or the YAML file given by --config.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := tui.LoadConfig(configPath, cmd.Flags())
			if err != nil {
				return err
			}
			theme, err := tui.ThemeByName(cfg.Theme)
			if err != nil {
				return err
			}

			log, err := logger.NewFileLogger(cfg.LogFile, debug)
			if err != nil {
				return fmt.Errorf("failed to open log file %s: %w", cfg.LogFile, err)
			}
			defer func() { _ = logger.Sync(log) }()

			api := client.New(cfg.ServerURL)
			log.Info("client_starting",
				zap.String("server_url", api.BaseURL()),
				zap.String("theme", theme.Name),
			)

			if _, err := tea.NewProgram(tui.New(api, theme, log), tea.WithAltScreen()).Run(); err != nil {
				log.Error("client_exited_with_error", zap.Error(err))
				return err
			}
			log.Info("client_stopped")
			return nil
		},
	}

	root.Flags().StringVar(&configPath, "config", tui.DefaultConfigPath(), "Path to the YAML config file")
	root.Flags().String("server", client.DefaultBaseURL, "Base URL of the todo server")
	root.Flags().String("theme", tui.DefaultThemeName, "List theme (classic, mono, neon)")
	root.Flags().String("log-file", tui.DefaultLogPath(), "File the client logs to")
	root.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")

	root.AddCommand(newThemesCmd())
	return root
}

func newThemesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List the available themes",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range tui.ThemeNames() {
				theme, err := tui.ThemeByName(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", name, theme.EmptyText)
			}
			return nil
		},
	}
}
