package commands

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/benvon/simple-todo/internal/config"
	"github.com/benvon/simple-todo/internal/handlers"
	"github.com/spf13/cobra"
)

// NewCheckCmd creates the check command, which probes a running server's extended health endpoint
func NewCheckCmd() *cobra.Command {
	var serverURL string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check a running server and its dependencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			url := strings.TrimRight(serverURL, "/") + "/healthz?mode=extended"
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Checking %s\n", url)

			client := &http.Client{Timeout: timeout}
			resp, err := client.Get(url)
			if err != nil {
				return fmt.Errorf("failed to reach server: %w", err)
			}
			defer func() {
				if err := resp.Body.Close(); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to close response body: %v\n", err)
				}
			}()

			var health handlers.HealthResponse
			if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
				return fmt.Errorf("unexpected health response (status %d): %w", resp.StatusCode, err)
			}

			names := make([]string, 0, len(health.Checks))
			for name := range health.Checks {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(out, "  %-10s %s\n", name, health.Checks[name])
			}

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("server reported %s (status %d)", health.Status, resp.StatusCode)
			}
			fmt.Fprintf(out, "Server is %s\n", health.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", config.BaseURL(), "Base URL of the todo server (defaults to BASE_URL)")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	return cmd
}
