package main

import (
	"github.com/spf13/cobra"

	"github.com/tabled-dev/tabled/internal/api"
	"github.com/tabled-dev/tabled/internal/server/endpoints"
)

var (
	serverURL string
	apiKey    string
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Commands that call the running server",
	Long: `API commands call the running tabled server via HTTP.

These commands require a running server (tabled serve).
Use --server to specify a custom server URL and --api-key to
authenticate against gated endpoints.

Examples:
  tabled api health                                     # Check server health
  tabled api process -i "add a region column" -f t.json # Process a table`,
}

// getClient builds the API client at runtime (after flag parsing).
func getClient() *api.Client {
	return api.NewClient(serverURL, apiKey)
}

func init() {
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8080", "Server URL",
	)
	apiCmd.PersistentFlags().StringVar(
		&apiKey, "api-key", "", "API key sent with gated requests",
	)

	for _, ep := range endpoints.All() {
		apiCmd.AddCommand(ep.Command(getClient))
	}

	rootCmd.AddCommand(apiCmd)
}
