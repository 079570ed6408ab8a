package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tabled-dev/tabled/internal/config"
	"github.com/tabled-dev/tabled/internal/server"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the tabled server",
	Long: `Start the tabled HTTP server.

The server provides:
  - /health            - Basic server health check
  - /ready             - Readiness check (includes LLM provider)
  - /status            - Detailed status
  - /api/v1/process    - Table processing (requires API key)

The listen address comes from server.host/server.port in the config file;
--host and --port override it.

Examples:
  tabled serve                    # Start on the configured address (default :8080)
  tabled serve --port 3000        # Start on custom port
  tabled serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		configMgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		configMgr.WatchConfig()

		srv, err := server.New(server.Config{
			Host:          serveHost,
			Port:          servePort,
			ConfigManager: configMgr,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (overrides server.host)")
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (overrides server.port)")

	rootCmd.AddCommand(serveCmd)
}
