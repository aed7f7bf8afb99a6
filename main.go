package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func main() {
	// Logging goes to stderr so stdout stays clean for the stdio transport.
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "tempoai",
	})

	var (
		transport string
		addr      string
	)

	serve := func(cmd *cobra.Command, args []string) error {
		cfg := LoadConfig()
		client := NewTempoClient(cfg)
		handlers := newToolHandlers(client, logger)

		logger.Info("starting Tempo AI MCP server", "version", Version, "base_url", cfg.BaseURL)
		if cfg.APIKey == "" {
			logger.Warn("API_KEY is not set; tool calls will fail unless api_key is passed per call")
		}

		return runServer(newMCPServer(handlers), transport, addr, logger)
	}

	rootCmd := &cobra.Command{
		Use:           "tempoai-mcp-server",
		Short:         "Connect AI assistants with your Tempo AI fitness data",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server (default command)",
		RunE:  serve,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the server version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("tempoai-mcp-server " + Version)
		},
	}

	for _, c := range []*cobra.Command{rootCmd, serveCmd} {
		c.Flags().StringVar(&transport, "transport", transportStdio, "Transport to serve on: stdio, sse, http, or streamable-http")
		c.Flags().StringVar(&addr, "addr", ":8080", "Listen address for the sse and http transports")
	}

	rootCmd.AddCommand(serveCmd, newInstallCmd(logger), versionCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Fatal("server error", "error", err)
	}
}
