package cmd

import (
	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/ytnotes/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing note generation, history and search tools to AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := loggerFromContext(cmd.Context())

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		mcpserver.Version = Version

		docs := 0
		if a.index != nil {
			docs = a.index.Count()
		}
		logger.Info("ytnotes MCP server started on stdio", "provider", cfg.Provider, "indexed", docs)

		return mcpserver.NewServer(a.notes, a.history, a.index).Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
