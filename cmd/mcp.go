package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blogseo/blogseo/internal/history"
	"github.com/blogseo/blogseo/internal/optimizer"
	mcpserver "github.com/blogseo/blogseo/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing the optimizer and its history as tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		offline, _ := cmd.Flags().GetBool("offline")

		var hist *history.Store
		database, err := openDB(cfg)
		if err != nil {
			// History is optional for agents.
			fmt.Fprintf(os.Stderr, "Warning: %v\nRuns will not be recorded.\n", err)
		} else {
			defer database.Close()
			hist = history.NewStore(database)
		}

		// A nil *history.Store must not reach the service as a non-nil Recorder.
		var recorder optimizer.Recorder
		if hist != nil {
			recorder = hist
		}
		svc := buildService(cfg, recorder, offline)

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "blogseo MCP server started on stdio\n")

		return mcpserver.NewServer(svc, hist).Serve()
	},
}

func init() {
	mcpCmd.Flags().Bool("offline", false, "skip the remote API and use local heuristics only")
	rootCmd.AddCommand(mcpCmd)
}
