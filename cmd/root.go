package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/blogseo/blogseo/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "blogseo",
	Short: "SEO optimizer for blog post HTML",
	Long: `blogseo improves the on-page SEO of blog post HTML for a focus keyword.
It asks the hosted optimizer first and falls back to local heuristics when
the API is unreachable, so every request yields a result. It also serves the
landing page with a live demo and exposes the optimizer to AI agents via MCP.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A .env file is optional; real environment variables win.
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		}
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultFileName, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
