package cmd

import (
	"github.com/spf13/cobra"

	"github.com/blogseo/blogseo/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize blogseo configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure blogseo for your blog and generates a .blogseo.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
