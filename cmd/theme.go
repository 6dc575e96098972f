package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blogseo/blogseo/internal/settings"
)

// cliClientID is the preference key used for the terminal user.
const cliClientID = "cli"

var themeCmd = &cobra.Command{
	Use:   "theme [dark|light|toggle]",
	Short: "Show or change the stored theme preference",
	Long: `Without arguments prints the current theme. With dark or light stores that
theme; with toggle switches between them.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"dark", "light", "toggle"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		database, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		themes := settings.NewThemeService(settings.NewSQLStore(database), cfg.DefaultTheme)
		ctx := context.Background()

		var theme settings.Theme
		switch {
		case len(args) == 0:
			theme, err = themes.Current(ctx, cliClientID)
		case args[0] == "toggle":
			theme, err = themes.Toggle(ctx, cliClientID)
		default:
			theme, err = themes.Set(ctx, cliClientID, args[0])
		}
		if err != nil {
			return err
		}
		fmt.Println(theme)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(themeCmd)
}
