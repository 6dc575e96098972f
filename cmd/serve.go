package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/blogseo/blogseo/internal/db"
	"github.com/blogseo/blogseo/internal/demo"
	"github.com/blogseo/blogseo/internal/history"
	"github.com/blogseo/blogseo/internal/landing"
	"github.com/blogseo/blogseo/internal/optimizer"
	"github.com/blogseo/blogseo/internal/server"
	"github.com/blogseo/blogseo/internal/settings"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the landing page and demo server",
	Long:  `Serves the landing page, the live optimization demo, the theme settings API and the run history API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = servePort
		}

		database, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		historyStore := history.NewStore(database)
		svc := buildService(cfg, historyStore, false)

		srv := server.New(server.Config{
			Port:           cfg.Port,
			AllowAll:       cfg.AllowAllOrigins,
			AllowedOrigins: cfg.AllowedOrigins,
		}, database)

		if err := registerAllRoutes(srv, database, svc, historyStore, cfg.DefaultTheme); err != nil {
			return err
		}

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		fmt.Fprintf(os.Stderr, "blogseo server %s starting on port %d\n", Version, cfg.Port)
		fmt.Fprintf(os.Stderr, "  Endpoint: %s\n", optimizer.NewRemoteClient(cfg.Endpoint).Endpoint())
		fmt.Fprintf(os.Stderr, "  Database: %s\n", database.Path())

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

// registerAllRoutes wires the feature packages onto the server router.
func registerAllRoutes(srv *server.Server, database *db.DB, svc *optimizer.Service, historyStore *history.Store, defaultTheme string) error {
	r := srv.Router()

	// Run history
	history.RegisterRoutes(r, historyStore)

	// Theme preference
	themes := settings.NewThemeService(settings.NewSQLStore(database), defaultTheme)
	settings.RegisterRoutes(r, themes)

	// Live demo
	demo.New(svc).RegisterRoutes(r)

	// Landing page
	page, err := landing.New(themes)
	if err != nil {
		return fmt.Errorf("building landing page: %w", err)
	}
	page.RegisterRoutes(r)

	return nil
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
