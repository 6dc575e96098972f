package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/blogseo/blogseo/internal/config"
	"github.com/blogseo/blogseo/internal/db"
	"github.com/blogseo/blogseo/internal/optimizer"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `blogseo init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// openDB opens the history database under the configured data directory.
func openDB(cfg *config.Config) (*db.DB, error) {
	path := cfg.DatabasePath()
	database, err := db.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Database: %s\n", filepath.Clean(path))
	}
	return database, nil
}

// buildService wires the remote client and the local fallback from config.
// With offline set, every request takes the fallback path.
func buildService(cfg *config.Config, recorder optimizer.Recorder, offline bool) *optimizer.Service {
	var remote optimizer.Remoter
	if !offline {
		remote = optimizer.NewRemoteClient(cfg.Endpoint,
			optimizer.WithTimeout(cfg.RequestTimeout()),
			optimizer.WithRateLimit(cfg.RateLimitRPM),
		)
	}
	return optimizer.NewService(remote, optimizer.NewFallback(cfg.FallbackDelay(), nil), recorder)
}
