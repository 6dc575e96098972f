package config

import (
	"path/filepath"
	"time"

	"github.com/blogseo/blogseo/internal/optimizer"
)

// DefaultFileName is the config file looked up in the working directory.
const DefaultFileName = ".blogseo.yml"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Endpoint:              optimizer.DefaultEndpoint,
		RequestTimeoutSeconds: 30,
		FallbackDelayMS:       int(optimizer.DefaultFallbackDelay / time.Millisecond),
		RateLimitRPM:          60,
		Port:                  8080,
		DataDir:               ".blogseo",
		DefaultTheme:          "dark",
		AllowAllOrigins:       false,
		Include:               []string{"**/*.html", "**/*.htm"},
		Exclude:               []string{".git/**", "node_modules/**", ".blogseo/**"},
	}
}

// RequestTimeout is the remote call deadline; zero means no timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// FallbackDelay is the simulated processing time of the local fallback.
func (c *Config) FallbackDelay() time.Duration {
	return time.Duration(c.FallbackDelayMS) * time.Millisecond
}

// DatabasePath is where history and settings are stored.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "blogseo.db")
}
