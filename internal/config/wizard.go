package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/blogseo/blogseo/internal/optimizer"
)

// siteTypePatterns maps marker files of static site generators to a
// human-readable name and the glob their rendered posts live under.
var siteTypePatterns = map[string]struct {
	Name    string
	Include string
}{
	"hugo.toml":      {Name: "Hugo", Include: "public/**/*.html"},
	"config.toml":    {Name: "Hugo", Include: "public/**/*.html"},
	"_config.yml":    {Name: "Jekyll", Include: "_site/**/*.html"},
	"astro.config.*": {Name: "Astro", Include: "dist/**/*.html"},
	".eleventy.js":   {Name: "Eleventy", Include: "_site/**/*.html"},
	"mkdocs.yml":     {Name: "MkDocs", Include: "site/**/*.html"},
}

// detectSiteType checks the current directory for well-known generator markers.
func detectSiteType() (name string, include string) {
	for marker, info := range siteTypePatterns {
		matches, _ := filepath.Glob(marker)
		if len(matches) > 0 {
			return info.Name, info.Include
		}
	}
	return "", "**/*.html"
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to blogseo! Let's configure your project.")
	fmt.Println()

	siteType, defaultInclude := detectSiteType()
	if siteType != "" {
		fmt.Printf("Detected site generator: %s\n\n", siteType)
	}

	cfg := DefaultConfig()

	// 1. Optimizer endpoint.
	endpointPrompt := promptui.Prompt{
		Label:   "Optimizer API endpoint",
		Default: optimizer.DefaultEndpoint,
	}
	endpoint, err := endpointPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("endpoint: %w", err)
	}
	cfg.Endpoint = strings.TrimSpace(endpoint)

	// 2. Port.
	portPrompt := promptui.Prompt{
		Label:   "Port for blogseo serve",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	// 3. Default theme.
	themePrompt := promptui.Select{
		Label: "Default page theme",
		Items: []string{"dark", "light"},
	}
	_, theme, err := themePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("theme selection: %w", err)
	}
	cfg.DefaultTheme = theme

	// 4. Include patterns for batch optimization.
	includePrompt := promptui.Prompt{
		Label:   "HTML files to optimize (comma-separated globs)",
		Default: defaultInclude,
	}
	includeStr, err := includePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("include patterns: %w", err)
	}
	if include := splitAndTrim(includeStr); len(include) > 0 {
		cfg.Include = include
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
