package config

// Config is the top-level blogseo configuration, corresponding to .blogseo.yml.
type Config struct {
	Endpoint              string   `yaml:"endpoint" koanf:"endpoint"`
	RequestTimeoutSeconds int      `yaml:"request_timeout_seconds" koanf:"request_timeout_seconds"`
	FallbackDelayMS       int      `yaml:"fallback_delay_ms" koanf:"fallback_delay_ms"`
	RateLimitRPM          int      `yaml:"rate_limit_rpm" koanf:"rate_limit_rpm"`
	Port                  int      `yaml:"port" koanf:"port"`
	DataDir               string   `yaml:"data_dir" koanf:"data_dir"`
	DefaultTheme          string   `yaml:"default_theme" koanf:"default_theme"`
	AllowAllOrigins       bool     `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	AllowedOrigins        []string `yaml:"allowed_origins,omitempty" koanf:"allowed_origins"`
	Include               []string `yaml:"include" koanf:"include"`
	Exclude               []string `yaml:"exclude" koanf:"exclude"`
}
