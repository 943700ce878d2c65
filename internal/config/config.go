// ABOUTME: Configuration loading and parsing for gallery-gateway
// ABOUTME: Supports YAML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Default timing values applied when the config file leaves them unset.
const (
	DefaultSessionLifetime = 7 * 24 * time.Hour
	DefaultStateLifetime   = 10 * time.Minute
	DefaultRegistryTTL     = 10 * time.Minute
	DefaultReadmeTTL       = 6 * time.Hour
	DefaultFetchTimeout    = 10 * time.Second
)

// MinCookieSecretLength is the minimum length of the cookie signing secret in bytes.
// HMAC-SHA256 secrets shorter than the digest size weaken forgery resistance.
const MinCookieSecretLength = 32

// Config represents the complete gallery-gateway configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Auth      AuthConfig      `yaml:"auth"`
	Registry  RegistryConfig  `yaml:"registry"`
	Readme    ReadmeConfig    `yaml:"readme"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Site      SiteConfig      `yaml:"site"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig holds server address configuration
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr"`
}

// AuthConfig holds GitHub OAuth and cookie signing configuration
type AuthConfig struct {
	GitHubClientID     string `yaml:"github_client_id"`
	GitHubClientSecret string `yaml:"github_client_secret"`
	GitHubCallbackURL  string `yaml:"github_callback_url"`
	CookieSecret       string `yaml:"cookie_secret"`

	// AccessMode selects which user list is consulted: "allowlist" or "denylist".
	// Defaults to allowlist.
	AccessMode   string   `yaml:"access_mode"`
	AllowedUsers []string `yaml:"allowed_users"`
	DeniedUsers  []string `yaml:"denied_users"`

	SessionLifetime time.Duration `yaml:"-"`
	StateLifetime   time.Duration `yaml:"-"`

	// Raw string values for YAML unmarshaling
	SessionLifetimeRaw string `yaml:"session_lifetime"`
	StateLifetimeRaw   string `yaml:"state_lifetime"`
}

// RegistryConfig holds upstream plugin registry configuration
type RegistryConfig struct {
	URL string `yaml:"url"`

	CacheTTL     time.Duration `yaml:"-"`
	FetchTimeout time.Duration `yaml:"-"`

	CacheTTLRaw     string `yaml:"cache_ttl"`
	FetchTimeoutRaw string `yaml:"fetch_timeout"`
}

// ReadmeConfig holds README resolver configuration
type ReadmeConfig struct {
	CacheTTL     time.Duration `yaml:"-"`
	FetchTimeout time.Duration `yaml:"-"`

	CacheTTLRaw     string `yaml:"cache_ttl"`
	FetchTimeoutRaw string `yaml:"fetch_timeout"`
}

// AnalyticsConfig holds the optional analytics event store configuration.
// An empty database path disables analytics endpoints.
type AnalyticsConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// SiteConfig holds public site metadata used by SEO endpoints
type SiteConfig struct {
	// BaseURL is the external URL of the site (used in robots.txt and sitemap.xml).
	// If not set, it is derived from the incoming request.
	BaseURL string `yaml:"base_url"`

	// ExtraSitemaps lists additional sitemap URLs advertised in robots.txt.
	ExtraSitemaps []string `yaml:"extra_sitemaps"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return Parse(data)
}

// Parse parses raw YAML configuration bytes, expanding environment variables,
// applying defaults, and validating required fields.
func Parse(data []byte) (*Config, error) {
	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// applyDefaults fills in unset optional fields.
func (c *Config) applyDefaults() {
	if c.Server.HTTPAddr == "" {
		c.Server.HTTPAddr = ":8080"
	}
	if c.Auth.AccessMode == "" {
		c.Auth.AccessMode = "allowlist"
	}
	if c.Auth.SessionLifetime == 0 {
		c.Auth.SessionLifetime = DefaultSessionLifetime
	}
	if c.Auth.StateLifetime == 0 {
		c.Auth.StateLifetime = DefaultStateLifetime
	}
	if c.Registry.CacheTTL == 0 {
		c.Registry.CacheTTL = DefaultRegistryTTL
	}
	if c.Registry.FetchTimeout == 0 {
		c.Registry.FetchTimeout = DefaultFetchTimeout
	}
	if c.Readme.CacheTTL == 0 {
		c.Readme.CacheTTL = DefaultReadmeTTL
	}
	if c.Readme.FetchTimeout == 0 {
		c.Readme.FetchTimeout = DefaultFetchTimeout
	}
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
// A failure here must prevent the server from starting.
func (c *Config) Validate() error {
	if c.Auth.GitHubClientID == "" {
		return fmt.Errorf("auth.github_client_id is required")
	}
	if c.Auth.GitHubClientSecret == "" {
		return fmt.Errorf("auth.github_client_secret is required")
	}
	if c.Auth.GitHubCallbackURL == "" {
		return fmt.Errorf("auth.github_callback_url is required")
	}
	if c.Auth.CookieSecret == "" {
		return fmt.Errorf("auth.cookie_secret is required")
	}
	if len(c.Auth.CookieSecret) < MinCookieSecretLength {
		return fmt.Errorf("auth.cookie_secret must be at least %d bytes", MinCookieSecretLength)
	}

	switch c.Auth.AccessMode {
	case "allowlist":
		if len(c.Auth.AllowedUsers) == 0 {
			return fmt.Errorf("auth.allowed_users must include at least one user in allowlist mode")
		}
	case "denylist":
		// An empty denylist is valid: it admits everyone who authenticates.
	default:
		return fmt.Errorf("auth.access_mode must be %q or %q, got %q", "allowlist", "denylist", c.Auth.AccessMode)
	}

	if c.Registry.URL == "" {
		return fmt.Errorf("registry.url is required")
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	fields := []struct {
		raw  string
		dst  *time.Duration
		name string
	}{
		{cfg.Auth.SessionLifetimeRaw, &cfg.Auth.SessionLifetime, "session_lifetime"},
		{cfg.Auth.StateLifetimeRaw, &cfg.Auth.StateLifetime, "state_lifetime"},
		{cfg.Registry.CacheTTLRaw, &cfg.Registry.CacheTTL, "registry.cache_ttl"},
		{cfg.Registry.FetchTimeoutRaw, &cfg.Registry.FetchTimeout, "registry.fetch_timeout"},
		{cfg.Readme.CacheTTLRaw, &cfg.Readme.CacheTTL, "readme.cache_ttl"},
		{cfg.Readme.FetchTimeoutRaw, &cfg.Readme.FetchTimeout, "readme.fetch_timeout"},
	}

	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		d, err := time.ParseDuration(f.raw)
		if err != nil {
			return fmt.Errorf("parsing %s %q: %w", f.name, f.raw, err)
		}
		*f.dst = d
	}

	return nil
}
