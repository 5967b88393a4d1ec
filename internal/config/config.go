// Package config loads runtime settings from the environment and optional
// .env files.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every setting the portfolio binary reads at startup.
type Config struct {
	Port           string        `env:"PORT" envDefault:"8080"`
	GinMode        string        `env:"GIN_MODE" envDefault:"debug"`
	DatabaseURL    string        `env:"DATABASE_URL"`
	AnalyticsPath  string        `env:"ANALYTICS_DB_PATH" envDefault:"data/analytics.db"`
	TrustedProxies []string      `env:"TRUSTED_PROXIES" envSeparator:","`
	CookieSecure   bool          `env:"COOKIE_SECURE" envDefault:"false"`
	Retention      time.Duration `env:"VISITOR_RETENTION" envDefault:"8760h"`

	SessionSecret string        `env:"SESSION_SECRET"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	AdminEmail    string        `env:"ADMIN_EMAIL"`
	AdminPassword string        `env:"ADMIN_PASSWORD"`

	SMTP SMTP

	Notion Notion

	SeedFile      string        `env:"SEED_FILE"`
	FetchTimeout  time.Duration `env:"FETCH_TIMEOUT" envDefault:"20s"`
	MaxFetchBytes int64         `env:"MAX_FETCH_BYTES" envDefault:"20971520"`
}

// SMTP configures contact form notifications.
type SMTP struct {
	Host    string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	Port    string `env:"SMTP_PORT" envDefault:"587"`
	User    string `env:"SMTP_USER"`
	Pass    string `env:"SMTP_PASS"`
	ToEmail string `env:"TO_EMAIL"`
}

// Enabled reports whether credentials are present.
func (s SMTP) Enabled() bool {
	return s.User != "" && s.Pass != ""
}

// Notion configures the one-way Notion import.
type Notion struct {
	APIKey             string `env:"NOTION_API_KEY"`
	BlogDatabaseID     string `env:"NOTION_BLOG_DATABASE_ID"`
	ProjectsDatabaseID string `env:"NOTION_PROJECTS_DATABASE_ID"`
	BaseURL            string `env:"NOTION_BASE_URL" envDefault:"https://api.notion.com"`
}

// ErrMissing is wrapped by Validate when a required value is unset.
var ErrMissing = errors.New("missing required configuration")

// Load reads the given .env files (missing files are ignored) and parses the
// environment into a Config.
func Load(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if f == "" {
			continue
		}
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// Debug reports whether gin runs in debug mode.
func (c *Config) Debug() bool {
	return c.GinMode == "" || c.GinMode == "debug"
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// ValidateServe checks the settings the HTTP server cannot run without.
func (c *Config) ValidateServe() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.SessionSecret == "" && !c.Debug() {
		missing = append(missing, "SESSION_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissing, strings.Join(missing, ", "))
	}
	return nil
}

// ValidateDatabase checks the settings needed by commands that only talk to
// the content database.
func (c *Config) ValidateDatabase() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("%w: DATABASE_URL", ErrMissing)
	}
	return nil
}
