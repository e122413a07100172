package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	// devSessionSecret is only accepted when APP_ENV is development.
	devSessionSecret = "gridsky-development-session-secret"
)

// Config holds all configuration for the application.
type Config struct {
	Env     string `validate:"required,oneof=development production"`
	Addr    string `validate:"required"`
	BaseURL string `validate:"required,url"`

	SessionSecret string `validate:"required,min=16"`

	OAuthScope       string `validate:"required"`
	OAuthProviderURL string `validate:"required,url"`

	DataDir         string        `validate:"required"`
	FollowsLimit    int64         `validate:"min=1,max=100"`
	AuthTimeout     time.Duration `validate:"gt=0"`
	PageTTL         time.Duration `validate:"gt=0"`
	InitialViewport int           `validate:"min=1"`

	// RateLimit is the per-IP request rate, per second, on routes that may
	// start an authorization flow. RateBurst 0 derives the burst from it.
	RateLimit float64 `validate:"gt=0"`
	RateBurst int     `validate:"min=0"`

	TracingEnabled bool
	ZipkinURL      string `validate:"required_if=TracingEnabled true,omitempty,url"`
}

// New loads configuration from a .env file, if present, and the environment.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// slog is not configured yet at this point.
		log.Println("No .env file found, relying on environment variables")
	}
	return Load()
}

// Load builds the configuration from environment variables only and
// validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Env:              getenv("APP_ENV", EnvDevelopment),
		Addr:             getenv("APP_ADDR", "127.0.0.1:5173"),
		BaseURL:          strings.TrimRight(getenv("APP_BASE_URL", "http://127.0.0.1:5173"), "/"),
		SessionSecret:    os.Getenv("SESSION_SECRET"),
		OAuthScope:       getenv("OAUTH_SCOPE", "atproto transition:generic"),
		OAuthProviderURL: getenv("OAUTH_PROVIDER_URL", "https://bsky.social"),
		DataDir:          getenv("DATA_DIR", "data"),
	}

	var err error
	if cfg.FollowsLimit, err = getInt("FOLLOWS_LIMIT", 50); err != nil {
		return nil, err
	}
	if cfg.AuthTimeout, err = getDuration("AUTH_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.PageTTL, err = getDuration("PAGE_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	viewport, err := getInt("INITIAL_VIEWPORT", 1200)
	if err != nil {
		return nil, err
	}
	cfg.InitialViewport = int(viewport)
	if cfg.RateLimit, err = getFloat("RATE_LIMIT", 10); err != nil {
		return nil, err
	}
	burst, err := getInt("RATE_BURST", 0)
	if err != nil {
		return nil, err
	}
	cfg.RateBurst = int(burst)
	if cfg.TracingEnabled, err = getBool("TRACING_ENABLED", false); err != nil {
		return nil, err
	}
	cfg.ZipkinURL = getenv("TRACING_ZIPKIN_URL", "http://localhost:9411/api/v2/spans")

	if cfg.SessionSecret == "" && cfg.Env == EnvDevelopment {
		cfg.SessionSecret = devSessionSecret
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// IsDevelopment reports whether the loopback OAuth client should be used.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// Scopes splits the configured scope string into individual scopes.
func (c *Config) Scopes() []string {
	return strings.Fields(c.OAuthScope)
}

// ClientMetadataURL is where the hosted client-metadata document is served.
func (c *Config) ClientMetadataURL() string {
	return c.BaseURL + "/oauth/client-metadata.json"
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return f, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}
