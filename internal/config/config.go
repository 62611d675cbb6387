package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Server config
	Server ServerConfig

	// analysis backend
	Backend BackendConfig

	// CSRF and cookies
	Security SecurityConfig

	// request limits
	Limits LimitsConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string        `yaml:"port"`
	Environment  string        `yaml:"environment"` // development, staging, production
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
	IdleTimeout  time.Duration `yaml:"idleTimeout"`
}

// BackendConfig points at the external analysis service.
type BackendConfig struct {
	APIBase string        `yaml:"apiBase"`
	Timeout time.Duration `yaml:"timeout"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	CSRFSecret         string        `yaml:"csrfSecret"`
	SessionCookieName  string        `yaml:"sessionCookieName"`
	PanelTTL           time.Duration `yaml:"panelTTL"`
	CORSAllowedOrigins []string      `yaml:"corsAllowedOrigins"`
	SecureCookies      bool          `yaml:"-"` // true in production
}

// LimitsConfig holds request size limits.
type LimitsConfig struct {
	MaxUploadMB int `yaml:"maxUploadMB"`
}

// MaxUploadBytes returns the upload limit in bytes.
func (l LimitsConfig) MaxUploadBytes() int64 {
	return int64(l.MaxUploadMB) << 20
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "8080",
			Environment:  "development",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Backend: BackendConfig{
			APIBase: "http://127.0.0.1:8000",
			Timeout: 30 * time.Second,
		},
		Security: SecurityConfig{
			SessionCookieName:  "area_analyzer_panel",
			PanelTTL:           2 * time.Hour,
			CORSAllowedOrigins: []string{"*"},
		},
		Limits: LimitsConfig{
			MaxUploadMB: 20,
		},
	}
}

func Load() (*Config, error) {
	// .env is optional; in production the variables come from the environment
	_ = godotenv.Load()

	cfg := Defaults()

	// Optional YAML file, environment variables still win
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}

	cfg.Backend.APIBase = strings.TrimRight(cfg.Backend.APIBase, "/")
	cfg.Security.SecureCookies = cfg.Server.Environment == "production"

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadBackend reads only the backend settings, with the same sources and
// precedence as Load. The CLI uses it since it has no server secrets.
func LoadBackend() (BackendConfig, error) {
	_ = godotenv.Load()

	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return BackendConfig{}, err
		}
	}

	cfg.Backend.APIBase = strings.TrimRight(getEnvOrDefault("BACKEND_API_BASE", cfg.Backend.APIBase), "/")
	if err := getDuration("BACKEND_TIMEOUT", &cfg.Backend.Timeout); err != nil {
		return BackendConfig{}, err
	}
	return cfg.Backend, nil
}

// loadFile overlays values from a YAML file on top of the defaults.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var file struct {
		Server   ServerConfig   `yaml:"server"`
		Backend  BackendConfig  `yaml:"backend"`
		Security SecurityConfig `yaml:"security"`
		Limits   LimitsConfig   `yaml:"limits"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	overlay(&c.Server.Port, file.Server.Port)
	overlay(&c.Server.Environment, file.Server.Environment)
	overlay(&c.Server.ReadTimeout, file.Server.ReadTimeout)
	overlay(&c.Server.WriteTimeout, file.Server.WriteTimeout)
	overlay(&c.Server.IdleTimeout, file.Server.IdleTimeout)
	overlay(&c.Backend.APIBase, file.Backend.APIBase)
	overlay(&c.Backend.Timeout, file.Backend.Timeout)
	overlay(&c.Security.CSRFSecret, file.Security.CSRFSecret)
	overlay(&c.Security.SessionCookieName, file.Security.SessionCookieName)
	overlay(&c.Security.PanelTTL, file.Security.PanelTTL)
	overlay(&c.Limits.MaxUploadMB, file.Limits.MaxUploadMB)
	if len(file.Security.CORSAllowedOrigins) > 0 {
		c.Security.CORSAllowedOrigins = file.Security.CORSAllowedOrigins
	}
	return nil
}

func (c *Config) loadEnv() error {
	var errs []error

	c.Server.Port = getEnvOrDefault("SERVER_PORT", c.Server.Port)
	c.Server.Environment = getEnvOrDefault("APP_ENV", c.Server.Environment)
	c.Backend.APIBase = getEnvOrDefault("BACKEND_API_BASE", c.Backend.APIBase)
	c.Security.CSRFSecret = getEnvOrDefault("CSRF_SECRET", c.Security.CSRFSecret)
	c.Security.SessionCookieName = getEnvOrDefault("SESSION_COOKIE_NAME", c.Security.SessionCookieName)

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		c.Security.CORSAllowedOrigins = strings.Fields(v)
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"SERVER_READ_TIMEOUT", &c.Server.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", &c.Server.WriteTimeout},
		{"SERVER_IDLE_TIMEOUT", &c.Server.IdleTimeout},
		{"BACKEND_TIMEOUT", &c.Backend.Timeout},
		{"PANEL_TTL", &c.Security.PanelTTL},
	}
	for _, d := range durations {
		if err := getDuration(d.key, d.dst); err != nil {
			errs = append(errs, err)
		}
	}

	if v := os.Getenv("MAX_UPLOAD_MB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid MAX_UPLOAD_MB: %w", err))
		} else {
			c.Limits.MaxUploadMB = n
		}
	}

	return errors.Join(errs...)
}

// validate checks that all required configuration is present and valid.
func (c *Config) validate() error {
	var errs []error

	// CSRF secret must be set and sufficiently long
	if c.Security.CSRFSecret == "" {
		errs = append(errs, errors.New("CSRF_SECRET is required"))
	} else if len(c.Security.CSRFSecret) < 32 {
		errs = append(errs, errors.New("CSRF_SECRET must be at least 32 characters"))
	}

	u, err := url.Parse(c.Backend.APIBase)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("BACKEND_API_BASE must be an absolute http(s) URL (got: %q)", c.Backend.APIBase))
	}

	if c.Backend.Timeout <= 0 {
		errs = append(errs, errors.New("BACKEND_TIMEOUT must be positive"))
	}
	if c.Limits.MaxUploadMB <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_MB must be positive"))
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.Server.Environment] {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of: development, staging, production (got: %s)", c.Server.Environment))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%w", errors.Join(errs...))
	}

	return nil
}

// getEnvOrDefault returns the .env value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, dst *time.Duration) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = d
	return nil
}

func overlay[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}

// MustLoad is like Load but panics on error.
// Used in main() where its required to fail fast
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}
