package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultJWTSecret is the development secret, refused in production
const DefaultJWTSecret = "your-secret-key-change-in-production"

// JWTConfig holds the token settings shared by the CLI and the store
type JWTConfig struct {
	Secret   string        `yaml:"secret"`
	Issuer   string        `yaml:"issuer"`
	Audience string        `yaml:"audience"`
	Expiry   time.Duration `yaml:"expiry"`
}

// Config is the client side configuration
type Config struct {
	APIURL   string        `yaml:"api_url"`
	Timeout  time.Duration `yaml:"timeout"`
	LogLevel string        `yaml:"log_level"`
	// Token is a pre-issued bearer token. When empty and JWT.Secret is set,
	// the client mints its own tokens.
	Token string    `yaml:"token"`
	JWT   JWTConfig `yaml:"jwt"`
}

// ServerConfig is the configuration of the reference asset store
type ServerConfig struct {
	Addr          string    `yaml:"addr"`
	DSN           string    `yaml:"dsn"`
	LogLevel      string    `yaml:"log_level"`
	EnableMetrics bool      `yaml:"enable_metrics"`
	AuthEnabled   bool      `yaml:"auth_enabled"`
	JWT           JWTConfig `yaml:"jwt"`
}

func defaultJWT() JWTConfig {
	return JWTConfig{
		Secret:   DefaultJWTSecret,
		Issuer:   "asset-inventory",
		Audience: "asset-inventory",
		Expiry:   24 * time.Hour,
	}
}

// Load reads the client configuration: defaults, then the YAML file named by
// ASSETS_CONFIG (if any), then environment overrides.
func Load() (*Config, error) {
	return LoadFile(os.Getenv("ASSETS_CONFIG"))
}

// LoadFile is Load with an explicit config file path; an empty path skips the file
func LoadFile(path string) (*Config, error) {
	cfg := &Config{
		APIURL:   "http://localhost:8080/api/assets",
		Timeout:  10 * time.Second,
		LogLevel: "info",
		JWT:      defaultJWT(),
	}

	if err := readYAML(path, cfg); err != nil {
		return nil, err
	}

	cfg.APIURL = getEnv("ASSETS_API_URL", cfg.APIURL)
	cfg.LogLevel = getEnv("ASSETS_LOG_LEVEL", cfg.LogLevel)
	cfg.Token = getEnv("ASSETS_TOKEN", cfg.Token)
	if timeoutStr := os.Getenv("ASSETS_TIMEOUT"); timeoutStr != "" {
		if timeout, err := time.ParseDuration(timeoutStr); err == nil {
			cfg.Timeout = timeout
		}
	}
	applyJWTEnv(&cfg.JWT)

	return cfg, nil
}

// LoadServer reads the store configuration the same way, from ASSETSTORE_CONFIG
func LoadServer() (*ServerConfig, error) {
	return LoadServerFile(os.Getenv("ASSETSTORE_CONFIG"))
}

// LoadServerFile is LoadServer with an explicit config file path
func LoadServerFile(path string) (*ServerConfig, error) {
	cfg := &ServerConfig{
		Addr:     ":8080",
		LogLevel: "info",
		JWT:      defaultJWT(),
	}

	if err := readYAML(path, cfg); err != nil {
		return nil, err
	}

	cfg.Addr = getEnv("LISTEN_ADDR", cfg.Addr)
	cfg.DSN = getEnv("DB_DSN", cfg.DSN)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.EnableMetrics = getBool("ENABLE_METRICS", cfg.EnableMetrics)
	cfg.AuthEnabled = getBool("AUTH_ENABLED", cfg.AuthEnabled)
	applyJWTEnv(&cfg.JWT)

	return cfg, nil
}

// LoadAndValidate loads the client configuration and validates it
func LoadAndValidate() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the client configuration
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api_url must be an absolute http(s) URL, got %q", c.APIURL)
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	// tokens are only minted when no static token is configured
	if c.Token == "" && c.JWT.Secret != "" && c.JWT.Secret != DefaultJWTSecret {
		if err := c.JWT.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the store configuration
func (c *ServerConfig) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return errors.New("listen address is required")
	}
	if c.AuthEnabled {
		if err := c.JWT.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the JWT settings
func (j JWTConfig) Validate() error {
	if j.Secret == "" {
		return errors.New("JWT secret is required")
	}
	if len(j.Secret) < 32 {
		return errors.New("JWT secret must be at least 32 characters")
	}
	if os.Getenv("ENVIRONMENT") == "production" && j.Secret == DefaultJWTSecret {
		return errors.New("JWT secret must be changed in production")
	}
	if j.Issuer == "" {
		return errors.New("JWT issuer is required")
	}
	if j.Audience == "" {
		return errors.New("JWT audience is required")
	}
	if j.Expiry < time.Minute {
		return errors.New("JWT expiry must be at least one minute")
	}
	if j.Expiry > 30*24*time.Hour {
		return errors.New("JWT expiry must not exceed 30 days")
	}
	return nil
}

func readYAML(path string, out interface{}) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyJWTEnv(j *JWTConfig) {
	j.Secret = getEnv("JWT_SECRET", j.Secret)
	j.Issuer = getEnv("JWT_ISS", j.Issuer)
	j.Audience = getEnv("JWT_AUD", j.Audience)

	// Parse JWT expiry from environment if provided
	if expiryStr := os.Getenv("JWT_EXPIRY"); expiryStr != "" {
		if expiry, err := time.ParseDuration(expiryStr); err == nil {
			j.Expiry = expiry
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}
