// Package config builds the process-wide application context: defaults,
// then an optional .env file, an optional YAML/JSON config file, the process
// environment and finally command-line flags. The result is built once at
// startup and shared read-only by every request handler.
package config

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/dmitrijs2005/clouddb/internal/common"
)

// DefaultJWTSecret is the well-known placeholder secret. Any real deployment
// must override it via JWT_SECRET.
const DefaultJWTSecret = "default-secret-key-change-in-production"

// Config holds runtime settings for the backend.
//
// Fields:
//   - Env: deployment environment label (APP_ENV).
//   - JWTSecret: HMAC secret for signing JWTs (JWT_SECRET). Never exposed.
//   - Port: HTTP listen port (APP_PORT).
//   - GRPCAddr: bind address of the gRPC health endpoint (APP_GRPC_ADDR).
//   - LogLevel: debug|info|warn|error (APP_LOG_LEVEL).
//   - ShutdownTimeout: grace period for in-flight requests (APP_SHUTDOWN_TIMEOUT).
//   - HashConcurrency: max concurrent bcrypt computations (APP_HASH_CONCURRENCY).
type Config struct {
	Env             string
	JWTSecret       string
	Port            int
	GRPCAddr        string
	LogLevel        string
	ShutdownTimeout time.Duration
	HashConcurrency int
	ServiceName     string
	Version         string
}

// LoadDefaults populates Config with development defaults.
// NOTE: DefaultJWTSecret is insecure and must be overridden in production.
func (c *Config) LoadDefaults() {
	c.Env = "development"
	c.JWTSecret = DefaultJWTSecret
	c.Port = 3000
	c.GRPCAddr = ":50051"
	c.LogLevel = "info"
	c.ShutdownTimeout = 10 * time.Second
	c.HashConcurrency = runtime.NumCPU()
	c.ServiceName = "backend"
	c.Version = "1.0.0"
}

// Addr is the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// SecretSet reports whether a non-empty signing secret is configured.
func (c *Config) SecretSet() bool {
	return c.JWTSecret != ""
}

// UsesDefaultSecret reports whether the placeholder secret is still in use.
func (c *Config) UsesDefaultSecret() bool {
	return c.JWTSecret == DefaultJWTSecret
}

// IsProduction reports whether Env names a production deployment.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// ConfigurationError reports a configuration value that is present but
// malformed. It matches common.ErrConfiguration.
type ConfigurationError struct {
	Key string
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Key, e.Err)
}

func (e *ConfigurationError) Unwrap() []error {
	return []error{common.ErrConfiguration, e.Err}
}

// LoadConfig builds a Config from os.Args and the process environment.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load applies defaults, .env, the -c/-config file, the environment and the
// flags found in args, in that order.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := loadDotEnv(dotEnvFile); err != nil {
		return nil, &ConfigurationError{Key: dotEnvFile, Err: err}
	}

	if err := parseSources(cfg, args); err != nil {
		return nil, err
	}

	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}

	return cfg, nil
}
