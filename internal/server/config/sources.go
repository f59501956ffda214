package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/clouddb/internal/flagx"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const dotEnvFile = ".env"

// Keys shared by the config file and the environment. APP_PORT becomes
// app.port, JWT_SECRET becomes jwt.secret, and so on.
const (
	keyPort            = "app.port"
	keyEnv             = "app.env"
	keyGRPCAddr        = "app.grpc_addr"
	keyLogLevel        = "app.log_level"
	keyShutdownTimeout = "app.shutdown_timeout"
	keyHashConcurrency = "app.hash_concurrency"
	keyJWTSecret       = "jwt.secret"
)

// loadDotEnv copies variables from path into the process environment without
// overriding those already set. A missing file is not an error.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// envKey maps APP_GRPC_ADDR to app.grpc_addr.
func envKey(s string) string {
	return strings.Replace(strings.ToLower(s), "_", ".", 1)
}

// parseSources overlays the optional config file and then the environment.
func parseSources(cfg *Config, args []string) error {
	k := koanf.New(".")

	if path := flagx.ConfigFileFlag(args); path != "" {
		// JSON is valid YAML, so one parser covers both formats.
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return &ConfigurationError{Key: "config file " + path, Err: err}
		}
	}

	for _, prefix := range []string{"APP_", "JWT_"} {
		if err := k.Load(env.Provider(prefix, ".", envKey), nil); err != nil {
			return &ConfigurationError{Key: prefix + "* environment", Err: err}
		}
	}

	return apply(cfg, k)
}

// set reports whether key holds a non-blank value. Numeric settings treat an
// empty variable as unset; string settings take it literally.
func set(k *koanf.Koanf, key string) bool {
	return strings.TrimSpace(k.String(key)) != ""
}

func apply(cfg *Config, k *koanf.Koanf) error {
	if k.Exists(keyEnv) {
		cfg.Env = k.String(keyEnv)
	}
	if k.Exists(keyJWTSecret) {
		cfg.JWTSecret = k.String(keyJWTSecret)
	}
	if k.Exists(keyGRPCAddr) {
		cfg.GRPCAddr = k.String(keyGRPCAddr)
	}
	if k.Exists(keyLogLevel) {
		cfg.LogLevel = k.String(keyLogLevel)
	}

	if set(k, keyPort) {
		port, err := parsePort(k.String(keyPort))
		if err != nil {
			return &ConfigurationError{Key: "APP_PORT", Err: err}
		}
		cfg.Port = port
	}

	if set(k, keyShutdownTimeout) {
		d, err := parseDuration(k.String(keyShutdownTimeout))
		if err != nil {
			return &ConfigurationError{Key: "APP_SHUTDOWN_TIMEOUT", Err: err}
		}
		cfg.ShutdownTimeout = d
	}

	if set(k, keyHashConcurrency) {
		n, err := strconv.Atoi(strings.TrimSpace(k.String(keyHashConcurrency)))
		if err != nil || n < 1 {
			return &ConfigurationError{Key: "APP_HASH_CONCURRENCY", Err: fmt.Errorf("want a positive integer, got %q", k.String(keyHashConcurrency))}
		}
		cfg.HashConcurrency = n
	}

	return nil
}

func parsePort(s string) (int, error) {
	port, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("port must be a number, got %q", s)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("port %d out of range", port)
	}
	return port, nil
}

// parseDuration accepts Go duration strings ("5s") and bare integers as seconds.
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", d)
	}
	return d, nil
}
