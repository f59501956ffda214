package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/clouddb/internal/flagx"
)

var ownFlags = []string{"-p", "-e", "-s", "-g", "-l"}

// parseFlags overrides Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-p int      HTTP port
//	-e string   environment label
//	-s string   JWT HMAC secret
//	-g string   gRPC bind address (e.g. ":50051")
//	-l string   log level
//
// Only these flags are considered; everything else in args is ignored.
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	port := fs.Int("p", config.Port, "HTTP port")
	fs.StringVar(&config.Env, "e", config.Env, "environment")
	fs.StringVar(&config.JWTSecret, "s", config.JWTSecret, "JWT secret")
	fs.StringVar(&config.GRPCAddr, "g", config.GRPCAddr, "gRPC address")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(flagx.FilterArgs(args, ownFlags)); err != nil {
		return &ConfigurationError{Key: "flags", Err: err}
	}

	if *port < 1 || *port > 65535 {
		return &ConfigurationError{Key: "-p", Err: fmt.Errorf("port %d out of range", *port)}
	}
	config.Port = *port

	return nil
}
