// Package credtool is an offline companion to the backend: it hashes and
// checks passwords and issues or inspects tokens with the same primitives the
// server uses.
package credtool

import (
	"io"

	"github.com/dmitrijs2005/clouddb/internal/server/config"
	"github.com/urfave/cli/v2"
)

// App returns the credtool command tree writing results to out and
// diagnostics to errOut.
func App(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:      "credtool",
		Usage:     "Hash passwords and issue or inspect access tokens",
		Writer:    out,
		ErrWriter: errOut,
		// Errors go back to the caller of Run; main decides the exit code.
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			HashCommand(),
			VerifyCommand(),
			TokenCommand(),
		},
	}
}

func secretFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "secret",
		Aliases: []string{"s"},
		Usage:   "HMAC signing secret",
		EnvVars: []string{"JWT_SECRET"},
		Value:   config.DefaultJWTSecret,
	}
}
