package credtool

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/clouddb/internal/server/auth"
	"github.com/urfave/cli/v2"
)

// TokenCommand groups token issuance and inspection.
func TokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Issue or verify access tokens",
		Subcommands: []*cli.Command{
			{
				Name:  "issue",
				Usage: "Sign a token for the given identity",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "user-id", Usage: "user identifier", Required: true},
					&cli.Int64Flag{Name: "tenant-id", Usage: "tenant identifier", Required: true},
					&cli.StringFlag{Name: "role", Usage: "role name", Value: auth.RoleViewer},
					&cli.Int64Flag{Name: "hours", Usage: "lifetime in hours", Value: 12},
					secretFlag(),
				},
				Action: tokenIssue,
			},
			{
				Name:      "verify",
				Usage:     "Verify a token and print its claims",
				ArgsUsage: "TOKEN",
				Flags:     []cli.Flag{secretFlag()},
				Action:    tokenVerify,
			},
		},
	}
}

func tokenIssue(c *cli.Context) error {
	if c.Int64("hours") < 0 {
		return errors.New("hours must not be negative")
	}

	claims := auth.NewClaims(c.Int64("user-id"), c.Int64("tenant-id"), c.String("role"), c.Int64("hours"))

	token, err := auth.CreateToken(claims, []byte(c.String("secret")))
	if err != nil {
		return err
	}

	fmt.Fprintln(c.App.Writer, token)
	return nil
}

func tokenVerify(c *cli.Context) error {
	token := c.Args().First()
	if token == "" {
		return errors.New("token required")
	}

	claims, err := auth.VerifyToken(token, []byte(c.String("secret")))
	if err != nil {
		return fmt.Errorf("%s: %w", auth.Reason(err), err)
	}

	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(claims)
}
