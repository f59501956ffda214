package credtool

import (
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/clouddb/internal/server/password"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

// readPassword is a test seam for reading from the terminal without echo.
var readPassword = func() ([]byte, error) {
	return term.ReadPassword(int(os.Stdin.Fd()))
}

// passwordFrom returns --password when given, otherwise prompts for it.
func passwordFrom(c *cli.Context) (string, error) {
	if c.IsSet("password") {
		return c.String("password"), nil
	}

	fmt.Fprint(c.App.ErrWriter, "Enter password: ")
	pw, err := readPassword()
	fmt.Fprintln(c.App.ErrWriter)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	defer clear(pw)
	return string(pw), nil
}

func passwordFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "password",
		Aliases: []string{"p"},
		Usage:   "plaintext password (prompted for when omitted)",
	}
}

// HashCommand prints a bcrypt hash of a password.
func HashCommand() *cli.Command {
	return &cli.Command{
		Name:   "hash",
		Usage:  "Hash a password with bcrypt",
		Flags:  []cli.Flag{passwordFlag()},
		Action: hashAction,
	}
}

func hashAction(c *cli.Context) error {
	plain, err := passwordFrom(c)
	if err != nil {
		return err
	}

	hashed, err := password.Hash(plain)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.App.Writer, hashed)
	return nil
}

// VerifyCommand checks a password against a stored hash and prints true or
// false. A malformed hash is an error.
func VerifyCommand() *cli.Command {
	return &cli.Command{
		Name:  "verify",
		Usage: "Check a password against a bcrypt hash",
		Flags: []cli.Flag{
			passwordFlag(),
			&cli.StringFlag{
				Name:     "hash",
				Usage:    "stored bcrypt hash",
				Required: true,
			},
		},
		Action: verifyAction,
	}
}

func verifyAction(c *cli.Context) error {
	hashed := c.String("hash")
	if hashed == "" {
		return errors.New("hash must not be empty")
	}

	plain, err := passwordFrom(c)
	if err != nil {
		return err
	}

	ok, err := password.Verify(plain, hashed)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.App.Writer, ok)
	return nil
}
