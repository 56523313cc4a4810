// Package token implements the token hashing helper command.
package token

import (
	"context"
	"fmt"
	"os"

	"github.com/paularlott/cli"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:        "token",
		Usage:       "Token utilities",
		Description: "Helpers for managing API and MCP bearer tokens",
		Commands: []*cli.Command{
			hashCommand(),
		},
	}
}

func hashCommand() *cli.Command {
	return &cli.Command{
		Name:        "hash",
		Usage:       "Hash a bearer token",
		Description: "Read a token from the terminal and print its bcrypt hash, suitable for EDGED_API_TOKEN or EDGED_MCP_TOKEN",
		Run: func(ctx context.Context, cmd *cli.Command) error {
			fmt.Fprint(os.Stderr, "Token: ")
			secret, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Fprintln(os.Stderr)
			if err != nil {
				return fmt.Errorf("failed to read token: %w", err)
			}
			if len(secret) == 0 {
				return fmt.Errorf("token must not be empty")
			}

			hash, err := bcrypt.GenerateFromPassword(secret, bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("failed to hash token: %w", err)
			}

			fmt.Println(string(hash))
			return nil
		},
	}
}
