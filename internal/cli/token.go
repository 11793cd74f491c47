package cli

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/wordchain-go/internal/api/middleware"
)

func newTokenCmd() *cobra.Command {
	var (
		subject string
		secret  string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a handshake token for a server running with JWT_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return errors.New("--secret or JWT_SECRET is required")
			}

			token, err := middleware.NewToken([]byte(secret), subject, ttl, time.Now())
			if err != nil {
				return err
			}

			out := NewOutputTo(cfg.Output, cmd.OutOrStdout(), cmd.ErrOrStderr())
			out.Print(TokenResult{Subject: subject, Token: token})
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "Token subject (required)")
	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "Signing secret (env: JWT_SECRET)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}
