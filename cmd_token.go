package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/holiday-tree/auth"
	"github.com/danielhkuo/holiday-tree/cliparse"
)

func newTokenCmd(flags *cliparse.Flags) *cobra.Command {
	var (
		userID string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for local development",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.Resolve()
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return errors.New("JWT_SECRET required")
			}

			if userID == "" {
				userID = auth.NewUserID()
			}
			token, err := auth.IssueUserToken(userID, cfg.JWTSecret, ttl)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "user: %s\ntoken: %s\n", userID, token)
			return err
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User id (UUID); a new one when empty")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	return cmd
}
