package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/careledger/internal/auth"
)

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().String("user", "", "user id (required)")
	tokenCmd.Flags().String("org", "", "organization id (required)")
	tokenCmd.Flags().String("role", string(auth.RoleAdmin), "admin, manager, staff or client")
	tokenCmd.Flags().String("client", "", "client id (client role only)")
	tokenCmd.Flags().Duration("ttl", 24*time.Hour, "token lifetime")

	_ = tokenCmd.MarkFlagRequired("user")
	_ = tokenCmd.MarkFlagRequired("org")
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for the API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := configFrom(cmd)

		userFlag, _ := cmd.Flags().GetString("user")
		orgFlag, _ := cmd.Flags().GetString("org")
		role, _ := cmd.Flags().GetString("role")
		clientFlag, _ := cmd.Flags().GetString("client")
		ttl, _ := cmd.Flags().GetDuration("ttl")

		userID, err := uuid.Parse(userFlag)
		if err != nil {
			return fmt.Errorf("invalid --user: %w", err)
		}

		orgID, err := uuid.Parse(orgFlag)
		if err != nil {
			return fmt.Errorf("invalid --org: %w", err)
		}

		id := auth.Identity{UserID: userID, OrganizationID: orgID, Role: auth.Role(role)}

		if clientFlag != "" {
			clientID, err := uuid.Parse(clientFlag)
			if err != nil {
				return fmt.Errorf("invalid --client: %w", err)
			}

			id.ClientID = &clientID
		}

		m, err := auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
		if err != nil {
			return err
		}

		token, err := m.Issue(id, ttl)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)

		return nil
	},
}
