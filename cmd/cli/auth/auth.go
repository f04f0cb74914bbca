package auth

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/crucial707/pwasset/cmd/cli/config"
	"github.com/crucial707/pwasset/internal/client"
	"github.com/spf13/cobra"
)

// InitAuth registers login and logout on the root command.
func InitAuth(rootCmd *cobra.Command) {
	rootCmd.AddCommand(loginCmd(), logoutCmd())
}

// loginCmd creates a command that logs in a user and stores the JWT token locally.
func loginCmd() *cobra.Command {
	var userID, password string
	var remember bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the pwasset API",
		Long:  "Authenticate with the pwasset API and store a token for subsequent CLI commands.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				return fmt.Errorf("--user-id is required")
			}
			if password == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Password: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimSpace(line)
			}

			res, err := client.New(config.APIURL(), "").Login(cmd.Context(), userID, password, remember)
			if err != nil {
				return fmt.Errorf("failed to login: %w", err)
			}
			if res.Token == "" {
				return fmt.Errorf("login succeeded but no token returned")
			}

			if err := config.SaveToken(res.Token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s. Token stored locally.\n", res.User.UserName)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user-id", "", "User id to authenticate as")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	cmd.Flags().BoolVar(&remember, "remember", false, "Request a 7 day token")

	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the locally stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ClearToken(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}
