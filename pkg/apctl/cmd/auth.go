package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alpaca-ads/multiauth-portal/pkg/gateway"
)

func NewAuthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the portal session",
	}
	cmd.AddCommand(
		newAuthLoginCommand(),
		newAuthStatusCommand(),
		newAuthLogoutCommand(),
	)
	return cmd
}

func newAuthLoginCommand() *cobra.Command {
	var username string
	var password string
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login with username and password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			if passwordStdin {
				reader := bufio.NewReader(cmd.InOrStdin())
				line, err := reader.ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("failed to read password from stdin: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if username == "" || password == "" {
				return fmt.Errorf("username and password are required")
			}

			sessions, err := rt.sessions()
			if err != nil {
				return err
			}
			client, err := rt.gatewayClient(sessions)
			if err != nil {
				return err
			}
			token, err := client.Login(cmd.Context(), gateway.Credentials{
				Username: username,
				Password: password,
			})
			if err != nil {
				return err
			}
			if err := sessions.SetAuthentication(token); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(rt.Writer(), "Authenticated")
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (prefer --password-stdin)")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")

	return cmd
}

func newAuthStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show session status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			sessions, err := rt.sessions()
			if err != nil {
				return err
			}
			// Token presence only; validity is the backend's call on the
			// next protected request.
			if !sessions.IsAuthenticated() {
				_, _ = fmt.Fprintln(rt.Writer(), "Not authenticated")
				return nil
			}
			_, _ = fmt.Fprintln(rt.Writer(), "Authenticated")
			return nil
		},
	}
}

func newAuthLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			sessions, err := rt.sessions()
			if err != nil {
				return err
			}
			if err := sessions.Logout(); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(rt.Writer(), "Logged out")
			return nil
		},
	}
}
