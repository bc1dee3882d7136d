package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/alpaca-ads/multiauth-portal/pkg/apctl/output"
	"github.com/alpaca-ads/multiauth-portal/pkg/gateway"
)

func NewWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated identity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			sessions, err := rt.sessions()
			if err != nil {
				return err
			}
			client, err := rt.gatewayClient(sessions)
			if err != nil {
				return err
			}

			profile, err := client.GetUserInfo(cmd.Context())
			if err != nil {
				if errors.Is(err, gateway.ErrNoToken) {
					return errors.New("not authenticated; run 'apctl auth login' first")
				}
				if gateway.IsUnauthorized(err) {
					// Same cascade as the portal: a rejected token is
					// cleared, not retried.
					_ = sessions.Logout()
					return errors.New("session expired; run 'apctl auth login' again")
				}
				return err
			}

			format, err := output.ParseFormat(rt.OutputFormat())
			if err != nil {
				return err
			}
			view := output.NewProfileView(profile)
			if format == output.FormatTable {
				return output.WriteProfileTable(rt.Writer(), view)
			}
			return output.WriteObject(rt.Writer(), format, view)
		},
	}
}
