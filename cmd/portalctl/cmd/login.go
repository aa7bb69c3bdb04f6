package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/skybi/portal-client/internal/auth"
	"github.com/skybi/portal-client/internal/session"
)

var loginAccessCode string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the portal backend via SSO",
	Long: `Log in to the portal backend via SSO.

Without flags, the browser-based login flow is started: the authorize URL of
the configured OIDC provider is printed, a local listener waits for the
provider to redirect the browser back and the received access code is
exchanged at the backend.

With --code, a pre-obtained SSO access code is exchanged directly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var ses *session.Session
		var err error

		if loginAccessCode != "" {
			ses, err = authSvc.ValidateSSOCode(cmd.Context(), loginAccessCode)
		} else {
			flow := &auth.Flow{
				Service:               authSvc,
				OIDCProviderURL:       cfg.OIDCProviderURL,
				OIDCClientID:          cfg.OIDCClientID,
				CallbackListenAddress: cfg.CallbackListenAddress,
				CallbackURL:           cfg.CallbackURL(),
			}
			ses, err = flow.Run(cmd.Context(), func(url string) {
				fmt.Fprintln(cmd.OutOrStdout(), "Open the following URL in your browser to log in:")
				fmt.Fprintln(cmd.OutOrStdout(), color.CyanString(url))
			})
		}
		if err != nil {
			return err
		}

		color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "Login successful.")
		fmt.Fprintf(cmd.OutOrStdout(), "The session is valid until approximately %s.\n", ses.ExpiresAt.Format("2006-01-02 15:04:05"))
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginAccessCode, "code", "", "pre-obtained SSO access code to exchange directly")
	rootCmd.AddCommand(loginCmd)
}
