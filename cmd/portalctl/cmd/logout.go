package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Terminate the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		ses, err := authSvc.Current(cmd.Context())
		if err != nil {
			return err
		}
		if ses == nil {
			color.New(color.FgYellow).Fprintln(cmd.OutOrStdout(), "No session is stored.")
			return nil
		}

		if err := authSvc.Logout(cmd.Context()); err != nil {
			return err
		}
		color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "Logged out.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
