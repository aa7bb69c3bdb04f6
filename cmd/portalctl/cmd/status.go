package cmd

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/skybi/portal-client/internal/client"
	"github.com/skybi/portal-client/internal/user"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session and account",
	RunE: func(cmd *cobra.Command, args []string) error {
		ses, err := authSvc.Current(cmd.Context())
		if err != nil {
			return err
		}
		if ses == nil {
			color.New(color.FgYellow).Fprintln(cmd.OutOrStdout(), "Not logged in.")
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Backend: %s\n", backend.BaseAddress())

		obj, err := user.FetchSelf(cmd.Context(), backend)
		if err != nil {
			var serverErr *client.ServerError
			if errors.As(err, &serverErr) && serverErr.Status == http.StatusUnauthorized {
				color.New(color.FgYellow).Fprintln(cmd.OutOrStdout(), "The stored session is no longer accepted by the backend.")
				return nil
			}
			return err
		}

		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", obj.DisplayName, obj.ID)
		if obj.Admin {
			fmt.Fprintln(cmd.OutOrStdout(), "The account has administrative privileges.")
		}
		if obj.Restricted {
			color.New(color.FgRed).Fprintln(cmd.OutOrStdout(), "The account is restricted.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
