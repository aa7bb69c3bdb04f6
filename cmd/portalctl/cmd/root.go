// Package cmd contains all CLI commands for portalctl
package cmd

import (
	"context"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/skybi/portal-client/internal/auth"
	"github.com/skybi/portal-client/internal/client"
	"github.com/skybi/portal-client/internal/config"
	"github.com/skybi/portal-client/internal/deviceid"
	"github.com/skybi/portal-client/internal/session"
	"github.com/skybi/portal-client/internal/session/storage/inmem"
	"github.com/skybi/portal-client/internal/session/storage/sqlite"
)

var (
	cfg     *config.Config
	backend *client.Client
	store   session.Store
	authSvc *auth.Service
	version = "dev"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "portalctl",
	Short: "Portal backend session CLI",
	Long: `portalctl manages a local session for the skybi portal backend.

It completes an SSO login against the backend, keeps the issued session
token in a local store and attaches it to subsequent backend requests.

Example usage:
  portalctl login              # Perform the browser-based SSO login flow
  portalctl login --code XYZ   # Exchange a pre-obtained SSO access code
  portalctl status             # Show the current session and account
  portalctl logout             # Terminate the current session`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initServices(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if store != nil {
			store.Close()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
}

func initServices(ctx context.Context) error {
	var err error
	cfg, err = config.LoadFromEnv()
	if err != nil {
		return err
	}
	if cfg.IsEnvProduction() {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// Open the session store; without a configured path the session only
	// lives as long as this invocation
	if cfg.SessionStorePath != "" {
		driver := sqlite.New(cfg.SessionStorePath)
		if err := driver.Initialize(ctx); err != nil {
			return err
		}
		store = driver
	} else {
		log.Debug().Msg("no session store path configured, using an in-memory store")
		store, err = inmem.New()
		if err != nil {
			return err
		}
	}

	backend = client.New(http.DefaultClient, cfg.BackendBaseAddress)

	// Attach the stable device ID of this installation to all requests
	id, err := deviceid.Get(deviceIDPath())
	if err != nil {
		return err
	}
	backend.SetDefaultHeader("X-Device-Id", id)

	// Restore the stored session token, if any
	token, err := store.Get(ctx, session.KeyToken)
	if err != nil {
		return err
	}
	if token != "" {
		backend.SetDefaultHeader("Authorization", "Token "+token)
	}

	authSvc = &auth.Service{
		Client:   backend,
		Sessions: store,
		Provider: cfg.SSOProvider,
	}
	return nil
}

func deviceIDPath() string {
	if cfg.SessionStorePath != "" {
		return filepath.Join(filepath.Dir(cfg.SessionStorePath), "device_id")
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = "."
	}
	return filepath.Join(configDir, "portalctl", "device_id")
}
