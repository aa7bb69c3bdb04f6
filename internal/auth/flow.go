package auth

import (
	"context"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/skybi/portal-client/internal/callback"
	"github.com/skybi/portal-client/internal/random"
	"github.com/skybi/portal-client/internal/session"
	"golang.org/x/oauth2"
)

var stateLength = 16

// Flow represents the browser-based SSO login flow.
// It discovers the OIDC provider, hands the authorize URL to the caller,
// waits for the provider to redirect the browser back to a local callback
// listener and exchanges the received access code at the portal backend.
type Flow struct {
	Service *Service

	// OIDCProviderURL is the issuer URL used for OIDC provider discovery
	OIDCProviderURL string

	// OIDCClientID is the OAuth2 client ID registered at the OIDC provider
	OIDCClientID string

	// CallbackListenAddress is the local address the redirect listener binds to
	CallbackListenAddress string

	// CallbackURL is the redirect URL registered at the OIDC provider
	CallbackURL string
}

// Run performs the whole login flow.
// The assembled authorize URL is passed to promptURL; opening it in a
// browser is the caller's job. Run blocks until an access code arrives at
// the callback listener, the listener fails or ctx is cancelled.
func (flow *Flow) Run(ctx context.Context, promptURL func(url string)) (*session.Session, error) {
	// Create the OIDC provider
	provider, err := oidc.NewProvider(ctx, flow.OIDCProviderURL)
	if err != nil {
		return nil, err
	}

	// Create the OAuth2 config
	oauth2Config := &oauth2.Config{
		ClientID:    flow.OIDCClientID,
		Endpoint:    provider.Endpoint(),
		RedirectURL: flow.CallbackURL,
		Scopes:      []string{oidc.ScopeOpenID, "profile", "email"},
	}

	// Start up the local callback listener
	state := random.String(stateLength, random.CharsetAlphanumeric)
	listener := &callback.Listener{
		ListenAddress: flow.CallbackListenAddress,
		State:         state,
		AllowedOrigin: flow.OIDCProviderURL,
	}
	errs := make(chan error, 1)
	listener.Startup(errs)
	defer listener.Shutdown()

	promptURL(oauth2Config.AuthCodeURL(state))

	// Wait for the provider to deliver an access code
	select {
	case code := <-listener.Codes():
		return flow.Service.ValidateSSOCode(ctx, code)
	case err := <-errs:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
