package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/skybi/portal-client/internal/client"
	"github.com/skybi/portal-client/internal/session"
)

// sessionLifetimeEstimate is the assumed lifetime of a freshly issued session
// token. The backend does not return an expiry claim, so this is an estimate
// used for display purposes only; the backend remains the authority.
const sessionLifetimeEstimate = 24 * time.Hour

var errEmptyAccessCode = errors.New("access code must not be empty")

// Service represents the authentication service of the portal client
type Service struct {
	Client   *client.Client
	Sessions session.Store

	// Provider is the SSO provider path segment of the backend's validation endpoint
	Provider string
}

type validatePayload struct {
	Code string `json:"code"`
}

type validateResponse struct {
	Key string `json:"key"`
}

// ValidateSSOCode exchanges a one-time SSO access code for a session token
// using the backend's 'POST /auth/{provider}' endpoint.
//
// On success the token is persisted into the session store under the 'token'
// key, any session cookies the backend returned are installed as the shared
// client's default 'Cookie' header and a session with an estimated expiry of
// one day is returned.
//
// A failure is returned as a *client.ServerError: its status holds the HTTP
// status code of the backend's rejection, or zero if no response was
// received at all. No validation besides a non-empty check is performed on
// the access code itself; that is entirely the backend's job.
func (service *Service) ValidateSSOCode(ctx context.Context, accessCode string) (*session.Session, error) {
	if accessCode == "" {
		return nil, errEmptyAccessCode
	}

	payload := &validatePayload{Code: accessCode}
	response := new(validateResponse)
	resp, err := service.Client.PostJSON(ctx, "/auth/"+service.Provider, payload, response)
	if err != nil {
		return nil, err
	}

	// Outside a browser host the HTTP client does not auto-manage cookies,
	// so any session cookies the backend set have to be carried manually on
	// all subsequent requests going through the shared client.
	if cookies := resp.Cookies(); len(cookies) > 0 {
		service.Client.SetDefaultHeader("Cookie", joinCookies(cookies))
	}

	if err := service.Sessions.Set(ctx, session.KeyToken, response.Key); err != nil {
		return nil, err
	}
	service.Client.SetDefaultHeader("Authorization", "Token "+response.Key)

	return &session.Session{
		Token:     response.Key,
		ExpiresAt: time.Now().Add(sessionLifetimeEstimate),
	}, nil
}

// Current returns the session stored by the last successful validation, or
// nil if no session is stored.
// The expiry of a restored session is unknown and left at its zero value.
func (service *Service) Current(ctx context.Context) (*session.Session, error) {
	token, err := service.Sessions.Get(ctx, session.KeyToken)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, nil
	}
	return &session.Session{Token: token}, nil
}

// Logout terminates the current session.
// The backend logout endpoint is called best-effort; the local session state
// is cleared even if the backend cannot be reached.
func (service *Service) Logout(ctx context.Context) error {
	if _, err := service.Client.PostJSON(ctx, "/auth/logout", struct{}{}, nil); err != nil {
		log.Warn().Err(err).Msg("could not terminate the session at the backend")
	}

	if err := service.Sessions.Delete(ctx, session.KeyToken); err != nil {
		return err
	}
	service.Client.SetDefaultHeader("Authorization", "")
	service.Client.SetDefaultHeader("Cookie", "")
	return nil
}

func joinCookies(cookies []*http.Cookie) string {
	pairs := make([]string, 0, len(cookies))
	for _, cookie := range cookies {
		pairs = append(pairs, cookie.Name+"="+cookie.Value)
	}
	return strings.Join(pairs, "; ")
}
