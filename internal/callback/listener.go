package callback

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

var completionPage = []byte(`<!DOCTYPE html>
<html>
<head><title>Login complete</title></head>
<body><p>Login complete. You may close this tab and return to the terminal.</p></body>
</html>`)

// Listener represents the local HTTP listener the SSO provider redirects the
// browser back to. It accepts a single access code and hands it over through
// the Codes channel.
type Listener struct {
	server *http.Server

	// ListenAddress is the local address the listener binds to
	ListenAddress string

	// State is the flow state value an incoming redirect has to carry
	State string

	// AllowedOrigin is the origin allowed to call the callback endpoint
	// cross-origin; providers completing the hand-off via a page script need
	// this. An empty value allows any origin.
	AllowedOrigin string

	codes chan string
}

// Startup starts up the callback listener.
// Unexpected server errors are reported through the given channel.
func (listener *Listener) Startup(errs chan<- error) {
	listener.codes = make(chan string, 1)

	allowedOrigin := listener.AllowedOrigin
	if allowedOrigin == "" {
		allowedOrigin = "*"
	}

	router := chi.NewRouter()
	router.Use(middleware.RedirectSlashes)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{allowedOrigin},
		AllowedMethods: []string{http.MethodHead, http.MethodGet},
	}))
	router.Get("/callback", listener.endpointCallback)

	server := &http.Server{
		Addr:    listener.ListenAddress,
		Handler: router,
	}
	listener.server = server
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errs <- err
		}
	}()
}

// Codes returns the channel the received access code is delivered on
func (listener *Listener) Codes() <-chan string {
	return listener.codes
}

// Shutdown shuts down the callback listener
func (listener *Listener) Shutdown() {
	if listener.server != nil {
		listener.server.Close()
		listener.server = nil
	}
}

// endpointCallback handles the 'GET /callback?code={code}&state={state}' endpoint
func (listener *Listener) endpointCallback(writer http.ResponseWriter, request *http.Request) {
	if request.URL.Query().Get("state") != listener.State {
		http.Error(writer, "states do not match", http.StatusBadRequest)
		return
	}

	code := request.URL.Query().Get("code")
	if code == "" {
		http.Error(writer, "no access code present", http.StatusBadRequest)
		return
	}

	// Only the first code is of interest; redelivery attempts are dropped
	select {
	case listener.codes <- code:
	default:
	}

	writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	writer.WriteHeader(http.StatusOK)
	writer.Write(completionPage)
}
