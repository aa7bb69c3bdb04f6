package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/skybi/portal-client/internal/client"
	"github.com/skybi/portal-client/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingStore implements session.Store and records every key that was written
type recordingStore struct {
	values      map[string]string
	writtenKeys []string
}

func newRecordingStore() *recordingStore {
	return &recordingStore{values: map[string]string{}}
}

func (store *recordingStore) Get(_ context.Context, key string) (string, error) {
	return store.values[key], nil
}

func (store *recordingStore) Set(_ context.Context, key, value string) error {
	store.values[key] = value
	store.writtenKeys = append(store.writtenKeys, key)
	return nil
}

func (store *recordingStore) Delete(_ context.Context, key string) error {
	delete(store.values, key)
	return nil
}

func (store *recordingStore) Close() {}

func newTestService(t *testing.T, handler http.Handler) (*Service, *recordingStore, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := newRecordingStore()
	service := &Service{
		Client:   client.New(server.Client(), server.URL),
		Sessions: store,
		Provider: "oidc",
	}
	return service, store, server
}

func TestValidateSSOCode(t *testing.T) {
	var receivedPath, receivedContentType string
	var receivedBody map[string]string

	service, store, _ := newTestService(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		receivedPath = request.URL.Path
		receivedContentType = request.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(request.Body).Decode(&receivedBody))

		http.SetCookie(writer, &http.Cookie{Name: "sid", Value: "xyz"})
		writer.Header().Set("Content-Type", "application/json")
		writer.Write([]byte(`{"key": "abc123"}`))
	}))

	before := time.Now()
	ses, err := service.ValidateSSOCode(context.Background(), "code-1")
	require.NoError(t, err)

	assert.Equal(t, "/auth/oidc", receivedPath)
	assert.Equal(t, "application/json", receivedContentType)
	assert.Equal(t, map[string]string{"code": "code-1"}, receivedBody)

	assert.Equal(t, "abc123", ses.Token)
	assert.WithinDuration(t, before.Add(24*time.Hour), ses.ExpiresAt, 5*time.Second)

	assert.Equal(t, "abc123", store.values[session.KeyToken])
	assert.Equal(t, []string{session.KeyToken}, store.writtenKeys)
}

func TestValidateSSOCode_CookiePropagation(t *testing.T) {
	var cookieOnSecondRequest string

	service, _, _ := newTestService(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case "/auth/oidc":
			http.SetCookie(writer, &http.Cookie{Name: "sid", Value: "xyz", Path: "/", HttpOnly: true})
			writer.Write([]byte(`{"key": "abc123"}`))
		default:
			cookieOnSecondRequest = request.Header.Get("Cookie")
			writer.Write([]byte(`{}`))
		}
	}))

	_, err := service.ValidateSSOCode(context.Background(), "code-1")
	require.NoError(t, err)
	assert.Equal(t, "sid=xyz", service.Client.DefaultHeader("Cookie"))

	_, err = service.Client.GetJSON(context.Background(), "/users/self", nil)
	require.NoError(t, err)
	assert.Equal(t, "sid=xyz", cookieOnSecondRequest)
}

func TestValidateSSOCode_Rejected(t *testing.T) {
	service, store, _ := newTestService(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(http.StatusBadRequest)
		writer.Write([]byte(`{"error": "invalid code"}`))
	}))

	ses, err := service.ValidateSSOCode(context.Background(), "bad-code")
	assert.Nil(t, ses)

	var serverErr *client.ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, http.StatusBadRequest, serverErr.Status)
	assert.Contains(t, serverErr.Message, `{"error": "invalid code"}`)

	assert.Empty(t, store.writtenKeys)
}

func TestValidateSSOCode_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	service := &Service{
		Client:   client.New(nil, server.URL),
		Sessions: newRecordingStore(),
		Provider: "oidc",
	}

	ses, err := service.ValidateSSOCode(context.Background(), "code-1")
	assert.Nil(t, ses)

	var serverErr *client.ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, 0, serverErr.Status)
	assert.True(t, client.IsUnreachable(err))
}

func TestValidateSSOCode_LastWriteWins(t *testing.T) {
	service, store, _ := newTestService(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(request.Body).Decode(&body))
		writer.Write([]byte(`{"key": "token-for-` + body["code"] + `"}`))
	}))

	_, err := service.ValidateSSOCode(context.Background(), "first")
	require.NoError(t, err)
	_, err = service.ValidateSSOCode(context.Background(), "second")
	require.NoError(t, err)

	assert.Equal(t, "token-for-second", store.values[session.KeyToken])
	assert.Equal(t, []string{session.KeyToken, session.KeyToken}, store.writtenKeys)
}

func TestValidateSSOCode_EmptyCode(t *testing.T) {
	requested := false
	service, store, _ := newTestService(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		requested = true
	}))

	ses, err := service.ValidateSSOCode(context.Background(), "")
	assert.Nil(t, ses)
	assert.ErrorIs(t, err, errEmptyAccessCode)
	assert.False(t, requested)
	assert.Empty(t, store.writtenKeys)
}

func TestCurrent(t *testing.T) {
	service, store, _ := newTestService(t, http.NotFoundHandler())

	ses, err := service.Current(context.Background())
	require.NoError(t, err)
	assert.Nil(t, ses)

	store.values[session.KeyToken] = "abc123"
	ses, err = service.Current(context.Background())
	require.NoError(t, err)
	require.NotNil(t, ses)
	assert.Equal(t, "abc123", ses.Token)
	assert.True(t, ses.ExpiresAt.IsZero())
}

func TestLogout(t *testing.T) {
	var logoutCalled bool
	service, store, _ := newTestService(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path == "/auth/logout" {
			logoutCalled = true
		}
		writer.Write([]byte(`{"key": "abc123"}`))
	}))

	_, err := service.ValidateSSOCode(context.Background(), "code-1")
	require.NoError(t, err)
	require.NotEmpty(t, service.Client.DefaultHeader("Authorization"))

	require.NoError(t, service.Logout(context.Background()))
	assert.True(t, logoutCalled)
	assert.Empty(t, store.values[session.KeyToken])
	assert.Empty(t, service.Client.DefaultHeader("Authorization"))
	assert.Empty(t, service.Client.DefaultHeader("Cookie"))
}

func TestLogout_BackendUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	store := newRecordingStore()
	store.values[session.KeyToken] = "abc123"
	service := &Service{
		Client:   client.New(nil, server.URL),
		Sessions: store,
		Provider: "oidc",
	}

	// The local session state is cleared even though the backend is gone
	require.NoError(t, service.Logout(context.Background()))
	assert.Empty(t, store.values[session.KeyToken])
}
