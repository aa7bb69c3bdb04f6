package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Client represents the shared HTTP client all portal backend requests go
// through. It carries the configured backend base address and a mutable set
// of default headers that is applied to every outgoing request.
//
// The default headers are deliberately not protected against concurrent
// writers: a login running concurrently with other requests is
// last-write-wins, matching the session store semantics. Callers that need
// isolation construct separate clients.
type Client struct {
	http          *http.Client
	baseAddress   string
	defaultHeader http.Header
}

// New creates a new portal backend client using the given http.Client.
// Passing nil makes it fall back to http.DefaultClient.
func New(httpClient *http.Client, baseAddress string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		http:          httpClient,
		baseAddress:   strings.TrimSuffix(baseAddress, "/"),
		defaultHeader: http.Header{},
	}
}

// BaseAddress returns the configured backend base address
func (client *Client) BaseAddress() string {
	return client.baseAddress
}

// SetDefaultHeader sets a header that is sent with every subsequent request.
// Setting an empty value removes the header again.
func (client *Client) SetDefaultHeader(key, value string) {
	if value == "" {
		client.defaultHeader.Del(key)
		return
	}
	client.defaultHeader.Set(key, value)
}

// DefaultHeader returns the current value of a default header
func (client *Client) DefaultHeader(key string) string {
	return client.defaultHeader.Get(key)
}

// PostJSON sends a POST request with a JSON body to the given backend path
// and decodes the JSON response into target (unless target is nil).
// It returns the raw response to let callers inspect response headers.
func (client *Client) PostJSON(ctx context.Context, path string, body, target any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, client.baseAddress+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return client.do(req, target)
}

// GetJSON sends a GET request to the given backend path and decodes the JSON
// response into target (unless target is nil)
func (client *Client) GetJSON(ctx context.Context, path string, target any) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, client.baseAddress+path, http.NoBody)
	if err != nil {
		return nil, err
	}
	return client.do(req, target)
}

func (client *Client) do(req *http.Request, target any) (*http.Response, error) {
	for key, values := range client.defaultHeader {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := client.http.Do(req)
	if err != nil {
		// No response was received at all; status 0 marks the backend as
		// unreachable, as opposed to a server-side rejection.
		return nil, &ServerError{
			Status:  0,
			Message: err.Error(),
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ServerError{
			Status:  resp.StatusCode,
			Message: err.Error(),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := resp.Status
		if len(body) > 0 {
			message = fmt.Sprintf("%s: %s", resp.Status, strings.TrimSpace(string(body)))
		}
		return resp, &ServerError{
			Status:  resp.StatusCode,
			Message: message,
		}
	}

	if target != nil && len(body) > 0 {
		if err := json.Unmarshal(body, target); err != nil {
			return resp, &ServerError{
				Status:  resp.StatusCode,
				Message: fmt.Sprintf("could not decode response body: %s", err),
			}
		}
	}
	return resp, nil
}
