package user

import (
	"context"

	"github.com/skybi/portal-client/internal/client"
)

// User represents a portal user account as returned by the backend
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Restricted  bool   `json:"restricted"`
	Admin       bool   `json:"admin"`
}

// FetchSelf retrieves the user account the current session belongs to
// using the backend's 'GET /users/self' endpoint
func FetchSelf(ctx context.Context, backend *client.Client) (*User, error) {
	obj := new(User)
	if _, err := backend.GetJSON(ctx, "/users/self", obj); err != nil {
		return nil, err
	}
	return obj, nil
}
