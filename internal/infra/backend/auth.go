package backend

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/tunebox/tunebox/internal/domain/user"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
}

// Login authenticates with the backend. On success the session cookie is
// captured by the client's jar and the authenticated user is returned.
func (c *Client) Login(ctx context.Context, username, password string) (*user.User, error) {
	var w wireUser
	body := credentials{Username: username, Password: password}
	if err := c.post(ctx, "/api/auth/login", body, &w); err != nil {
		return nil, errors.Wrap(err, "login failed")
	}
	return w.toDomain(), nil
}

// Register creates a new account and signs it in. Email is optional.
func (c *Client) Register(ctx context.Context, username, password, email string) (*user.User, error) {
	var w wireUser
	body := credentials{Username: username, Password: password, Email: email}
	if err := c.post(ctx, "/api/auth/register", body, &w); err != nil {
		return nil, errors.Wrap(err, "registration failed")
	}
	return w.toDomain(), nil
}

// Logout invalidates the server-side session.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.post(ctx, "/api/auth/logout", nil, nil); err != nil {
		return errors.Wrap(err, "logout failed")
	}
	return nil
}

// Me probes the current session cookie and returns the signed-in user.
// Returns a 401 APIError when there is no valid session.
func (c *Client) Me(ctx context.Context) (*user.User, error) {
	var w wireUser
	if err := c.get(ctx, "/api/auth/me", &w); err != nil {
		return nil, err
	}
	return w.toDomain(), nil
}
