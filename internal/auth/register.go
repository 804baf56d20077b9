package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/ziadkadry99/talkboard/internal/api"
)

// SendRegisterCode asks the board to mail a registration code. An email
// that is already registered comes back as *api.Error.
func (c *Client) SendRegisterCode(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}
	resp, err := c.api.Post(ctx, PathRegisterCode, map[string]string{"email": email}, nil)
	if err != nil {
		return fmt.Errorf("sending registration code: %w", err)
	}
	if _, err := api.DecodeEnvelope(resp, nil); err != nil {
		return fmt.Errorf("sending registration code: %w", err)
	}
	return nil
}

// Register creates an account. It does not log in: the board expects a
// separate login afterwards, so no session is cached.
func (c *Client) Register(ctx context.Context, email, username, password, code string) error {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)
	code = strings.TrimSpace(code)
	if email == "" || username == "" || password == "" || code == "" {
		return fmt.Errorf("email, username, password and code are required")
	}

	resp, err := c.api.Post(ctx, PathRegister, map[string]string{
		"email":    email,
		"username": username,
		"password": password,
		"code":     code,
	}, nil)
	if err != nil {
		return fmt.Errorf("registering: %w", err)
	}
	if _, err := api.DecodeEnvelope(resp, nil); err != nil {
		return fmt.Errorf("registering: %w", err)
	}
	return nil
}
