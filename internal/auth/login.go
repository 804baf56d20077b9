package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/ziadkadry99/talkboard/internal/api"
	"github.com/ziadkadry99/talkboard/internal/session"
)

type loginData struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	SessionID string `json:"session_id"`
}

// LoginWithPassword logs in with email and password and caches the session.
func (c *Client) LoginWithPassword(ctx context.Context, email, password string) (Status, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return Status{}, fmt.Errorf("email and password are required")
	}
	return c.login(ctx, PathLoginPassword, map[string]string{
		"email":    email,
		"password": password,
	})
}

// SendLoginCode asks the board to mail a one-time login code.
func (c *Client) SendLoginCode(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}
	resp, err := c.api.Post(ctx, PathLoginSendCode, map[string]string{"email": email}, nil)
	if err != nil {
		return fmt.Errorf("sending login code: %w", err)
	}
	if _, err := api.DecodeEnvelope(resp, nil); err != nil {
		return fmt.Errorf("sending login code: %w", err)
	}
	return nil
}

// LoginWithCode logs in with a mailed code and caches the session.
func (c *Client) LoginWithCode(ctx context.Context, email, code string) (Status, error) {
	email = strings.TrimSpace(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return Status{}, fmt.Errorf("email and code are required")
	}
	return c.login(ctx, PathLoginCode, map[string]string{
		"email": email,
		"code":  code,
	})
}

func (c *Client) login(ctx context.Context, path string, body any) (Status, error) {
	resp, err := c.api.Post(ctx, path, body, nil)
	if err != nil {
		return Status{}, fmt.Errorf("logging in: %w", err)
	}

	var data loginData
	if _, err := api.DecodeEnvelope(resp, &data); err != nil {
		return Status{}, fmt.Errorf("logging in: %w", err)
	}
	if data.SessionID == "" {
		return Status{}, fmt.Errorf("logging in: board returned no session id")
	}

	user := session.User{Username: data.Username, Email: data.Email}
	c.sessions.Save(ctx, data.SessionID, &user)
	return Status{IsLogin: true, User: user}, nil
}
