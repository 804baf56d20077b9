// Package auth checks and changes the login state against the board API,
// keeping the local session cache in step.
package auth

import (
	"context"
	"log"
	"net/http"

	"github.com/ziadkadry99/talkboard/internal/api"
	"github.com/ziadkadry99/talkboard/internal/interceptor"
	"github.com/ziadkadry99/talkboard/internal/session"
)

// Board API routes used by the client.
const (
	PathCheckLogin    = "/api/check-login"
	PathLogout        = "/api/logout"
	PathLoginPassword = "/api/login/password"
	PathLoginSendCode = "/api/login/send-code"
	PathLoginCode     = "/api/login/code"
	PathRegister      = "/api/register"
	PathRegisterCode  = "/api/register/send-code"
)

// Status is the derived login state.
type Status struct {
	IsLogin bool         `json:"isLogin"`
	User    session.User `json:"user"`
}

// LogoutResult reports the outcome of Logout. Success is always true.
type LogoutResult struct {
	Success bool
	Message string
}

// Client is the auth client. Build one per page session with NewClient.
type Client struct {
	api      *api.Client
	sessions *session.Store
}

// NewClient creates an auth client.
func NewClient(apiClient *api.Client, sessions *session.Store) *Client {
	return &Client{api: apiClient, sessions: sessions}
}

func (c *Client) authHeader(ctx context.Context) http.Header {
	h := http.Header{}
	if id := c.sessions.SessionID(ctx); id != "" {
		h.Set("Authorization", interceptor.AuthScheme+" "+id)
	}
	return h
}

// CheckLoginStatus asks the board whether the cached session is valid.
//
// A cached user wins whenever the board is unreachable, errors, or reports
// the user as logged out. A session revoked on the server therefore still
// reads as logged in here until a protected call comes back 401.
func (c *Client) CheckLoginStatus(ctx context.Context) Status {
	resp, err := c.api.Post(ctx, PathCheckLogin, nil, c.authHeader(ctx))
	if err != nil {
		log.Printf("auth: check login failed: %v", err)
		return c.cachedStatus(ctx)
	}

	var remote struct {
		IsLogin bool          `json:"isLogin"`
		User    *session.User `json:"user"`
	}
	if err := api.Decode(resp, &remote); err != nil {
		log.Printf("auth: check login: %v", err)
		return c.cachedStatus(ctx)
	}

	if !remote.IsLogin {
		if u := c.sessions.User(ctx); u != nil {
			log.Printf("auth: board reports logged out, using cached user %q", u.Username)
			return Status{IsLogin: true, User: *u}
		}
	}

	st := Status{IsLogin: remote.IsLogin}
	if remote.User != nil {
		st.User = *remote.User
	}
	return st
}

func (c *Client) cachedStatus(ctx context.Context) Status {
	if u := c.sessions.User(ctx); u != nil {
		return Status{IsLogin: true, User: *u}
	}
	return Status{}
}

// Logout ends the session on the board and always clears the local cache,
// whatever the board answers.
func (c *Client) Logout(ctx context.Context) LogoutResult {
	resp, err := c.api.Post(ctx, PathLogout, nil, c.authHeader(ctx))
	if err != nil {
		log.Printf("auth: logout failed: %v", err)
		c.sessions.Clear(ctx)
		return LogoutResult{Success: true, Message: "local login state cleared"}
	}

	var env api.Envelope
	decodeErr := api.DecodeBody(resp, &env)
	c.sessions.Clear(ctx)
	if decodeErr != nil {
		log.Printf("auth: logout: %v", decodeErr)
		return LogoutResult{Success: true, Message: "local login state cleared"}
	}

	msg := env.Msg
	if msg == "" {
		msg = "logged out"
	}
	return LogoutResult{Success: true, Message: msg}
}
