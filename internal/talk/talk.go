// Package talk reads and writes message board posts.
package talk

import (
	"context"
	"fmt"
	"strings"

	"github.com/ziadkadry99/talkboard/internal/api"
)

const (
	PathList   = "/api/talk/list"
	PathAdd    = "/api/talk/add"
	PathDelete = "/api/talk/delete"
)

// Message is one board post.
type Message struct {
	ID            string  `json:"id"`
	Username      string  `json:"username"`
	Content       string  `json:"content"`
	CreateTime    float64 `json:"create_time"`
	CreateTimeStr string  `json:"create_time_str"`
}

// Client is the message board client. Add and Delete are protected routes,
// so the api.Client should carry the interceptor transport.
type Client struct {
	api *api.Client
}

// NewClient creates a message board client.
func NewClient(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

// List returns all posts, newest first.
func (c *Client) List(ctx context.Context) ([]Message, error) {
	resp, err := c.api.Get(ctx, PathList, nil)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	var msgs []Message
	if _, err := api.DecodeEnvelope(resp, &msgs); err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	return msgs, nil
}

// Add posts a message as the logged-in user.
func (c *Client) Add(ctx context.Context, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return fmt.Errorf("message content is empty")
	}
	resp, err := c.api.Post(ctx, PathAdd, map[string]string{"content": content}, nil)
	if err != nil {
		return fmt.Errorf("adding message: %w", err)
	}
	if _, err := api.DecodeEnvelope(resp, nil); err != nil {
		return fmt.Errorf("adding message: %w", err)
	}
	return nil
}

// Delete removes one of the logged-in user's messages.
func (c *Client) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("message id is required")
	}
	resp, err := c.api.Post(ctx, PathDelete, map[string]string{"id": id}, nil)
	if err != nil {
		return fmt.Errorf("deleting message: %w", err)
	}
	if _, err := api.DecodeEnvelope(resp, nil); err != nil {
		return fmt.Errorf("deleting message: %w", err)
	}
	return nil
}
