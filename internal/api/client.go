// Package api talks to the message board's JSON API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// CodeOK is the envelope code the board returns on success.
const CodeOK = 200

// Envelope is the board's standard response body.
type Envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Error is returned when the board answers with a non-success envelope.
type Error struct {
	Code int
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("board api: code %d", e.Code)
	}
	return fmt.Sprintf("board api: code %d: %s", e.Code, e.Msg)
}

// Client sends requests to the board. The http.Client it wraps usually
// carries the interceptor transport.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for the board at baseURL.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// BaseURL returns the base URL of the board.
func (c *Client) BaseURL() string { return c.baseURL }


// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, header http.Header) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	copyHeader(req.Header, header)
	return c.http.Do(req)
}

// Post performs a POST request with a JSON body. A nil body sends no payload
// but still declares JSON.
func (c *Client) Post(ctx context.Context, path string, body any, header http.Header) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	copyHeader(req.Header, header)
	return c.http.Do(req)
}

func copyHeader(dst, src http.Header) {
	for k, vs := range src {
		for _, v := range vs {
			dst.Add(k, v)
		}
	}
}

// Decode reads a JSON response body into target and closes it.
func Decode(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

// DecodeBody reads a JSON response body into target whatever the status
// code, and closes it. Boards answer some failures with an error envelope
// on a non-2xx status.
func DecodeBody(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("parse response (status %d): %w", resp.StatusCode, err)
	}
	return nil
}

// DecodeEnvelope reads an Envelope and returns *Error unless its code is
// CodeOK. When data is non-nil the envelope's data is decoded into it.
func DecodeEnvelope(resp *http.Response, data any) (*Envelope, error) {
	var env Envelope
	if err := Decode(resp, &env); err != nil {
		return nil, err
	}
	if env.Code != CodeOK {
		return &env, &Error{Code: env.Code, Msg: env.Msg}
	}
	if data != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, data); err != nil {
			return &env, fmt.Errorf("parse response data: %w", err)
		}
	}
	return &env, nil
}
