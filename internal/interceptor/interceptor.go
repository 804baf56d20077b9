// Package interceptor provides the HTTP middleware every board call goes
// through: auth headers on protected routes and the 401 login redirect.
package interceptor

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// AuthScheme prefixes the session id in the Authorization header.
	AuthScheme = "Session"
	// SessionCookie is the cookie the board reads the session id from.
	SessionCookie = "session_id"
	// RequestIDHeader tags each outbound request for log correlation.
	RequestIDHeader = "X-Request-ID"
	// DefaultLoginPage is where unauthorized users are sent.
	DefaultLoginPage = "/login/index.html"
)

// DefaultProtectedPaths lists the routes that need the session attached.
var DefaultProtectedPaths = []string{
	"/api/talk/add",
	"/api/talk/delete",
	"/api/logout",
}

// Sessions is the part of the session cache the transport needs.
type Sessions interface {
	SessionID(ctx context.Context) string
	Clear(ctx context.Context)
}

// Navigator exposes the current location and moves it.
type Navigator interface {
	CurrentPath() string
	Navigate(target string)
}

// Transport is an http.RoundTripper that decorates requests to protected
// paths and reacts to 401 responses. It never swallows a response.
type Transport struct {
	Base           http.RoundTripper
	Sessions       Sessions
	Navigator      Navigator
	LoginPage      string
	ProtectedPaths []string
}

// New returns a Transport with the default protected paths and login page.
func New(base http.RoundTripper, sessions Sessions, nav Navigator) *Transport {
	return &Transport{
		Base:           base,
		Sessions:       sessions,
		Navigator:      nav,
		LoginPage:      DefaultLoginPage,
		ProtectedPaths: DefaultProtectedPaths,
	}
}

// NewClient wraps t in an http.Client with a cookie jar and timeout.
func NewClient(t *Transport, timeout time.Duration) *http.Client {
	jar, _ := cookiejar.New(nil)
	return &http.Client{
		Transport: t,
		Jar:       jar,
		Timeout:   timeout,
	}
}

// IsProtected reports whether rawURL targets a protected path.
func (t *Transport) IsProtected(rawURL string) bool {
	for _, p := range t.ProtectedPaths {
		if strings.Contains(rawURL, p) {
			return true
		}
	}
	return false
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	req = req.Clone(ctx)

	reqID := req.Header.Get(RequestIDHeader)
	if reqID == "" {
		reqID = uuid.New().String()
		req.Header.Set(RequestIDHeader, reqID)
	}

	if t.IsProtected(req.URL.String()) {
		t.attachCredentials(req)
	}

	resp, err := t.base().RoundTrip(req)
	if err != nil {
		log.Printf("interceptor: request failed id=%s url=%s: %v", reqID, req.URL.Redacted(), err)
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		t.handleUnauthorized(ctx, reqID, resp)
	}
	return resp, nil
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *Transport) attachCredentials(req *http.Request) {
	if t.Sessions == nil {
		return
	}
	id := t.Sessions.SessionID(req.Context())
	if id == "" {
		return
	}
	req.Header.Set("Authorization", AuthScheme+" "+id)
	if _, err := req.Cookie(SessionCookie); err != nil {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: id})
	}
}

// unauthorizedBody is the optional body the board sends with a 401.
type unauthorizedBody struct {
	NeedLogin bool `json:"need_login"`
	Code      int  `json:"code"`
}

func (t *Transport) handleUnauthorized(ctx context.Context, reqID string, resp *http.Response) {
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(data))
	if err != nil {
		log.Printf("interceptor: reading 401 body id=%s: %v", reqID, err)
		return
	}

	var body unauthorizedBody
	if err := json.Unmarshal(data, &body); err != nil {
		return
	}
	if !body.NeedLogin && body.Code != http.StatusUnauthorized {
		return
	}

	if t.Sessions != nil {
		t.Sessions.Clear(ctx)
	}
	if t.Navigator == nil {
		return
	}

	current := t.Navigator.CurrentPath()
	if strings.Contains(current, "/login/") {
		return
	}
	target := LoginURL(t.loginPage(), current)
	log.Printf("interceptor: login required id=%s redirect=%s", reqID, target)
	t.Navigator.Navigate(target)
}

func (t *Transport) loginPage() string {
	if t.LoginPage != "" {
		return t.LoginPage
	}
	return DefaultLoginPage
}

// LoginURL builds the login page URL that returns to currentPath.
func LoginURL(loginPage, currentPath string) string {
	return loginPage + "?redirect=" + escapeComponent(currentPath)
}

// componentUnescaper undoes the url.QueryEscape encodings that
// encodeURIComponent does not apply.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// escapeComponent escapes s the way a browser's encodeURIComponent does:
// spaces become %20 and !'()* stay literal.
func escapeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}
