package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/ziadkadry99/talkboard/internal/api"
	"github.com/ziadkadry99/talkboard/internal/boardtest"
	"github.com/ziadkadry99/talkboard/internal/interceptor"
	"github.com/ziadkadry99/talkboard/internal/kv"
	"github.com/ziadkadry99/talkboard/internal/session"
)

type stubNavigator struct{ targets []string }

func (n *stubNavigator) CurrentPath() string    { return "/talk/index.html" }
func (n *stubNavigator) Navigate(target string) { n.targets = append(n.targets, target) }

func setupClient(t *testing.T) (*Client, *session.Store, *boardtest.Server) {
	t.Helper()
	srv := boardtest.New()
	t.Cleanup(srv.Close)
	srv.Board.AddUser("alice@example.com", "alice", "secret1")

	sessions := session.NewStore(kv.NewMemory())
	tr := interceptor.New(http.DefaultTransport, sessions, &stubNavigator{})
	httpClient := interceptor.NewClient(tr, 5*time.Second)
	return NewClient(api.NewClient(srv.URL, httpClient), sessions), sessions, srv
}

func TestLoginWithPasswordCachesSession(t *testing.T) {
	client, sessions, _ := setupClient(t)
	ctx := context.Background()

	st, err := client.LoginWithPassword(ctx, "alice@example.com", "secret1")
	if err != nil {
		t.Fatalf("LoginWithPassword: %v", err)
	}
	if !st.IsLogin || st.User.Username != "alice" {
		t.Errorf("status = %+v, want logged in as alice", st)
	}
	if sessions.SessionID(ctx) == "" {
		t.Error("expected session id cached")
	}
	if u := sessions.User(ctx); u == nil || u.Email != "alice@example.com" {
		t.Errorf("cached user = %+v, want alice@example.com", u)
	}
}

func TestLoginWithWrongPassword(t *testing.T) {
	client, sessions, _ := setupClient(t)
	ctx := context.Background()

	_, err := client.LoginWithPassword(ctx, "alice@example.com", "nope")
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *api.Error, got %v", err)
	}
	if apiErr.Code != 400 {
		t.Errorf("Code = %d, want 400", apiErr.Code)
	}
	if sessions.SessionID(ctx) != "" {
		t.Error("no session should be cached after a failed login")
	}
}

func TestLoginWithCode(t *testing.T) {
	client, sessions, srv := setupClient(t)
	ctx := context.Background()

	if err := client.SendLoginCode(ctx, "alice@example.com"); err != nil {
		t.Fatalf("SendLoginCode: %v", err)
	}
	code := srv.Board.Code("alice@example.com")
	if code == "" {
		t.Fatal("board issued no code")
	}

	st, err := client.LoginWithCode(ctx, "alice@example.com", code)
	if err != nil {
		t.Fatalf("LoginWithCode: %v", err)
	}
	if !st.IsLogin {
		t.Error("expected logged in")
	}
	if sessions.SessionID(ctx) == "" {
		t.Error("expected session id cached")
	}
}

func TestSendLoginCodeUnknownEmail(t *testing.T) {
	client, _, _ := setupClient(t)
	if err := client.SendLoginCode(context.Background(), "bob@example.com"); err == nil {
		t.Fatal("expected error for unregistered email")
	}
}

func TestCheckLoginStatusRemote(t *testing.T) {
	client, _, _ := setupClient(t)
	ctx := context.Background()

	if st := client.CheckLoginStatus(ctx); st.IsLogin {
		t.Errorf("status before login = %+v, want logged out", st)
	}

	if _, err := client.LoginWithPassword(ctx, "alice@example.com", "secret1"); err != nil {
		t.Fatalf("LoginWithPassword: %v", err)
	}
	st := client.CheckLoginStatus(ctx)
	if !st.IsLogin || st.User.Username != "alice" {
		t.Errorf("status = %+v, want logged in as alice", st)
	}
}

func TestCheckLoginStatusCachedUserOverridesLoggedOut(t *testing.T) {
	client, sessions, srv := setupClient(t)
	ctx := context.Background()

	if _, err := client.LoginWithPassword(ctx, "alice@example.com", "secret1"); err != nil {
		t.Fatalf("LoginWithPassword: %v", err)
	}
	srv.Board.Revoke(sessions.SessionID(ctx))

	st := client.CheckLoginStatus(ctx)
	if !st.IsLogin {
		t.Fatal("expected cached user to keep the login")
	}
	if st.User.Username != "alice" {
		t.Errorf("Username = %q, want %q", st.User.Username, "alice")
	}
}

func TestCheckLoginStatusFallsBackOnServerError(t *testing.T) {
	client, sessions, srv := setupClient(t)
	ctx := context.Background()
	srv.Board.CheckLoginStatus = http.StatusInternalServerError

	if st := client.CheckLoginStatus(ctx); st.IsLogin {
		t.Errorf("status = %+v, want logged out without a cache", st)
	}

	sessions.Save(ctx, "cached", &session.User{Username: "carol"})
	st := client.CheckLoginStatus(ctx)
	if !st.IsLogin || st.User.Username != "carol" {
		t.Errorf("status = %+v, want cached carol", st)
	}
}

func TestCheckLoginStatusFallsBackOnNetworkError(t *testing.T) {
	client, sessions, srv := setupClient(t)
	ctx := context.Background()
	sessions.Save(ctx, "cached", &session.User{Username: "carol"})
	srv.Close()

	st := client.CheckLoginStatus(ctx)
	if !st.IsLogin || st.User.Username != "carol" {
		t.Errorf("status = %+v, want cached carol", st)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	client, sessions, srv := setupClient(t)
	ctx := context.Background()

	if _, err := client.LoginWithPassword(ctx, "alice@example.com", "secret1"); err != nil {
		t.Fatalf("LoginWithPassword: %v", err)
	}

	res := client.Logout(ctx)
	if !res.Success {
		t.Error("expected Success")
	}
	if res.Message != "logged out" {
		t.Errorf("Message = %q, want %q", res.Message, "logged out")
	}
	if sessions.SessionID(ctx) != "" || sessions.User(ctx) != nil {
		t.Error("expected local session cleared")
	}
	if srv.Board.SessionCount() != 0 {
		t.Errorf("server sessions = %d, want 0", srv.Board.SessionCount())
	}
}

func TestLogoutClearsSessionOnNetworkFailure(t *testing.T) {
	client, sessions, srv := setupClient(t)
	ctx := context.Background()
	sessions.Save(ctx, "abc", &session.User{Username: "alice"})
	srv.Close()

	res := client.Logout(ctx)
	if !res.Success {
		t.Error("expected Success even when the board is down")
	}
	if res.Message != "local login state cleared" {
		t.Errorf("Message = %q, want %q", res.Message, "local login state cleared")
	}
	if sessions.SessionID(ctx) != "" || sessions.User(ctx) != nil {
		t.Error("expected local session cleared")
	}
}

func TestLogoutWithUnknownSessionStillClears(t *testing.T) {
	client, sessions, _ := setupClient(t)
	ctx := context.Background()
	sessions.Save(ctx, "stale", &session.User{Username: "alice"})

	res := client.Logout(ctx)
	if !res.Success {
		t.Error("expected Success")
	}
	if sessions.SessionID(ctx) != "" {
		t.Error("expected local session cleared")
	}
}

func TestLogoutReportsErrorStatusMessage(t *testing.T) {
	client, sessions, srv := setupClient(t)
	ctx := context.Background()
	if _, err := client.LoginWithPassword(ctx, "alice@example.com", "secret1"); err != nil {
		t.Fatalf("LoginWithPassword: %v", err)
	}
	srv.Board.FailLogout(http.StatusInternalServerError)

	res := client.Logout(ctx)
	if !res.Success {
		t.Error("expected Success")
	}
	if res.Message != "server error" {
		t.Errorf("Message = %q, want %q", res.Message, "server error")
	}
	if sessions.SessionID(ctx) != "" || sessions.User(ctx) != nil {
		t.Error("expected local session cleared")
	}
}
