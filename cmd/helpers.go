package cmd

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/ziadkadry99/talkboard/internal/api"
	"github.com/ziadkadry99/talkboard/internal/auth"
	"github.com/ziadkadry99/talkboard/internal/config"
	"github.com/ziadkadry99/talkboard/internal/db"
	"github.com/ziadkadry99/talkboard/internal/interceptor"
	"github.com/ziadkadry99/talkboard/internal/kv"
	"github.com/ziadkadry99/talkboard/internal/session"
	"github.com/ziadkadry99/talkboard/internal/talk"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `talkboard init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// terminalNavigator stands in for the browser location. The CLI acts as if it
// were on the message board page, so a rejected session points at the
// login page with a redirect back to it.
type terminalNavigator struct {
	baseURL string
	path    string
}

func (n *terminalNavigator) CurrentPath() string { return n.path }

func (n *terminalNavigator) Navigate(target string) {
	fmt.Fprintf(os.Stderr, "Session expired. Log in again at %s%s\n", n.baseURL, target)
	fmt.Fprintln(os.Stderr, "Run `talkboard login` to start a new session.")
}

// app is the wired client stack shared by the board commands.
type app struct {
	cfg      *config.Config
	db       *db.DB
	sessions *session.Store
	api      *api.Client
	auth     *auth.Client
	talk     *talk.Client
}

// openApp opens local storage and builds the intercepted API clients.
func openApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	database, err := db.Open(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("opening local storage: %w", err)
	}
	sessions := session.NewStore(kv.NewSQLite(database))

	nav := &terminalNavigator{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		path:    "/talk/index.html",
	}
	transport := interceptor.New(http.DefaultTransport, sessions, nav)
	transport.LoginPage = cfg.LoginPage

	apiClient := api.NewClient(cfg.BaseURL, interceptor.NewClient(transport, cfg.Timeout()))
	return &app{
		cfg:      cfg,
		db:       database,
		sessions: sessions,
		api:      apiClient,
		auth:     auth.NewClient(apiClient, sessions),
		talk:     talk.NewClient(apiClient),
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}
