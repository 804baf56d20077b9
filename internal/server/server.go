// Package server serves a static site locally, running each HTML page
// through the client-side behaviours before it is sent.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ziadkadry99/talkboard/internal/preview"
	"github.com/ziadkadry99/talkboard/internal/render"
)

// Config holds server configuration.
type Config struct {
	Port     int
	SiteDir  string         // site root served at /
	Render   render.Options // Path, Preview and Checker are set per request
	AllowAll bool           // allow all CORS origins (dev mode)

	// ImageBase is where the site's images are loaded from. When set, preview
	// images are checked against it, resolved relative to each page.
	ImageBase   *url.URL
	ImageClient *http.Client
}

// Server is the local site preview server.
type Server struct {
	cfg        Config
	router     chi.Router
	httpServer *http.Server
}

// New creates a preview server for cfg.SiteDir.
func New(cfg Config) *Server {
	s := &Server{cfg: cfg}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/*", s.handleSite)
	r.Head("/*", s.handleSite)

	return r
}

// handleSite renders HTML pages and serves every other file as is. A
// ?preview=N query clicks the Nth .travel-image of the page.
func (s *Server) handleSite(w http.ResponseWriter, r *http.Request) {
	urlPath := path.Clean("/" + r.URL.Path)
	file := filepath.Join(s.cfg.SiteDir, filepath.FromSlash(urlPath))

	info, err := os.Stat(file)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if info.IsDir() {
		file = filepath.Join(file, "index.html")
		if !strings.HasSuffix(urlPath, "/") {
			urlPath += "/"
		}
		if _, err := os.Stat(file); err != nil {
			http.NotFound(w, r)
			return
		}
	}

	if !strings.EqualFold(filepath.Ext(file), ".html") {
		http.ServeFile(w, r, file)
		return
	}

	opts := s.cfg.Render
	opts.Path = urlPath
	opts.Preview = 0
	if q := r.URL.Query().Get("preview"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 {
			http.Error(w, "invalid preview index", http.StatusBadRequest)
			return
		}
		opts.Preview = n
	}
	opts.Checker = s.checkerFor(urlPath)

	html, err := render.File(r.Context(), file, opts)
	if err != nil {
		log.Printf("server: rendering %s: %v", urlPath, err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		w.Write([]byte(html))
	}
}

// checkerFor builds the image checker for the page served at pagePath, so
// relative image sources resolve against that page.
func (s *Server) checkerFor(pagePath string) preview.ImageChecker {
	if s.cfg.ImageBase == nil {
		return nil
	}
	return &preview.HTTPChecker{
		Client: s.cfg.ImageClient,
		Base:   s.cfg.ImageBase.ResolveReference(&url.URL{Path: pagePath}),
	}
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("talkboard preview server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
