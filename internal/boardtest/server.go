// Package boardtest runs an in-memory message board API for tests.
package boardtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
)

// Message is a stored board message.
type Message struct {
	ID            string  `json:"id"`
	Username      string  `json:"username"`
	Content       string  `json:"content"`
	CreateTime    float64 `json:"create_time"`
	CreateTimeStr string  `json:"create_time_str"`
}

type user struct {
	Username string
	Password string
}

// Board is the fake board state.
type Board struct {
	mu       sync.Mutex
	users    map[string]user
	sessions map[string]string // session id -> email
	codes    map[string]string // email -> login code
	regCodes map[string]string // email -> registration code
	messages []Message
	seq      int

	logoutStatus int

	// CheckLoginStatus, when non-zero, makes /api/check-login answer with it.
	CheckLoginStatus int
	// Requests counts requests per route pattern.
	Requests map[string]int
}

// Server is a running fake board.
type Server struct {
	*httptest.Server
	Board *Board
}

// New starts a fake board with no users.
func New() *Server {
	b := &Board{
		users:    make(map[string]user),
		sessions: make(map[string]string),
		codes:    make(map[string]string),
		regCodes: make(map[string]string),
		Requests: make(map[string]int),
	}
	return &Server{Server: httptest.NewServer(b.Router()), Board: b}
}

// AddUser registers a user.
func (b *Board) AddUser(email, username, password string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.users[email] = user{Username: username, Password: password}
}

// Revoke drops a session on the server side.
func (b *Board) Revoke(sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.sessions, sessionID)
}

// SessionCount reports the number of live server sessions.
func (b *Board) SessionCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.sessions)
}

// Code returns the last login code mailed to email.
func (b *Board) Code(email string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.codes[email]
}

// RegisterCode returns the last registration code mailed to email.
func (b *Board) RegisterCode(email string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.regCodes[email]
}

// HasUser reports whether email is registered.
func (b *Board) HasUser(email string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.users[email]
	return ok
}

// FailLogout makes /api/logout end the session but answer with status and
// an error envelope. Zero restores normal answers.
func (b *Board) FailLogout(status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.logoutStatus = status
}

// Count returns how many requests hit path.
func (b *Board) Count(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.Requests[path]
}

// Router builds the chi router serving the board API.
func (b *Board) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(b.count)

	r.Post("/api/register/send-code", b.handleRegisterSendCode)
	r.Post("/api/register", b.handleRegister)
	r.Post("/api/login/password", b.handleLoginPassword)
	r.Post("/api/login/send-code", b.handleSendCode)
	r.Post("/api/login/code", b.handleLoginCode)
	r.Post("/api/check-login", b.handleCheckLogin)
	r.Post("/api/logout", b.handleLogout)
	r.Get("/api/talk/list", b.handleList)
	r.Post("/api/talk/add", b.requireLogin(b.handleAdd))
	r.Post("/api/talk/delete", b.requireLogin(b.handleDelete))
	return r
}

func (b *Board) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.Requests[r.URL.Path]++
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func envelope(w http.ResponseWriter, code int, msg string, data any) {
	body := map[string]any{"code": code, "msg": msg}
	if data != nil {
		body["data"] = data
	}
	writeJSON(w, http.StatusOK, body)
}

// sessionID reads the session the way the board does: cookie first, then
// the Authorization header.
func sessionID(r *http.Request) string {
	if c, err := r.Cookie("session_id"); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Session ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Session "))
	}
	return ""
}

func (b *Board) userFor(r *http.Request) (string, user, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	email, ok := b.sessions[sessionID(r)]
	if !ok {
		return "", user{}, false
	}
	u, ok := b.users[email]
	return email, u, ok
}

func (b *Board) requireLogin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, _, ok := b.userFor(r); !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"need_login": true, "code": 401, "msg": "login required"})
			return
		}
		next(w, r)
	}
}

func decodeBody(r *http.Request) map[string]string {
	body := map[string]string{}
	json.NewDecoder(r.Body).Decode(&body)
	return body
}

func (b *Board) startSession(w http.ResponseWriter, email string, u user) {
	id := uuid.New().String()
	b.mu.Lock()
	b.sessions[id] = email
	b.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: "session_id", Value: id, Path: "/", MaxAge: 30 * 24 * 60 * 60})
	envelope(w, 200, "login succeeded", map[string]string{
		"username":   u.Username,
		"email":      email,
		"session_id": id,
	})
}

func (b *Board) handleRegisterSendCode(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(decodeBody(r)["email"])
	if email == "" || !strings.Contains(email, "@") {
		envelope(w, 400, "enter a valid email address", nil)
		return
	}
	b.mu.Lock()
	_, exists := b.users[email]
	if !exists {
		b.seq++
		b.regCodes[email] = strconv.Itoa(200000 + b.seq)
	}
	b.mu.Unlock()
	if exists {
		envelope(w, 400, "email already registered, please log in", nil)
		return
	}
	envelope(w, 200, "code sent", nil)
}

func (b *Board) handleRegister(w http.ResponseWriter, r *http.Request) {
	body := decodeBody(r)
	username := strings.TrimSpace(body["username"])
	email := strings.TrimSpace(body["email"])
	password := strings.TrimSpace(body["password"])
	code := strings.TrimSpace(body["code"])

	switch {
	case username == "" || email == "" || password == "" || code == "":
		envelope(w, 400, "registration details incomplete", nil)
		return
	case utf8.RuneCountInString(username) < 2 || utf8.RuneCountInString(username) > 20:
		envelope(w, 400, "username must be 2-20 characters", nil)
		return
	case len(password) < 6:
		envelope(w, 400, "password must be at least 6 characters", nil)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	want, ok := b.regCodes[email]
	if !ok {
		envelope(w, 400, "code expired, request a new one", nil)
		return
	}
	if want != code {
		envelope(w, 400, "wrong code", nil)
		return
	}
	if _, exists := b.users[email]; exists {
		envelope(w, 400, "email already registered", nil)
		return
	}
	delete(b.regCodes, email)
	b.users[email] = user{Username: username, Password: password}
	envelope(w, 200, "registered, please log in", nil)
}

func (b *Board) handleLoginPassword(w http.ResponseWriter, r *http.Request) {
	body := decodeBody(r)
	b.mu.Lock()
	u, ok := b.users[body["email"]]
	b.mu.Unlock()
	if !ok || u.Password != body["password"] {
		envelope(w, 400, "wrong email or password", nil)
		return
	}
	b.startSession(w, body["email"], u)
}

func (b *Board) handleSendCode(w http.ResponseWriter, r *http.Request) {
	email := decodeBody(r)["email"]
	b.mu.Lock()
	_, ok := b.users[email]
	if ok {
		b.seq++
		b.codes[email] = strconv.Itoa(100000 + b.seq)
	}
	b.mu.Unlock()
	if !ok {
		envelope(w, 400, "email is not registered", nil)
		return
	}
	envelope(w, 200, "code sent", nil)
}

func (b *Board) handleLoginCode(w http.ResponseWriter, r *http.Request) {
	body := decodeBody(r)
	email := body["email"]
	b.mu.Lock()
	code, hasCode := b.codes[email]
	u, hasUser := b.users[email]
	if hasCode && code == body["code"] {
		delete(b.codes, email)
	}
	b.mu.Unlock()
	if !hasCode || code != body["code"] {
		envelope(w, 400, "wrong code", nil)
		return
	}
	if !hasUser {
		envelope(w, 400, "user does not exist", nil)
		return
	}
	b.startSession(w, email, u)
}

func (b *Board) handleCheckLogin(w http.ResponseWriter, r *http.Request) {
	if b.CheckLoginStatus != 0 {
		w.WriteHeader(b.CheckLoginStatus)
		return
	}
	email, u, ok := b.userFor(r)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"isLogin": false, "user": map[string]any{}})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"isLogin": true,
		"user":    map[string]string{"username": u.Username, "email": email},
	})
}

func (b *Board) handleLogout(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	b.mu.Lock()
	_, ok := b.sessions[id]
	delete(b.sessions, id)
	failStatus := b.logoutStatus
	b.mu.Unlock()
	if failStatus != 0 {
		writeJSON(w, failStatus, map[string]any{"code": failStatus, "msg": "server error"})
		return
	}
	if !ok {
		envelope(w, 400, "logout failed", nil)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: "session_id", Value: "", Path: "/", MaxAge: -1})
	envelope(w, 200, "logged out", nil)
}

func (b *Board) handleList(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	out := make([]Message, len(b.messages))
	copy(out, b.messages)
	b.mu.Unlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreateTime > out[j].CreateTime })
	envelope(w, 200, "ok", out)
}

func (b *Board) handleAdd(w http.ResponseWriter, r *http.Request) {
	_, u, _ := b.userFor(r)
	content := strings.TrimSpace(decodeBody(r)["content"])
	if content == "" {
		envelope(w, 400, "message content is empty", nil)
		return
	}

	now := time.Now()
	b.mu.Lock()
	b.seq++
	b.messages = append(b.messages, Message{
		ID:            strconv.FormatInt(now.UnixMilli(), 10) + strconv.Itoa(b.seq),
		Username:      u.Username,
		Content:       content,
		CreateTime:    float64(now.UnixNano())/1e9 + float64(b.seq)*1e-3,
		CreateTimeStr: now.Format("2006-01-02 15:04:05"),
	})
	b.mu.Unlock()
	envelope(w, 200, "message posted", nil)
}

func (b *Board) handleDelete(w http.ResponseWriter, r *http.Request) {
	_, u, _ := b.userFor(r)
	id := decodeBody(r)["id"]

	b.mu.Lock()
	defer b.mu.Unlock()
	for i, m := range b.messages {
		if m.ID != id {
			continue
		}
		if m.Username != u.Username {
			envelope(w, 403, "not your message", nil)
			return
		}
		b.messages = append(b.messages[:i], b.messages[i+1:]...)
		envelope(w, 200, "message deleted", nil)
		return
	}
	envelope(w, 404, "message not found", nil)
}
