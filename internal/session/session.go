// Package session caches the login session on the local key-value store.
// The session id and the user record are always written and cleared as a pair.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/ziadkadry99/talkboard/internal/kv"
)

// Storage keys, shared with the web front end.
const (
	KeySessionID = "session_id"
	KeyUserInfo  = "user_info"
)

// User holds the display attributes of the logged-in user.
type User struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

// Store reads and writes the cached session.
type Store struct {
	kv kv.Store
}

// NewStore creates a Store on top of the given key-value store.
func NewStore(store kv.Store) *Store {
	return &Store{kv: store}
}

// Save caches the session id and user together. A missing id or user makes
// the call a no-op. Storage failures are logged, never returned.
func (s *Store) Save(ctx context.Context, sessionID string, user *User) {
	if sessionID == "" || user == nil {
		log.Printf("session: not saving incomplete login info (has_id=%t has_user=%t)", sessionID != "", user != nil)
		return
	}

	data, err := json.Marshal(user)
	if err != nil {
		log.Printf("session: encoding user info: %v", err)
		return
	}

	err = s.kv.Put(ctx, map[string]string{
		KeySessionID: sessionID,
		KeyUserInfo:  string(data),
	})
	if err != nil {
		log.Printf("session: saving login info: %v", err)
		return
	}
	log.Printf("session: saved login info user=%q", user.Username)
}

// Clear removes the cached session id and user.
func (s *Store) Clear(ctx context.Context) {
	if err := s.kv.Delete(ctx, KeySessionID, KeyUserInfo); err != nil {
		log.Printf("session: clearing login info: %v", err)
		return
	}
	log.Printf("session: cleared local login info")
}

// SessionID returns the cached session id, or "" if there is none.
func (s *Store) SessionID(ctx context.Context) string {
	id, err := s.kv.Get(ctx, KeySessionID)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			log.Printf("session: reading session id: %v", err)
		}
		return ""
	}
	return id
}

// User returns the cached user. Absent or malformed data yields nil.
func (s *Store) User(ctx context.Context) *User {
	raw, err := s.kv.Get(ctx, KeyUserInfo)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			log.Printf("session: reading user info: %v", err)
		}
		return nil
	}

	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		log.Printf("session: ignoring malformed user info: %v", err)
		return nil
	}
	return &u
}
