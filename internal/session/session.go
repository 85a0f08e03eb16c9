// Package session holds the authenticated user's bearer token and login
// state. The session is an explicit injectable object: the gateway reads
// the token from it on every call, and only Establish (login) and Clear
// (logout) ever write it.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ErrNotAuthenticated is returned when an operation requires a bearer
// token and the session does not hold one.
var ErrNotAuthenticated = fmt.Errorf("not authenticated: run 'vault login' first")

// fileData is the on-disk shape of the session file. The key names
// mirror the browser client's persisted keys.
type fileData struct {
	Token      string    `json:"token"`
	IsLoggedIn bool      `json:"isLoggedIn"`
	Username   string    `json:"username,omitempty"`
	Email      string    `json:"email,omitempty"`
	SavedAt    time.Time `json:"savedAt"`
}

// Session stores the bearer token plus cached user details.
type Session struct {
	mu       sync.Mutex
	file     string
	token    string
	loggedIn bool
	username string
	email    string
}

// New creates a session backed by the default file under the user's
// home directory and loads any persisted state.
func New() (*Session, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewAt(filepath.Join(home, ".promptvault", "session.json")), nil
}

// NewAt creates a session backed by the given file path. Missing or
// unreadable state starts the session logged out.
func NewAt(file string) *Session {
	s := &Session{file: file}
	_ = s.load()
	return s
}

func (s *Session) load() error {
	data, err := os.ReadFile(s.file)
	if err != nil {
		return err
	}
	var fd fileData
	if err := json.Unmarshal(data, &fd); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = fd.Token
	s.loggedIn = fd.IsLoggedIn && fd.Token != ""
	s.username = fd.Username
	s.email = fd.Email
	return nil
}

func (s *Session) save() error {
	s.mu.Lock()
	fd := fileData{
		Token:      s.token,
		IsLoggedIn: s.loggedIn,
		Username:   s.username,
		Email:      s.email,
		SavedAt:    time.Now(),
	}
	file := s.file
	s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(file), 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(fd, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(file, data, 0600)
}

// Establish stores the token issued at login and persists it.
func (s *Session) Establish(token string) error {
	s.mu.Lock()
	s.token = token
	s.loggedIn = token != ""
	s.mu.Unlock()
	return s.save()
}

// SetUser caches the username and email returned by the backend.
func (s *Session) SetUser(username, email string) error {
	s.mu.Lock()
	s.username = username
	s.email = email
	s.mu.Unlock()
	return s.save()
}

// Clear destroys the session (logout) and removes the persisted file.
func (s *Session) Clear() error {
	s.mu.Lock()
	s.token = ""
	s.loggedIn = false
	s.username = ""
	s.email = ""
	file := s.file
	s.mu.Unlock()

	if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Token returns the bearer token, or ErrNotAuthenticated when the
// session holds none.
func (s *Session) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loggedIn || s.token == "" {
		return "", ErrNotAuthenticated
	}
	return s.token, nil
}

// LoggedIn reports whether a token is present. Used at startup to pick
// the initial surface (dashboard vs login hint).
func (s *Session) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loggedIn && s.token != ""
}

// User returns the cached username and email, which may be empty until
// the first successful CurrentUser fetch.
func (s *Session) User() (username, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username, s.email
}
