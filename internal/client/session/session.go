// Package session keeps the authenticated client state: the bearer token and
// the signed-in user. A Session is an explicit value handed to whoever needs
// it; the Manager persists it between runs of the terminal client.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/finance-tracker/budget-api/internal/client/api"
)

// ErrNoSession is returned when nobody is signed in.
var ErrNoSession = errors.New("not signed in")

// Session is the signed-in state.
type Session struct {
	Token string   `json:"token"`
	User  api.User `json:"user"`
}

// Manager creates, restores and clears sessions stored at a file path.
type Manager struct {
	mu     sync.Mutex
	path   string
	client *api.Client
}

// NewManager returns a manager persisting to path and talking through client.
func NewManager(path string, client *api.Client) *Manager {
	return &Manager{path: path, client: client}
}

// Login authenticates and stores the new session.
func (m *Manager) Login(ctx context.Context, email, password string) (*Session, error) {
	res, err := m.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return m.Start(res)
}

// Register creates an account and stores its session.
func (m *Manager) Register(ctx context.Context, name, email, password string) (*Session, error) {
	res, err := m.client.Register(ctx, name, email, password)
	if err != nil {
		return nil, err
	}
	return m.Start(res)
}

// Start stores the session described by an auth result.
func (m *Manager) Start(res *api.AuthResult) (*Session, error) {
	s := &Session{Token: res.Token, User: res.User}
	if err := m.save(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Restore loads the stored session and checks it with one profile fetch. A
// rejected token clears the stored session and yields ErrNoSession.
func (m *Manager) Restore(ctx context.Context) (*Session, error) {
	s, err := m.load()
	if err != nil {
		return nil, err
	}

	profile, err := m.Client(s).GetProfile(ctx)
	if err != nil {
		if api.IsUnauthorized(err) {
			return nil, ErrNoSession
		}
		return nil, err
	}

	s.User = api.User{
		ID:     profile.ID,
		Email:  profile.Email,
		Name:   profile.Name,
		Avatar: profile.Avatar,
	}
	if err := m.save(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Client returns an API client authenticated as s. Any 401 it receives clears
// the stored session.
func (m *Manager) Client(s *Session) *api.Client {
	return m.client.With(
		api.WithToken(s.Token),
		api.WithUnauthorizedHandler(func() { _ = m.Clear() }),
	)
}

// Clear forgets the stored session. Clearing twice is not an error.
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.Remove(m.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

func (m *Manager) load() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, err := os.ReadFile(m.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(raw, &s); err != nil || s.Token == "" {
		return nil, ErrNoSession
	}
	return &s, nil
}

// save writes the session file readable by the owner only.
func (m *Manager) save(s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := os.Rename(tmp.Name(), m.path); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}
