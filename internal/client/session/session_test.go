package session

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/finance-tracker/budget-api/config"
	"github.com/finance-tracker/budget-api/internal/client/api"
	"github.com/finance-tracker/budget-api/internal/infra/dependency"
	"github.com/finance-tracker/budget-api/internal/integration/filestore"
)

// newServer runs the real API over an in-memory store.
func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	t.Setenv("ENV", "test")
	cfg := config.Load()
	cfg.Password.BcryptCost = bcrypt.MinCost

	injector, err := dependency.NewInjector(cfg, dependency.NewFileStorage(filestore.NewMemory()), prometheus.NewRegistry())
	require.NoError(t, err)
	srv := httptest.NewServer(injector.Router.Setup(cfg.Server))
	t.Cleanup(srv.Close)
	return srv
}

func TestManager_Lifecycle(t *testing.T) {
	ctx := context.Background()
	srv := newServer(t)
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	m := NewManager(path, api.New(srv.URL))

	_, err := m.Restore(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	s, err := m.Register(ctx, "Ann", "ann@b.com", "pw")
	require.NoError(t, err)
	assert.NotEmpty(t, s.Token)
	assert.Equal(t, "ann@b.com", s.User.Email)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	restored, err := m.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, s.Token, restored.Token)
	assert.Equal(t, "Ann", restored.User.Name)

	require.NoError(t, m.Clear())
	require.NoError(t, m.Clear())
	_, err = m.Restore(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	s, err = m.Login(ctx, "ann@b.com", "pw")
	require.NoError(t, err)
	profile, err := m.Client(s).GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, s.User.ID, profile.ID)
}

func TestManager_UnauthorizedClearsSession(t *testing.T) {
	ctx := context.Background()
	srv := newServer(t)
	path := filepath.Join(t.TempDir(), "session.json")
	m := NewManager(path, api.New(srv.URL))

	s, err := m.Start(&api.AuthResult{Token: "forged", User: api.User{ID: "x"}})
	require.NoError(t, err)

	_, err = m.Client(s).ListBudgets(ctx)
	require.Error(t, err)
	assert.True(t, api.IsUnauthorized(err))

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestManager_RestoreWithRejectedToken(t *testing.T) {
	srv := newServer(t)
	path := filepath.Join(t.TempDir(), "session.json")
	m := NewManager(path, api.New(srv.URL))

	_, err := m.Start(&api.AuthResult{Token: "forged"})
	require.NoError(t, err)

	_, err = m.Restore(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestManager_CorruptFileIsNoSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))

	m := NewManager(path, api.New("http://127.0.0.1:1"))
	_, err := m.Restore(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
}
