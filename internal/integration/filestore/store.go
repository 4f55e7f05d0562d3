// Package filestore keeps users, transactions and budgets as JSON documents on
// disk, one file per collection. All read-modify-write cycles run under a single
// lock and files are replaced atomically, so concurrent requests never lose updates.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/finance-tracker/budget-api/internal/integration/document"
)

const (
	usersFile        = "users.json"
	transactionsFile = "transactions.json"
	budgetsFile      = "budgets.json"
)

// Store is the shared state behind the file-backed repositories. An empty
// directory keeps everything in memory.
type Store struct {
	mu  sync.RWMutex
	dir string

	users        []document.User
	transactions []document.Transaction
	budgets      []document.Budget
}

// Open loads the collections found in dir. Missing files are empty collections.
func Open(dir string) (*Store, error) {
	s := &Store{dir: dir}
	if dir == "" {
		return s, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := s.load(usersFile, &s.users); err != nil {
		return nil, err
	}
	if err := s.load(transactionsFile, &s.transactions); err != nil {
		return nil, err
	}
	if err := s.load(budgetsFile, &s.budgets); err != nil {
		return nil, err
	}
	return s, nil
}

// NewMemory returns a store that never touches the filesystem.
func NewMemory() *Store {
	s, _ := Open("")
	return s
}

func (s *Store) load(name string, into interface{}) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, into); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return nil
}

// HealthCheck verifies the data directory is still reachable.
func (s *Store) HealthCheck(context.Context) error {
	if s.dir == "" {
		return nil
	}
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("data directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data path %s is not a directory", s.dir)
	}
	return nil
}

type collection int

const (
	users collection = iota
	transactions
	budgets
)

// persist writes the named collections. Callers must hold the write lock.
func (s *Store) persist(cols ...collection) error {
	if s.dir == "" {
		return nil
	}
	for _, c := range cols {
		var err error
		switch c {
		case users:
			err = s.writeFile(usersFile, s.users)
		case transactions:
			err = s.writeFile(transactionsFile, s.transactions)
		case budgets:
			err = s.writeFile(budgetsFile, s.budgets)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) writeFile(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}

// snapshot captures the in-memory collections so a failed write can be undone.
type snapshot struct {
	users        []document.User
	transactions []document.Transaction
	budgets      []document.Budget
}

func (s *Store) snapshot() snapshot {
	return snapshot{
		users:        append([]document.User(nil), s.users...),
		transactions: append([]document.Transaction(nil), s.transactions...),
		budgets:      append([]document.Budget(nil), s.budgets...),
	}
}

func (s *Store) restore(snap snapshot) {
	s.users = snap.users
	s.transactions = snap.transactions
	s.budgets = snap.budgets
}

// mutate runs fn under the write lock and persists the touched collections.
// If fn or the write fails, the in-memory state is rolled back.
func (s *Store) mutate(fn func() error, cols ...collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(); err != nil {
		s.restore(snap)
		return err
	}
	if err := s.persist(cols...); err != nil {
		s.restore(snap)
		// best effort: bring the files back in line with memory
		_ = s.persist(cols...)
		return err
	}
	return nil
}
