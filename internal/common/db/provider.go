package db

import (
	"errors"
	"sync/atomic"
)

// ErrNoDatabase is returned when a provider has no open database.
var ErrNoDatabase = errors.New("no database configured")

// Provider hands out the database repositories and the seeder run against.
type Provider interface {
	Current() Database
}

// Manager is a Provider whose database can be replaced while requests run.
type Manager struct {
	current atomic.Pointer[Database]
}

func NewManager(database Database) *Manager {
	m := &Manager{}
	if database != nil {
		m.current.Store(&database)
	}
	return m
}

func (m *Manager) Current() Database {
	if m == nil {
		return nil
	}
	if p := m.current.Load(); p != nil {
		return *p
	}
	return nil
}

// Swap installs next and returns the database it replaced.
func (m *Manager) Swap(next Database) Database {
	prev := m.current.Swap(&next)
	if prev == nil {
		return nil
	}
	return *prev
}

// CurrentDatabase returns provider's database or ErrNoDatabase.
func CurrentDatabase(provider Provider) (Database, error) {
	if provider == nil {
		return nil, ErrNoDatabase
	}
	if database := provider.Current(); database != nil {
		return database, nil
	}
	return nil, ErrNoDatabase
}
