package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/fulsomenko/kanban-sub000/internal/store"
)

// Store is a mock for store.Store.
type Store struct {
	mock.Mock
}

func (m *Store) Save(ctx context.Context, snap store.Snapshot) (store.Metadata, error) {
	args := m.Called(ctx, snap)
	return args.Get(0).(store.Metadata), args.Error(1)
}

func (m *Store) Load(ctx context.Context) (store.Snapshot, error) {
	args := m.Called(ctx)
	return args.Get(0).(store.Snapshot), args.Error(1)
}

func (m *Store) Exists() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *Store) Path() string {
	args := m.Called()
	return args.String(0)
}

func (m *Store) ClearLastKnownMetadata() {
	m.Called()
}
