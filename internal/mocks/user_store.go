package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"

	"github.com/phrazzld/lumen-api/internal/domain"
	"github.com/phrazzld/lumen-api/internal/store"
)

// MockUserStore implements store.UserStore in memory.
type MockUserStore struct {
	CreateFn        func(ctx context.Context, user *domain.User) error
	GetByIDFn       func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsernameFn func(ctx context.Context, username string) (*domain.User, error)
	UpdateFn        func(ctx context.Context, user *domain.User) error

	CreateError error
	UpdateError error

	mu          sync.Mutex
	users       map[uuid.UUID]*domain.User
	UpdateCalls int
	TxCalls     int
}

var _ store.UserStore = (*MockUserStore)(nil)

// NewMockUserStore creates an empty store, optionally seeded with users.
func NewMockUserStore(users ...*domain.User) *MockUserStore {
	m := &MockUserStore{users: make(map[uuid.UUID]*domain.User)}
	for _, u := range users {
		m.users[u.ID] = copyUser(u)
	}
	return m
}

// Create implements store.UserStore.
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateError != nil {
		return m.CreateError
	}
	for _, u := range m.users {
		if u.Username == user.Username {
			return store.ErrUsernameExists
		}
	}
	m.users[user.ID] = copyUser(user)
	return nil
}

// GetByID implements store.UserStore.
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return copyUser(u), nil
}

// GetByUsername implements store.UserStore.
func (m *MockUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.GetByUsernameFn != nil {
		return m.GetByUsernameFn(ctx, username)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == username {
			return copyUser(u), nil
		}
	}
	return nil, store.ErrUserNotFound
}

// Update implements store.UserStore.
func (m *MockUserStore) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, user)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpdateCalls++
	if m.UpdateError != nil {
		return m.UpdateError
	}
	if _, ok := m.users[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	m.users[user.ID] = copyUser(user)
	return nil
}

// WithTx returns the same store; transactions are not simulated.
func (m *MockUserStore) WithTx(*sql.Tx) store.UserStore {
	m.mu.Lock()
	m.TxCalls++
	m.mu.Unlock()
	return m
}

// Len returns the number of stored users.
func (m *MockUserStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	c.LearningStyles = append([]string(nil), u.LearningStyles...)
	return &c
}
