package mocks

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/phrazzld/lumen-api/internal/domain"
	"github.com/phrazzld/lumen-api/internal/service"
)

// MockUserService implements service.UserService for handler tests.
type MockUserService struct {
	SignupFn            func(ctx context.Context, req service.SignupRequest) (*service.AuthResult, error)
	SigninFn            func(ctx context.Context, username, password string) (*service.AuthResult, error)
	GetUserFn           func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	UpdatePreferencesFn func(ctx context.Context, userID uuid.UUID, prefs domain.Preferences) (*domain.User, error)

	mu           sync.Mutex
	SignupCalls  []service.SignupRequest
	GetUserCalls []uuid.UUID
	UpdatedPrefs []domain.Preferences
}

var _ service.UserService = (*MockUserService)(nil)

var errNotConfigured = errors.New("mock not configured")

// Signup implements service.UserService.
func (m *MockUserService) Signup(ctx context.Context, req service.SignupRequest) (*service.AuthResult, error) {
	m.mu.Lock()
	m.SignupCalls = append(m.SignupCalls, req)
	m.mu.Unlock()

	if m.SignupFn != nil {
		return m.SignupFn(ctx, req)
	}
	return nil, errNotConfigured
}

// Signin implements service.UserService.
func (m *MockUserService) Signin(ctx context.Context, username, password string) (*service.AuthResult, error) {
	if m.SigninFn != nil {
		return m.SigninFn(ctx, username, password)
	}
	return nil, errNotConfigured
}

// GetUser implements service.UserService.
func (m *MockUserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	m.GetUserCalls = append(m.GetUserCalls, userID)
	m.mu.Unlock()

	if m.GetUserFn != nil {
		return m.GetUserFn(ctx, userID)
	}
	return nil, errNotConfigured
}

// UpdatePreferences implements service.UserService.
func (m *MockUserService) UpdatePreferences(
	ctx context.Context,
	userID uuid.UUID,
	prefs domain.Preferences,
) (*domain.User, error) {
	m.mu.Lock()
	m.UpdatedPrefs = append(m.UpdatedPrefs, prefs)
	m.mu.Unlock()

	if m.UpdatePreferencesFn != nil {
		return m.UpdatePreferencesFn(ctx, userID, prefs)
	}
	return nil, errNotConfigured
}
