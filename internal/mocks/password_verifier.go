package mocks

import (
	"sync"

	"github.com/phrazzld/lumen-api/internal/service/auth"
)

// MockPasswordVerifier implements auth.PasswordVerifier without bcrypt.
// Hash prefixes the password with "hashed:" and Compare checks that form.
type MockPasswordVerifier struct {
	HashFn    func(password string) (string, error)
	CompareFn func(hashedPassword, password string) error

	mu               sync.Mutex
	CompareCallCount int
}

var _ auth.PasswordVerifier = (*MockPasswordVerifier)(nil)

// Hash implements auth.PasswordVerifier.
func (m *MockPasswordVerifier) Hash(password string) (string, error) {
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	return "hashed:" + password, nil
}

// Compare implements auth.PasswordVerifier.
func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	m.mu.Lock()
	m.CompareCallCount++
	m.mu.Unlock()

	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if hashedPassword != "hashed:"+password {
		return auth.ErrInvalidCredentials
	}
	return nil
}
