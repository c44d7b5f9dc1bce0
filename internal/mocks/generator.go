package mocks

import (
	"context"
	"strings"
	"sync"

	"github.com/phrazzld/lumen-api/internal/generation"
)

// MockGenerator implements generation.Generator for testing
type MockGenerator struct {
	// GenerateJSONFn allows test cases to mock the GenerateJSON behavior
	GenerateJSONFn func(ctx context.Context, prompt string) (string, error)

	// Default response values
	Response string
	Err      error

	// Call tracking for verification
	GenerateJSONCalls struct {
		// mu protects the call tracking state; workers call concurrently
		mu sync.Mutex

		// Count tracks how many times GenerateJSON was called
		Count int

		// Prompts contains all prompts passed to GenerateJSON calls
		Prompts []string
	}
}

var _ generation.Generator = (*MockGenerator)(nil)

// GenerateJSON implements the generation.Generator interface
func (m *MockGenerator) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	m.GenerateJSONCalls.mu.Lock()
	m.GenerateJSONCalls.Count++
	m.GenerateJSONCalls.Prompts = append(m.GenerateJSONCalls.Prompts, prompt)
	m.GenerateJSONCalls.mu.Unlock()

	if m.GenerateJSONFn != nil {
		return m.GenerateJSONFn(ctx, prompt)
	}

	return m.Response, m.Err
}

// CallCount returns the number of GenerateJSON calls so far.
func (m *MockGenerator) CallCount() int {
	m.GenerateJSONCalls.mu.Lock()
	defer m.GenerateJSONCalls.mu.Unlock()
	return m.GenerateJSONCalls.Count
}

// PromptContaining returns the first recorded prompt that contains substr.
func (m *MockGenerator) PromptContaining(substr string) (string, bool) {
	m.GenerateJSONCalls.mu.Lock()
	defer m.GenerateJSONCalls.mu.Unlock()
	for _, p := range m.GenerateJSONCalls.Prompts {
		if strings.Contains(p, substr) {
			return p, true
		}
	}
	return "", false
}

// NewMockGeneratorWithResponse creates a MockGenerator that returns the given text
func NewMockGeneratorWithResponse(response string) *MockGenerator {
	return &MockGenerator{Response: response}
}

// NewMockGeneratorWithError creates a MockGenerator that returns the specified error
func NewMockGeneratorWithError(err error) *MockGenerator {
	return &MockGenerator{Err: err}
}
