package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/phrazzld/lumen-api/internal/analysis"
	"github.com/phrazzld/lumen-api/internal/content"
)

// MockAnalyzer is a testify mock of analysis.Analyzer.
type MockAnalyzer struct {
	mock.Mock
}

var _ analysis.Analyzer = (*MockAnalyzer)(nil)

// Analyze implements analysis.Analyzer.
func (m *MockAnalyzer) Analyze(ctx context.Context, transcript string, user content.UserContext) (*analysis.Analysis, error) {
	args := m.Called(ctx, transcript, user)
	if a, ok := args.Get(0).(*analysis.Analysis); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
