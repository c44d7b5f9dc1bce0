package analysis_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/lumen-api/internal/analysis"
	"github.com/phrazzld/lumen-api/internal/content"
	"github.com/phrazzld/lumen-api/internal/generation"
	"github.com/phrazzld/lumen-api/internal/mocks"
	"github.com/phrazzld/lumen-api/internal/platform/logger"
)

const validResponse = "```json\n" + `{
  "educational_analysis": {"subject": "Chemistry", "topic": "Chemical Bonds"},
  "learning_objectives": ["Explain ionic bonding"],
  "work_orders": {
    "explanation": {"topics": ["Chemical bonds", "Electronegativity"]},
    "quiz_generation": {"blueprint": {"num_questions": 3}}
  }
}` + "\n```"

func TestNewLLMAnalyzer(t *testing.T) {
	t.Parallel()

	_, err := analysis.NewLLMAnalyzer(nil, nil)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	a, err := analysis.NewLLMAnalyzer(&mocks.MockGenerator{}, nil)
	require.NoError(t, err)
	assert.NotNil(t, a)
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	l, _ := logger.GetTestLogger(t)

	t.Run("decodes context and work orders", func(t *testing.T) {
		t.Parallel()

		gen := mocks.NewMockGeneratorWithResponse(validResponse)
		a, err := analysis.NewLLMAnalyzer(gen, l)
		require.NoError(t, err)

		got, err := a.Analyze(context.Background(), "Today we talk about salt.", content.UserContext{
			"major":              "Computer Science",
			"academicLevel":      "College",
			"languagePreference": "German",
			"learningStyles":     []any{"visual", "practice"},
		})
		require.NoError(t, err)

		require.Len(t, got.WorkOrders, 2)
		assert.Equal(t, content.WorkOrder{"topics": []any{"Chemical bonds", "Electronegativity"}}, got.WorkOrders[content.Explanation])
		assert.Contains(t, got.WorkOrders, content.QuizGeneration)

		ea, ok := got.Context["educational_analysis"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Chemistry", ea["subject"])

		prompt, ok := gen.PromptContaining("Today we talk about salt.")
		require.True(t, ok)
		assert.Contains(t, prompt, "User background: Computer Science student at College level")
		assert.Contains(t, prompt, "visual, practice")
		assert.Contains(t, prompt, "Write every string value in German.")
		assert.Contains(t, prompt, content.QuizGeneration)
	})

	t.Run("empty transcript", func(t *testing.T) {
		t.Parallel()

		gen := mocks.NewMockGeneratorWithResponse(validResponse)
		a, err := analysis.NewLLMAnalyzer(gen, l)
		require.NoError(t, err)

		_, err = a.Analyze(context.Background(), "   ", nil)
		assert.ErrorIs(t, err, analysis.ErrEmptyTranscript)
		assert.Equal(t, 0, gen.CallCount())
	})

	t.Run("generator failure", func(t *testing.T) {
		t.Parallel()

		a, err := analysis.NewLLMAnalyzer(mocks.NewMockGeneratorWithError(generation.ErrTransientFailure), l)
		require.NoError(t, err)

		_, err = a.Analyze(context.Background(), "transcript", nil)
		assert.ErrorIs(t, err, generation.ErrTransientFailure)
	})

	invalid := map[string]string{
		"not json":            "The video is about salt.",
		"missing work orders": `{"educational_analysis": {}}`,
		"empty work orders":   `{"work_orders": {}}`,
		"work orders list":    `{"work_orders": ["explanation"]}`,
		"work order string":   `{"work_orders": {"explanation": "go deep"}}`,
	}
	for name, resp := range invalid {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			a, err := analysis.NewLLMAnalyzer(mocks.NewMockGeneratorWithResponse(resp), l)
			require.NoError(t, err)

			_, err = a.Analyze(context.Background(), "transcript", nil)
			require.Error(t, err)
			if name == "not json" {
				assert.ErrorIs(t, err, generation.ErrInvalidResponse)
				return
			}
			assert.ErrorIs(t, err, analysis.ErrInvalidAnalysis)
		})
	}

	t.Run("contract violations are reported", func(t *testing.T) {
		t.Parallel()

		a, err := analysis.NewLLMAnalyzer(mocks.NewMockGeneratorWithResponse(`{"work_orders": [1]}`), l)
		require.NoError(t, err)

		_, err = a.Analyze(context.Background(), "transcript", nil)
		assert.ErrorIs(t, err, content.ErrContractViolation)
	})
}
