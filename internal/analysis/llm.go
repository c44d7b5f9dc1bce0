package analysis

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"github.com/phrazzld/lumen-api/internal/content"
	"github.com/phrazzld/lumen-api/internal/generation"
)

//go:embed prompts/analysis.tmpl
var promptFS embed.FS

var prompt = template.Must(template.ParseFS(promptFS, "prompts/analysis.tmpl"))

type promptData struct {
	Background string
	Formats    string
	Language   string
	Transcript string
	Workers    string
}

// LLMAnalyzer implements Analyzer with a generation.Generator.
type LLMAnalyzer struct {
	gen    generation.Generator
	logger *slog.Logger
}

var _ Analyzer = (*LLMAnalyzer)(nil)

// NewLLMAnalyzer creates an analyzer backed by gen.
func NewLLMAnalyzer(gen generation.Generator, logger *slog.Logger) (*LLMAnalyzer, error) {
	if gen == nil {
		return nil, fmt.Errorf("%w: generator cannot be nil", generation.ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &LLMAnalyzer{
		gen:    gen,
		logger: logger.With("component", "transcript_analyzer"),
	}, nil
}

// Analyze asks the model for an analysis of transcript and decodes the work
// orders it proposes. Work orders for unknown formats are kept; the
// orchestrator skips them.
func (a *LLMAnalyzer) Analyze(ctx context.Context, transcript string, user content.UserContext) (*Analysis, error) {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return nil, ErrEmptyTranscript
	}

	text, err := renderPrompt(transcript, user)
	if err != nil {
		return nil, err
	}

	resp, err := a.gen.GenerateJSON(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("transcript analysis failed: %w", err)
	}

	obj, err := generation.DecodeObject(resp)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(obj["work_orders"])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAnalysis, err)
	}

	orders, err := content.DecodeWorkOrders(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAnalysis, err)
	}
	if len(orders) == 0 {
		return nil, fmt.Errorf("%w: no work orders proposed", ErrInvalidAnalysis)
	}

	a.logger.InfoContext(ctx, "transcript analysed",
		"transcript_length", len(transcript),
		"work_orders", len(orders))

	return &Analysis{
		Context:    content.AnalysisContext(obj),
		WorkOrders: orders,
	}, nil
}

func renderPrompt(transcript string, user content.UserContext) (string, error) {
	major, _ := user["major"].(string)
	level, _ := user["academicLevel"].(string)
	if major == "" {
		major = "general"
	}
	if level == "" {
		level = "general"
	}

	var language string
	if lang, _ := user["languagePreference"].(string); lang != "" && !strings.EqualFold(lang, "english") {
		language = fmt.Sprintf("\n\nIMPORTANT: Write every string value in %s.", lang)
	}

	data := promptData{
		Background: fmt.Sprintf("User background: %s student at %s level", major, level),
		Formats:    learningStyles(user["learningStyles"]),
		Language:   language,
		Transcript: transcript,
		Workers:    strings.Join(content.WorkerNames(), ", "),
	}

	var buf bytes.Buffer
	if err := prompt.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render analysis prompt: %w", err)
	}
	return buf.String(), nil
}

// learningStyles accepts either []string or a decoded JSON list.
func learningStyles(v any) string {
	switch styles := v.(type) {
	case []string:
		return strings.Join(styles, ", ")
	case []any:
		parts := make([]string, 0, len(styles))
		for _, s := range styles {
			if str, ok := s.(string); ok {
				parts = append(parts, str)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}
