package workers

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/phrazzld/lumen-api/internal/content"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

var prompts = template.Must(template.ParseFS(promptFS, "prompts/*.tmpl"))

type promptData struct {
	Background string
	Subject    string
	Language   string
	Dyslexia   bool
	WorkOrder  string
	Analysis   string
}

func newPromptData(order content.WorkOrder, analysis content.AnalysisContext, user content.UserContext) (promptData, error) {
	orderJSON, err := json.MarshalIndent(order, "", "  ")
	if err != nil {
		return promptData{}, fmt.Errorf("failed to encode work order: %w", err)
	}

	analysisJSON, err := json.MarshalIndent(analysisForPrompt(analysis), "", "  ")
	if err != nil {
		return promptData{}, fmt.Errorf("failed to encode analysis: %w", err)
	}

	dyslexia, _ := user["dyslexiaSupport"].(bool)

	return promptData{
		Background: userBackground(user),
		Subject:    subjectContext(analysis),
		Language:   languageInstruction(user),
		Dyslexia:   dyslexia,
		WorkOrder:  string(orderJSON),
		Analysis:   string(analysisJSON),
	}, nil
}

func render(name string, data promptData) (string, error) {
	var buf bytes.Buffer
	if err := prompts.ExecuteTemplate(&buf, name+".tmpl", data); err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", name, err)
	}
	return buf.String(), nil
}

// analysisForPrompt drops the work orders, which every worker would otherwise
// receive in full.
func analysisForPrompt(analysis content.AnalysisContext) map[string]any {
	out := make(map[string]any, len(analysis))
	for k, v := range analysis {
		if k == "work_orders" {
			continue
		}
		out[k] = v
	}
	return out
}

func userBackground(user content.UserContext) string {
	major := stringOr(user["major"], "general")
	level := stringOr(user["academicLevel"], "general")
	return fmt.Sprintf("User background: %s student at %s level", major, level)
}

func languageInstruction(user content.UserContext) string {
	lang := stringOr(user["languagePreference"], "English")
	if strings.EqualFold(lang, "english") {
		return ""
	}
	return fmt.Sprintf("\n\nIMPORTANT: Respond in %s language. All content, explanations, and text should be in %s.", lang, lang)
}

func subjectContext(analysis content.AnalysisContext) string {
	subject, topic := "General", "Educational content"
	if ea, ok := analysis["educational_analysis"].(map[string]any); ok {
		subject = stringOr(ea["subject"], subject)
		topic = stringOr(ea["topic"], topic)
	}
	return fmt.Sprintf("Subject: %s, Topic: %s", subject, topic)
}

func stringOr(v any, fallback string) string {
	if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}
