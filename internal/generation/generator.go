package generation

import "context"

// Generator sends a prompt to a language model that has been asked to answer
// in JSON and returns the raw response text.
type Generator interface {
	// GenerateJSON returns the model's response text for prompt. The text is
	// expected to hold a JSON object but may still be wrapped in Markdown code
	// fences; see DecodeObject.
	//
	// Errors wrap one of the sentinels in errors.go.
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}
