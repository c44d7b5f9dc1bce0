// Package gemini implements generation.Generator on top of Google's Gemini API
// (google.golang.org/genai).
//
// Every call asks the model for a JSON response, bounds each attempt by the
// configured request timeout and retries transient failures (rate limits,
// server errors, network errors) with exponential backoff. Safety blocks and
// malformed responses are permanent and returned immediately.
package gemini
