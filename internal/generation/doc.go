// Package generation defines the boundary between the application and the
// LLM service that writes learning content. Content workers and the upstream
// analyzer depend only on the Generator interface; the Gemini adapter lives in
// internal/platform/gemini.
package generation
