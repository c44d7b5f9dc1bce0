// Package analysis turns a lesson transcript into the structured analysis and
// per-format work orders consumed by the content orchestrator.
package analysis
