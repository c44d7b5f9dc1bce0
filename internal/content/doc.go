// Package content orchestrates the generation of personalised learning
// content.
//
// An Orchestrator owns a fixed Registry of named workers. Run fans a set of
// work orders out to the matching workers concurrently, bounds the whole batch
// by a single deadline, turns worker errors and panics into failed outcomes
// carrying deterministic fallback content, and maps the per-worker outcomes
// onto the eight learning-format slots shown to learners. A run never fails as
// a whole: callers always receive a complete Result.
package content
