// Package workers provides the eight LLM-backed content workers.
//
// Each worker renders its embedded prompt from the work order, the upstream
// analysis and the learner's context, asks the generation.Generator for a JSON
// object and returns it as content stamped with the worker's name.
package workers
