// Package api adapts HTTP requests to the user, content and lesson services:
// it decodes and validates payloads, resolves the learner context and maps
// service errors to status codes.
package api
