// Package mocks provides shared test doubles for the store, auth, service,
// generation and analysis interfaces.
//
// Most mocks follow one pattern: optional function fields override behavior,
// simple fields provide canned results, and calls are recorded under a mutex
// so tests can assert on them. MockAnalyzer uses testify/mock instead.
package mocks
