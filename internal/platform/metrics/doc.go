// Package metrics exposes Prometheus instrumentation for content runs and
// HTTP traffic.
package metrics
