// Package domain contains the learner profile and its validation rules,
// independent of storage and transport.
package domain
