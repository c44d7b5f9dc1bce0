// Package store defines the persistence interfaces for learner profiles
// and the errors implementations translate their failures into.
package store
