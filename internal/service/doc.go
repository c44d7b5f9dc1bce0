// Package service holds the application use cases: learner accounts and
// lesson generation. Services coordinate the store, auth, analysis and
// content packages and never depend on a concrete infrastructure type.
package service
