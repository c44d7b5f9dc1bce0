// Package config handles configuration loading, parsing, and validation
// from environment variables (prefix LUMEN_), an optional config.yaml and an
// optional .env file. It provides type-safe access to application settings
// while keeping configuration details separate from business logic.
package config
