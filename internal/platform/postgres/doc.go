// Package postgres provides the PostgreSQL implementations of the store
// interfaces, the connection setup and the embedded goose migrations.
package postgres
