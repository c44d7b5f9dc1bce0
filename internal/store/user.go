package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/phrazzld/lumen-api/internal/domain"
)

// UserStore persists learner profiles.
type UserStore interface {
	// Create inserts a new user. The user must already carry a hashed
	// password. Returns ErrUsernameExists if the username is taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID returns ErrUserNotFound if no user has the given ID.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByUsername returns ErrUserNotFound if no user has the given username.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// Update replaces the mutable profile fields of an existing user.
	// Returns ErrUserNotFound if the user does not exist.
	Update(ctx context.Context, user *domain.User) error

	// WithTx returns a UserStore that runs its queries inside tx.
	WithTx(tx *sql.Tx) UserStore
}
