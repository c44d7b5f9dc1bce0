package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/phrazzld/lumen-api/internal/domain"
	"github.com/phrazzld/lumen-api/internal/service/auth"
	"github.com/phrazzld/lumen-api/internal/store"
)

// SignupRequest carries a new learner's profile and credentials.
type SignupRequest struct {
	Profile         domain.User
	Password        string
	ConfirmPassword string
}

// AuthResult is returned by signup and signin.
type AuthResult struct {
	User  *domain.User
	Token string
}

// UserService provides learner account operations.
type UserService interface {
	// Signup creates a user and issues an access token. Returns
	// domain.ErrPasswordMismatch, a domain validation error or
	// store.ErrUsernameExists on bad input.
	Signup(ctx context.Context, req SignupRequest) (*AuthResult, error)

	// Signin checks credentials and issues an access token. Unknown
	// usernames and wrong passwords both yield auth.ErrInvalidCredentials.
	Signin(ctx context.Context, username, password string) (*AuthResult, error)

	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// UpdatePreferences applies a partial profile update and returns the
	// stored result.
	UpdatePreferences(ctx context.Context, userID uuid.UUID, prefs domain.Preferences) (*domain.User, error)
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore store.UserStore
	db        *sql.DB
	tokens    auth.JWTService
	passwords auth.PasswordVerifier
	logger    *slog.Logger
}

var _ UserService = (*UserServiceImpl)(nil)

// NewUserService creates a new UserService
func NewUserService(
	userStore store.UserStore,
	db *sql.DB,
	tokens auth.JWTService,
	passwords auth.PasswordVerifier,
	logger *slog.Logger,
) *UserServiceImpl {
	return &UserServiceImpl{
		userStore: userStore,
		db:        db,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger.With("component", "user_service"),
	}
}

// Signup implements UserService.
func (s *UserServiceImpl) Signup(ctx context.Context, req SignupRequest) (*AuthResult, error) {
	if req.Password != req.ConfirmPassword {
		return nil, domain.ErrPasswordMismatch
	}

	user, err := domain.NewUser(req.Profile, req.Password)
	if err != nil {
		s.logger.Debug("signup rejected", "error", err, "username", req.Profile.Username)
		return nil, err
	}

	hash, err := s.passwords.Hash(req.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, err
	}
	user.HashedPassword = hash
	user.Password = ""

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.userStore.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, store.ErrUsernameExists) {
			s.logger.Debug("username already taken", "username", user.Username)
		} else {
			s.logger.Error("failed to save user", "error", err, "username", user.Username)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.GenerateToken(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("user signed up", "user_id", user.ID)
	return &AuthResult{User: user, Token: token}, nil
}

// Signin implements UserService.
func (s *UserServiceImpl) Signin(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.userStore.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("signin for unknown username", "username", username)
			return nil, auth.ErrInvalidCredentials
		}
		s.logger.Error("failed to load user for signin", "error", err)
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if err := s.passwords.Compare(user.HashedPassword, password); err != nil {
		s.logger.Debug("signin with wrong password", "user_id", user.ID)
		return nil, auth.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// GetUser implements UserService.
func (s *UserServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			s.logger.Error("failed to retrieve user", "error", err, "user_id", userID)
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return user, nil
}

// UpdatePreferences implements UserService. The read and write run in one
// transaction so concurrent updates do not interleave.
func (s *UserServiceImpl) UpdatePreferences(
	ctx context.Context,
	userID uuid.UUID,
	prefs domain.Preferences,
) (*domain.User, error) {
	var updated *domain.User

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.userStore.WithTx(tx)

		user, err := txStore.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if err := user.ApplyPreferences(prefs); err != nil {
			return err
		}
		if err := txStore.Update(ctx, user); err != nil {
			return err
		}

		updated = user
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update preferences: %w", err)
	}

	s.logger.Info("preferences updated", "user_id", userID)
	return updated, nil
}
