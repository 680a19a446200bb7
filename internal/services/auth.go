// Package services orchestrates the stores into the operations the
// HTTP layer exposes.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/arjunvn/melodia-backend/internal/apperr"
	"github.com/arjunvn/melodia-backend/internal/models"
	"github.com/arjunvn/melodia-backend/internal/store"
	"github.com/arjunvn/melodia-backend/pkg/utils"
)

// Auth implements registration, login, logout, and the token gate.
type Auth struct {
	db     *sql.DB
	users  *store.UserRepository
	tokens *store.TokenRepository
}

func NewAuth(db *sql.DB, cache *redis.Client) *Auth {
	return &Auth{
		db:     db,
		users:  store.NewUserRepository(db),
		tokens: store.NewTokenRepository(db, cache),
	}
}

// Register creates the user, their default profile, and their first
// token inside one transaction, so a failure at any step leaves no
// orphaned rows. Returns the token.
func (s *Auth) Register(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return "", apperr.InvalidInput("Email and password are required")
	}
	if !strings.Contains(email, "@") {
		return "", apperr.InvalidInput("A valid email address is required")
	}

	passwordHash, err := utils.HashPassword(password)
	if err != nil {
		return "", apperr.Internal("Failed to process registration", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", apperr.Internal("Failed to process registration", err)
	}
	defer tx.Rollback()

	user, err := store.NewUserRepository(tx).Create(ctx, email, passwordHash)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return "", apperr.Duplicate("Email is already registered")
		}
		return "", apperr.Internal("Failed to create user", err)
	}

	if err := store.NewProfileRepository(tx).EnsureExists(ctx, user.ID); err != nil {
		return "", apperr.Internal("Failed to create profile", err)
	}

	token, _, err := s.tokens.WithTx(tx).IssueOrReuse(ctx, user.ID)
	if err != nil {
		return "", apperr.Internal("Failed to issue token", err)
	}

	if err := tx.Commit(); err != nil {
		return "", apperr.Internal("Failed to process registration", err)
	}

	return token, nil
}

// Login verifies credentials and returns the user's token. The token is
// reused, not rotated: logging in again hands back the same token until
// the user logs out.
func (s *Auth) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return "", apperr.InvalidInput("Email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", apperr.InvalidCredentials("Invalid email or password")
		}
		return "", apperr.Internal("Failed to process login", err)
	}

	if !user.IsActive {
		return "", apperr.InvalidCredentials("Invalid email or password")
	}

	valid, err := utils.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return "", apperr.Internal("Failed to process login", err)
	}
	if !valid {
		return "", apperr.InvalidCredentials("Invalid email or password")
	}

	token, _, err := s.tokens.IssueOrReuse(ctx, user.ID)
	if err != nil {
		return "", apperr.Internal("Failed to issue token", err)
	}

	return token, nil
}

// Logout revokes every token the user holds. Idempotent.
func (s *Auth) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.tokens.Revoke(ctx, userID); err != nil {
		return apperr.Internal("Failed to log out", err)
	}
	return nil
}

// Authenticate resolves a bearer token to its user. This is the gate
// every protected request goes through.
func (s *Auth) Authenticate(ctx context.Context, token string) (models.User, error) {
	user, err := s.tokens.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.User{}, apperr.Unauthenticated("Invalid or missing token")
		}
		return models.User{}, apperr.Internal("Failed to authenticate request", fmt.Errorf("resolve token: %w", err))
	}

	if !user.IsActive {
		return models.User{}, apperr.Unauthenticated("Account is deactivated")
	}

	return user, nil
}
