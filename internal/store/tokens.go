package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/arjunvn/melodia-backend/internal/models"
)

const (
	// TokenCacheKeyPrefix is the Redis key prefix for token->user lookups
	TokenCacheKeyPrefix = "authtoken:"
	// TokenCacheTTL bounds how stale a cached resolution can be. Kept
	// short: a Resolve racing a Revoke can re-fill the cache from a row
	// read just before the delete, and the TTL is the upper bound on how
	// long that entry survives.
	TokenCacheTTL = 5 * time.Minute
)

// TokenRepository persists bearer tokens in Postgres and caches token
// resolution in Redis. Postgres is the source of truth: tokens have no
// expiry and survive restarts; the cache is dropped on revoke.
type TokenRepository struct {
	db    DBTX
	cache *redis.Client
}

// NewTokenRepository creates a TokenRepository. cache may be nil, in
// which case every resolve goes to Postgres.
func NewTokenRepository(db DBTX, cache *redis.Client) *TokenRepository {
	return &TokenRepository{db: db, cache: cache}
}

// WithTx returns a copy of the repository bound to the given
// transaction, keeping the same cache.
func (r *TokenRepository) WithTx(tx DBTX) *TokenRepository {
	return &TokenRepository{db: tx, cache: r.cache}
}

// IssueOrReuse returns the user's live token, minting one only if none
// exists. Repeated logins therefore keep the same token; only logout
// revokes it.
func (r *TokenRepository) IssueOrReuse(ctx context.Context, userID uuid.UUID) (string, bool, error) {
	var token string
	err := r.db.QueryRowContext(ctx,
		`SELECT token FROM auth_tokens WHERE user_id = $1 ORDER BY created_at LIMIT 1`,
		userID,
	).Scan(&token)
	if err == nil {
		return token, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", false, fmt.Errorf("failed to look up existing token: %w", err)
	}

	token, err = mintToken()
	if err != nil {
		return "", false, fmt.Errorf("failed to mint token: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO auth_tokens (id, user_id, token, created_at) VALUES ($1, $2, $3, $4)`,
		uuid.New(), userID, token, time.Now().UTC(),
	)
	if err != nil {
		return "", false, fmt.Errorf("failed to insert token: %w", err)
	}

	return token, true, nil
}

// Revoke deletes all tokens owned by the user and drops their cache
// entries. The Postgres rows go first: dropping the cache before the
// rows would let a concurrent Resolve re-fill the cache from a
// still-present row and keep the revoked token alive until its TTL.
// Revoking a user with no tokens is not an error.
func (r *TokenRepository) Revoke(ctx context.Context, userID uuid.UUID) error {
	var keys []string
	if r.cache != nil {
		rows, err := r.db.QueryContext(ctx, `SELECT token FROM auth_tokens WHERE user_id = $1`, userID)
		if err != nil {
			return fmt.Errorf("failed to list tokens for revoke: %w", err)
		}
		for rows.Next() {
			var token string
			if err := rows.Scan(&token); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan token row: %w", err)
			}
			keys = append(keys, TokenCacheKeyPrefix+token)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("error iterating token rows: %w", err)
		}
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM auth_tokens WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete tokens: %w", err)
	}

	if r.cache != nil && len(keys) > 0 {
		if err := r.cache.Del(ctx, keys...).Err(); err != nil {
			// Cache entries expire on their own; the row delete above
			// is what actually revokes.
			log.Printf("WARN: failed to drop token cache entries: %v", err)
		}
	}

	return nil
}

// Resolve maps a token back to its owning user. Returns ErrNotFound for
// unknown or revoked tokens.
func (r *TokenRepository) Resolve(ctx context.Context, token string) (models.User, error) {
	if token == "" {
		return models.User{}, ErrNotFound
	}

	if r.cache != nil {
		if idStr, err := r.cache.Get(ctx, TokenCacheKeyPrefix+token).Result(); err == nil {
			if userID, err := uuid.Parse(idStr); err == nil {
				user, err := NewUserRepository(r.db).GetByID(ctx, userID)
				if err == nil {
					return user, nil
				}
				if !errors.Is(err, ErrNotFound) {
					return models.User{}, err
				}
				// User gone but cache entry survived; fall through.
			}
		}
	}

	query := `
		SELECT u.id, u.email, u.password_hash, u.is_active, u.created_at
		FROM auth_tokens t
		JOIN users u ON u.id = t.user_id
		WHERE t.token = $1
	`
	var user models.User
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.IsActive, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("failed to resolve token: %w", err)
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, TokenCacheKeyPrefix+token, user.ID.String(), TokenCacheTTL).Err(); err != nil {
			log.Printf("WARN: failed to cache token resolution: %v", err)
		}
	}

	return user, nil
}

// mintToken generates a cryptographically random opaque token.
func mintToken() (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(tokenBytes), nil
}
