package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/arjunvn/melodia-backend/internal/models"
)

// ProfileRepository handles database operations for the user_profiles
// table.
type ProfileRepository struct {
	db DBTX
}

func NewProfileRepository(db DBTX) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// EnsureExists creates the default empty profile row for a user.
// Idempotent: calling it for a user who already has a profile is a
// no-op.
func (r *ProfileRepository) EnsureExists(ctx context.Context, userID uuid.UUID) error {
	query := `
		INSERT INTO user_profiles (id, user_id, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, uuid.New(), userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to ensure profile exists: %w", err)
	}
	return nil
}

// GetByUserID retrieves a user's profile. Returns ErrNotFound when no
// profile row exists.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (models.Profile, error) {
	query := `
		SELECT id, user_id, first_name, last_name, gender, date_of_birth, city, country, updated_at
		FROM user_profiles WHERE user_id = $1
	`
	var profile models.Profile
	var dob sql.NullTime
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&profile.ID, &profile.UserID, &profile.FirstName, &profile.LastName,
		&profile.Gender, &dob, &profile.City, &profile.Country, &profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Profile{}, ErrNotFound
		}
		return models.Profile{}, fmt.Errorf("failed to get profile: %w", err)
	}
	if dob.Valid {
		d := dob.Time
		profile.DateOfBirth = &d
	}

	return profile, nil
}

// getForUpdate reads the profile row under a row lock so the
// read-merge-write in Update cannot lose a concurrent patch. Only
// meaningful when r.db is a transaction, which is how the profile
// service calls Update.
func (r *ProfileRepository) getForUpdate(ctx context.Context, userID uuid.UUID) (models.Profile, error) {
	query := `
		SELECT id, user_id, first_name, last_name, gender, date_of_birth, city, country, updated_at
		FROM user_profiles WHERE user_id = $1
		FOR UPDATE
	`
	var profile models.Profile
	var dob sql.NullTime
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&profile.ID, &profile.UserID, &profile.FirstName, &profile.LastName,
		&profile.Gender, &dob, &profile.City, &profile.Country, &profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Profile{}, ErrNotFound
		}
		return models.Profile{}, fmt.Errorf("failed to lock profile: %w", err)
	}
	if dob.Valid {
		d := dob.Time
		profile.DateOfBirth = &d
	}

	return profile, nil
}

// Update applies a partial patch: nil fields keep their current value,
// non-nil fields overwrite (an empty string clears). Returns the
// updated profile, or ErrNotFound when no profile row exists.
func (r *ProfileRepository) Update(ctx context.Context, userID uuid.UUID, patch models.ProfilePatch) (models.Profile, error) {
	profile, err := r.getForUpdate(ctx, userID)
	if err != nil {
		return models.Profile{}, err
	}

	if patch.FirstName != nil {
		profile.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		profile.LastName = *patch.LastName
	}
	if patch.Gender != nil {
		profile.Gender = *patch.Gender
	}
	if patch.DateOfBirth != nil {
		if *patch.DateOfBirth == "" {
			profile.DateOfBirth = nil
		} else {
			d, err := time.Parse("2006-01-02", *patch.DateOfBirth)
			if err != nil {
				return models.Profile{}, fmt.Errorf("invalid date of birth: %w", err)
			}
			profile.DateOfBirth = &d
		}
	}
	if patch.City != nil {
		profile.City = *patch.City
	}
	if patch.Country != nil {
		profile.Country = *patch.Country
	}
	profile.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE user_profiles
		SET first_name = $1, last_name = $2, gender = $3, date_of_birth = $4,
			city = $5, country = $6, updated_at = $7
		WHERE user_id = $8
	`
	var dob sql.NullTime
	if profile.DateOfBirth != nil {
		dob = sql.NullTime{Time: *profile.DateOfBirth, Valid: true}
	}
	_, err = r.db.ExecContext(ctx, query,
		profile.FirstName, profile.LastName, profile.Gender, dob,
		profile.City, profile.Country, profile.UpdatedAt, userID,
	)
	if err != nil {
		return models.Profile{}, fmt.Errorf("failed to update profile: %w", err)
	}

	return profile, nil
}
