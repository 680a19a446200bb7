package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/arjunvn/melodia-backend/internal/apperr"
	"github.com/arjunvn/melodia-backend/internal/models"
	"github.com/arjunvn/melodia-backend/internal/store"
)

// Profile reads and patches the combined identity+profile view.
type Profile struct {
	db       *sql.DB
	profiles *store.ProfileRepository
}

func NewProfile(db *sql.DB) *Profile {
	return &Profile{
		db:       db,
		profiles: store.NewProfileRepository(db),
	}
}

// Get joins the user's identity fields with their profile attributes.
func (s *Profile) Get(ctx context.Context, user models.User) (models.ProfileView, error) {
	profile, err := s.profiles.GetByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.ProfileView{}, apperr.NotFound("Profile not found")
		}
		return models.ProfileView{}, apperr.Internal("Failed to load profile", err)
	}

	view := models.ProfileView{
		Email:     user.Email,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		Gender:    profile.Gender,
		City:      profile.City,
		Country:   profile.Country,
	}
	if profile.DateOfBirth != nil {
		view.DateOfBirth = profile.DateOfBirth.Format("2006-01-02")
	}

	return view, nil
}

// Update applies a partial patch across the users and user_profiles
// tables inside one transaction, so a failure on either side rolls the
// whole update back.
func (s *Profile) Update(ctx context.Context, user models.User, patch models.ProfilePatch) error {
	if patch.Gender != nil && !models.ValidGender(strings.ToLower(*patch.Gender)) {
		return apperr.InvalidInput("Gender must be one of: male, female, other")
	}
	if patch.Gender != nil {
		g := strings.ToLower(*patch.Gender)
		patch.Gender = &g
	}
	if patch.DateOfBirth != nil && *patch.DateOfBirth != "" {
		if _, err := time.Parse("2006-01-02", *patch.DateOfBirth); err != nil {
			return apperr.InvalidInput("Date of birth must be YYYY-MM-DD")
		}
	}
	if patch.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*patch.Email))
		if email == "" || !strings.Contains(email, "@") {
			return apperr.InvalidInput("A valid email address is required")
		}
		patch.Email = &email
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Internal("Failed to update profile", err)
	}
	defer tx.Rollback()

	if patch.Email != nil && *patch.Email != user.Email {
		err := store.NewUserRepository(tx).UpdateEmail(ctx, user.ID, *patch.Email)
		if err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return apperr.Duplicate("Email is already registered")
			}
			return apperr.Internal("Failed to update email", err)
		}
	}

	if _, err := store.NewProfileRepository(tx).Update(ctx, user.ID, patch); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("Profile not found")
		}
		return apperr.Internal("Failed to update profile", err)
	}

	if err := tx.Commit(); err != nil {
		return apperr.Internal("Failed to update profile", err)
	}

	return nil
}
