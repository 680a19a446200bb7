package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/arjunvn/melodia-backend/internal/models"
)

// TrackRepository handles database operations for the saved_tracks
// table.
type TrackRepository struct {
	db DBTX
}

func NewTrackRepository(db DBTX) *TrackRepository {
	return &TrackRepository{db: db}
}

// Save stores a normalized track for a user. Saving the same
// title/artist pair twice is a no-op.
func (r *TrackRepository) Save(ctx context.Context, userID uuid.UUID, track models.Track) error {
	query := `
		INSERT INTO saved_tracks (id, user_id, title, artist, release_date, artwork_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, title, artist) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query,
		uuid.New(), userID, track.Title, track.Artist, track.ReleaseDate, track.ArtworkURL, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save track: %w", err)
	}
	return nil
}

// ListByUser returns a user's saved tracks, newest first.
func (r *TrackRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Track, error) {
	query := `
		SELECT title, artist, release_date, artwork_url
		FROM saved_tracks WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query saved tracks: %w", err)
	}
	defer rows.Close()

	var tracks []models.Track
	for rows.Next() {
		var t models.Track
		if err := rows.Scan(&t.Title, &t.Artist, &t.ReleaseDate, &t.ArtworkURL); err != nil {
			return nil, fmt.Errorf("failed to scan saved track row: %w", err)
		}
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating saved track rows: %w", err)
	}

	return tracks, nil
}
