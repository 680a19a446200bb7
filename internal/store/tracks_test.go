package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arjunvn/melodia-backend/internal/models"
)

func TestTrackRepository_Save_Idempotent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTrackRepository(db)
	userID := uuid.New()
	track := models.Track{Title: "Song", Artist: "Band", ReleaseDate: "2024-01-01", ArtworkURL: "https://img"}

	mock.ExpectExec("INSERT INTO saved_tracks").
		WithArgs(sqlmock.AnyArg(), userID, "Song", "Band", "2024-01-01", "https://img", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// Duplicate save: ON CONFLICT DO NOTHING means zero rows affected, no error.
	mock.ExpectExec("INSERT INTO saved_tracks").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Save(context.Background(), userID, track))
	require.NoError(t, repo.Save(context.Background(), userID, track))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTrackRepository_ListByUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTrackRepository(db)
	userID := uuid.New()

	mock.ExpectQuery("SELECT title, artist, release_date, artwork_url").
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"title", "artist", "release_date", "artwork_url"}).
			AddRow("Newer", "Band", "2024-02-01", "").
			AddRow("Older", "Band", "2024-01-01", "https://img"))

	tracks, err := repo.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, tracks, 2)
	assert.Equal(t, "Newer", tracks[0].Title)
	assert.Equal(t, "https://img", tracks[1].ArtworkURL)
}

func TestTrackRepository_ListByUser_Empty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTrackRepository(db)

	mock.ExpectQuery("SELECT title, artist, release_date, artwork_url").
		WillReturnRows(sqlmock.NewRows([]string{"title", "artist", "release_date", "artwork_url"}))

	tracks, err := repo.ListByUser(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, tracks)
}
