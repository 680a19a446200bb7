package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arjunvn/melodia-backend/internal/apperr"
	"github.com/arjunvn/melodia-backend/pkg/utils"
)

func newAuthWithMock(t *testing.T) (*Auth, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewAuth(db, nil), mock
}

func userRow(id uuid.UUID, email, hash string, active bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "password_hash", "is_active", "created_at"}).
		AddRow(id, email, hash, active, time.Now())
}

func TestAuth_Register(t *testing.T) {
	auth, mock := newAuthWithMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), "a@x.com", sqlmock.AnyArg(), true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO user_profiles").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT token FROM auth_tokens").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO auth_tokens").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	token, err := auth.Register(context.Background(), "a@x.com", "pw123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuth_Register_NormalizesEmail(t *testing.T) {
	auth, mock := newAuthWithMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), "a@x.com", sqlmock.AnyArg(), true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO user_profiles").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT token FROM auth_tokens").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO auth_tokens").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	_, err := auth.Register(context.Background(), "  A@X.com ", "pw123")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuth_Register_Duplicate(t *testing.T) {
	auth, mock := newAuthWithMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	_, err := auth.Register(context.Background(), "a@x.com", "pw123")
	require.Error(t, err)
	assert.Equal(t, apperr.KindDuplicateIdentifier, apperr.KindOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuth_Register_RollsBackOnProfileFailure(t *testing.T) {
	auth, mock := newAuthWithMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO user_profiles").
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	_, err := auth.Register(context.Background(), "a@x.com", "pw123")
	require.Error(t, err)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuth_Register_MissingFields(t *testing.T) {
	auth, _ := newAuthWithMock(t)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "no email", email: "", password: "pw123"},
		{name: "no password", email: "a@x.com", password: ""},
		{name: "not an email", email: "ax.com", password: "pw123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.Register(context.Background(), tt.email, tt.password)
			assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
		})
	}
}

func TestAuth_Login_ReusesToken(t *testing.T) {
	auth, mock := newAuthWithMock(t)
	hash, err := utils.HashPassword("pw123")
	require.NoError(t, err)
	userID := uuid.New()

	mock.ExpectQuery("SELECT id, email, password_hash, is_active, created_at").
		WithArgs("a@x.com").
		WillReturnRows(userRow(userID, "a@x.com", hash, true))
	mock.ExpectQuery("SELECT token FROM auth_tokens").
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"token"}).AddRow("T1"))

	token, err := auth.Login(context.Background(), "a@x.com", "pw123")
	require.NoError(t, err)
	assert.Equal(t, "T1", token)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuth_Login_WrongPassword(t *testing.T) {
	auth, mock := newAuthWithMock(t)
	hash, err := utils.HashPassword("pw123")
	require.NoError(t, err)

	mock.ExpectQuery("SELECT id, email, password_hash, is_active, created_at").
		WillReturnRows(userRow(uuid.New(), "a@x.com", hash, true))

	_, err = auth.Login(context.Background(), "a@x.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidCredentials, apperr.KindOf(err))
	// No token was issued or rotated.
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuth_Login_UnknownEmail(t *testing.T) {
	auth, mock := newAuthWithMock(t)

	mock.ExpectQuery("SELECT id, email, password_hash, is_active, created_at").
		WillReturnError(sql.ErrNoRows)

	_, err := auth.Login(context.Background(), "nobody@x.com", "pw123")
	assert.Equal(t, apperr.KindInvalidCredentials, apperr.KindOf(err))
}

func TestAuth_Login_InactiveAccount(t *testing.T) {
	auth, mock := newAuthWithMock(t)
	hash, err := utils.HashPassword("pw123")
	require.NoError(t, err)

	mock.ExpectQuery("SELECT id, email, password_hash, is_active, created_at").
		WillReturnRows(userRow(uuid.New(), "a@x.com", hash, false))

	_, err = auth.Login(context.Background(), "a@x.com", "pw123")
	assert.Equal(t, apperr.KindInvalidCredentials, apperr.KindOf(err))
}

func TestAuth_Logout(t *testing.T) {
	auth, mock := newAuthWithMock(t)
	userID := uuid.New()

	mock.ExpectExec("DELETE FROM auth_tokens").
		WithArgs(userID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, auth.Logout(context.Background(), userID))
}

func TestAuth_Authenticate(t *testing.T) {
	auth, mock := newAuthWithMock(t)
	userID := uuid.New()

	mock.ExpectQuery("SELECT u.id, u.email, u.password_hash, u.is_active, u.created_at").
		WithArgs("T1").
		WillReturnRows(userRow(userID, "a@x.com", "hashed", true))

	user, err := auth.Authenticate(context.Background(), "T1")
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
}

func TestAuth_Authenticate_RevokedToken(t *testing.T) {
	auth, mock := newAuthWithMock(t)

	mock.ExpectQuery("SELECT u.id, u.email, u.password_hash, u.is_active, u.created_at").
		WillReturnError(sql.ErrNoRows)

	_, err := auth.Authenticate(context.Background(), "T1")
	assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
}

func TestAuth_Authenticate_InactiveUser(t *testing.T) {
	auth, mock := newAuthWithMock(t)

	mock.ExpectQuery("SELECT u.id, u.email, u.password_hash, u.is_active, u.created_at").
		WillReturnRows(userRow(uuid.New(), "a@x.com", "hashed", false))

	_, err := auth.Authenticate(context.Background(), "T1")
	assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
}
