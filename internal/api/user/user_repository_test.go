package user

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deweis/fcc-exercise-tracker/internal/types"
)

func TestPostgresUserRepoCreateOrGet(t *testing.T) {
	ctx := context.Background()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewPostgresUserRepo(mockPool, slog.Default())

	t.Run("new username inserts and returns the fresh row", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"id", "username"}).
			AddRow("d290f1ee-6c54-4b01-90e6-d701748f0851", "gen")
		mockPool.ExpectQuery("INSERT INTO users").
			WithArgs(pgxmock.AnyArg(), "gen").
			WillReturnRows(rows)

		u, err := repo.CreateOrGet(ctx, "gen")
		require.NoError(t, err)
		assert.Equal(t, "d290f1ee-6c54-4b01-90e6-d701748f0851", u.ID)
		assert.Equal(t, "gen", u.Username)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("conflicting username returns the existing row", func(t *testing.T) {
		// The upsert RETURNING clause yields the winner's row on conflict, so
		// the freshly generated id is discarded and the stored one comes back.
		rows := pgxmock.NewRows([]string{"id", "username"}).
			AddRow("11111111-2222-3333-4444-555555555555", "gen")
		mockPool.ExpectQuery("INSERT INTO users").
			WithArgs(pgxmock.AnyArg(), "gen").
			WillReturnRows(rows)

		u, err := repo.CreateOrGet(ctx, "gen")
		require.NoError(t, err)
		assert.Equal(t, "11111111-2222-3333-4444-555555555555", u.ID)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("store failure propagates", func(t *testing.T) {
		mockPool.ExpectQuery("INSERT INTO users").
			WithArgs(pgxmock.AnyArg(), "gen").
			WillReturnError(errors.New("connection refused"))

		u, err := repo.CreateOrGet(ctx, "gen")
		assert.Nil(t, u)
		assert.Error(t, err)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPostgresUserRepoGetByID(t *testing.T) {
	ctx := context.Background()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewPostgresUserRepo(mockPool, slog.Default())

	t.Run("found", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"id", "username"}).
			AddRow("d290f1ee-6c54-4b01-90e6-d701748f0851", "gen")
		mockPool.ExpectQuery("SELECT id, username FROM users WHERE id").
			WithArgs("d290f1ee-6c54-4b01-90e6-d701748f0851").
			WillReturnRows(rows)

		u, err := repo.GetByID(ctx, "d290f1ee-6c54-4b01-90e6-d701748f0851")
		require.NoError(t, err)
		assert.Equal(t, "gen", u.Username)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("missing row maps to ErrUserNotFound", func(t *testing.T) {
		mockPool.ExpectQuery("SELECT id, username FROM users WHERE id").
			WithArgs("missing").
			WillReturnRows(pgxmock.NewRows([]string{"id", "username"}))

		u, err := repo.GetByID(ctx, "missing")
		assert.Nil(t, u)
		assert.ErrorIs(t, err, types.ErrUserNotFound)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPostgresUserRepoGetAll(t *testing.T) {
	ctx := context.Background()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewPostgresUserRepo(mockPool, slog.Default())

	t.Run("returns every user in store order", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"id", "username"}).
			AddRow("aiCsi", "den").
			AddRow("aiCsi2", "den2")
		mockPool.ExpectQuery("SELECT id, username FROM users").
			WillReturnRows(rows)

		users, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []types.User{
			{ID: "aiCsi", Username: "den"},
			{ID: "aiCsi2", Username: "den2"},
		}, users)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("empty store yields an empty slice, not nil", func(t *testing.T) {
		mockPool.ExpectQuery("SELECT id, username FROM users").
			WillReturnRows(pgxmock.NewRows([]string{"id", "username"}))

		users, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, users)
		assert.Len(t, users, 0)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}
