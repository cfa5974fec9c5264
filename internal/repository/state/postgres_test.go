package state

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

func newPostgresFixture(t *testing.T) (Repository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgres(mock, nil), mock
}

func TestPostgres_Load(t *testing.T) {
	repo, mock := newPostgresFixture(t)

	mock.ExpectQuery("SELECT blob").
		WithArgs("s1").
		WillReturnRows(pgxmock.NewRows([]string{"blob"}).AddRow(`{"cart":[],"wishlist":[]}`))

	got, err := repo.Load(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, `{"cart":[],"wishlist":[]}`, string(got))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_LoadMissing(t *testing.T) {
	repo, mock := newPostgresFixture(t)

	mock.ExpectQuery("SELECT blob").
		WithArgs("s1").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.Load(context.Background(), "s1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_LoadError(t *testing.T) {
	repo, mock := newPostgresFixture(t)

	mock.ExpectQuery("SELECT blob").
		WithArgs("s1").
		WillReturnError(errors.New("connection refused"))

	_, err := repo.Load(context.Background(), "s1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "select state")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Save(t *testing.T) {
	repo, mock := newPostgresFixture(t)

	mock.ExpectExec("INSERT INTO storefront_states").
		WithArgs("s1", `{"cart":[],"wishlist":[]}`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Save(context.Background(), "s1", []byte(`{"cart":[],"wishlist":[]}`))
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_SaveError(t *testing.T) {
	repo, mock := newPostgresFixture(t)

	mock.ExpectExec("INSERT INTO storefront_states").
		WithArgs("s1", `{}`).
		WillReturnError(errors.New("disk full"))

	err := repo.Save(context.Background(), "s1", []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upsert state")
	assert.NoError(t, mock.ExpectationsWereMet())
}
