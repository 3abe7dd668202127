package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"innkeep/infras/postgres"
)

func newTransactor(t *testing.T) (postgres.Transactor, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	conn := &postgres.Connection{Write: sqlx.NewDb(db, "sqlmock")}

	return postgres.NewTransactor(conn), mock
}

func TestWithinTransactionCommits(t *testing.T) {
	transactor, mock := newTransactor(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := transactor.WithinTransaction(context.Background(), nil, func(tx *sqlx.Tx) error {
		_, err := tx.Exec("UPDATE bookings SET status = 'cancelled'")

		return err
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTransactionRollsBack(t *testing.T) {
	transactor, mock := newTransactor(t)
	boom := errors.New("conflict")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := transactor.WithinTransaction(context.Background(), nil, func(_ *sqlx.Tx) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTransactionRetriesSerializationFailure(t *testing.T) {
	transactor, mock := newTransactor(t)

	mock.ExpectBegin()
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectCommit()

	calls := 0
	err := transactor.WithinTransaction(context.Background(), postgres.Serializable, func(_ *sqlx.Tx) error {
		calls++
		if calls == 1 {
			return &pq.Error{Code: "40001"}
		}

		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTransactionGivesUp(t *testing.T) {
	transactor, mock := newTransactor(t)

	for range 3 {
		mock.ExpectBegin()
		mock.ExpectRollback()
	}

	calls := 0
	err := transactor.WithinTransaction(context.Background(), postgres.Serializable, func(_ *sqlx.Tx) error {
		calls++

		return &pq.Error{Code: "40001"}
	})

	var pqErr *pq.Error
	require.ErrorAs(t, err, &pqErr)
	assert.Equal(t, 3, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}
