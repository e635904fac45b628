package database

import (
	"context"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestWithSavepointReleasesOnSuccess(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	mock.ExpectExec("SAVEPOINT sp_test").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("RELEASE SAVEPOINT sp_test").WillReturnResult(sqlmock.NewResult(0, 0))

	err := WithSavepoint(context.Background(), db, "sp_test", func() error { return nil })
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithSavepointRollsBackOnError(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	mock.ExpectExec("SAVEPOINT sp_test").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("ROLLBACK TO SAVEPOINT sp_test").WillReturnResult(sqlmock.NewResult(0, 0))

	fnErr := errors.New("statement failed")
	err := WithSavepoint(context.Background(), db, "sp_test", func() error { return fnErr })
	// The inner error comes back untouched: the transaction is still usable.
	require.ErrorIs(t, err, fnErr)
	assert.NotErrorIs(t, err, ErrTxBroken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithSavepointBrokenOnSavepointFailure(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	mock.ExpectExec("SAVEPOINT sp_test").WillReturnError(errors.New("connection lost"))

	err := WithSavepoint(context.Background(), db, "sp_test", func() error { return nil })
	require.ErrorIs(t, err, ErrTxBroken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithSavepointBrokenOnRollbackFailure(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	mock.ExpectExec("SAVEPOINT sp_test").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("ROLLBACK TO SAVEPOINT sp_test").WillReturnError(errors.New("connection lost"))

	err := WithSavepoint(context.Background(), db, "sp_test", func() error { return errors.New("statement failed") })
	require.ErrorIs(t, err, ErrTxBroken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTxCommits(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE enrollments").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := WithinTx(context.Background(), db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(context.Background(), "UPDATE enrollments SET program_id = 1")
		return err
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectRollback()

	fnErr := errors.New("bulk insert failed")
	err := WithinTx(context.Background(), db, func(tx *sqlx.Tx) error { return fnErr })
	require.ErrorIs(t, err, fnErr)
	require.NoError(t, mock.ExpectationsWereMet())
}
