package postgres

//go:generate go run go.uber.org/mock/mockgen -source=./transaction.go -destination=./mocks/transaction_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	serializationFailure = "40001"
	maxSerializableTries = 3
)

// Serializable is the isolation level booking writes run under.
var Serializable = &sql.TxOptions{Isolation: sql.LevelSerializable}

type Transactor interface {
	// WithinTransaction commits when fn returns nil and rolls back otherwise.
	// Serializable transactions are retried on serialization failures.
	WithinTransaction(ctx context.Context, opts *sql.TxOptions, fn func(tx *sqlx.Tx) error) error
}

type transactor struct {
	db *sqlx.DB
}

func NewTransactor(conn *Connection) Transactor {
	return &transactor{db: conn.Write}
}

func (t *transactor) WithinTransaction(ctx context.Context, opts *sql.TxOptions, fn func(tx *sqlx.Tx) error) error {
	tries := 1
	if opts != nil && opts.Isolation == sql.LevelSerializable {
		tries = maxSerializableTries
	}

	var err error

	for attempt := 1; attempt <= tries; attempt++ {
		err = t.run(ctx, opts, fn)
		if err == nil || !isSerializationFailure(err) || ctx.Err() != nil {
			return err
		}

		log.Warn().Err(err).Int("attempt", attempt).Msg("Serialization failure, retrying transaction")
	}

	return err
}

func (t *transactor) run(ctx context.Context, opts *sql.TxOptions, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := t.db.BeginTxx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Error().Err(rbErr).Msg("failed to rollback transaction")
		}

		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func isSerializationFailure(err error) bool {
	var pqErr *pq.Error

	return errors.As(err, &pqErr) && pqErr.Code == serializationFailure
}
