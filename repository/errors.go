package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrNotFound: no row matched the lookup.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey: a unique constraint rejected the write. The
	// slug uniqueness race in create is closed here, at the storage
	// layer, not by the service's existence pre-check.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrSchemaMissing: the schema has not been migrated yet
	// (Postgres undefined_table). Exposed as a typed condition so
	// callers never have to pattern-match error text.
	ErrSchemaMissing = errors.New("database schema not initialized, run migrations")
)

const pgUndefinedTable = "42P01"

// translate maps driver/gorm errors onto the adapter's typed errors.
// Anything unrecognized passes through as an opaque infrastructure
// error.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateKey
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable {
		return ErrSchemaMissing
	}
	return err
}
