// Package store is the persistence layer for accounts, clients and their
// associations. It speaks manual SQL through sqlx against the class-table
// schema: every account has one row in the accounts base table and exactly
// one row in the table matching its type, and reads go through the
// flattened account_details view. Multi-statement operations run on a
// single transaction and either commit together or leave nothing behind.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/adonese/bankd/apperr"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// Store provides manual-SQL data access.
type Store struct {
	DB  *DB
	Log *logrus.Logger
}

func New(db *DB, log *logrus.Logger) *Store {
	if log == nil {
		log = logrus.New()
	}
	return &Store{DB: db, Log: log}
}

func (s *Store) ensureDB() (*sqlx.DB, error) {
	if s == nil || s.DB == nil || s.DB.DB == nil {
		return nil, fmt.Errorf("nil db")
	}
	return s.DB.DB, nil
}

// begin opens the one transaction a composite operation runs on. Callers
// must either Commit or let the deferred Rollback undo everything.
func (s *Store) begin(ctx context.Context) (*sqlx.Tx, error) {
	if s == nil || s.DB == nil {
		return nil, apperr.Wrap(fmt.Errorf("nil db"), apperr.ErrDatabase, "")
	}
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.ErrDatabase, "could not begin transaction")
	}
	return tx, nil
}

// isUniqueViolation recognizes unique/primary-key constraint errors from
// both supported drivers. The database constraint is the backstop for
// concurrent inserts racing on the same key.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// insertReturningID runs an INSERT and reports the generated key, papering
// over the drivers disagreeing on how to get it.
func insertReturningID(ctx context.Context, q sqlx.ExtContext, query string, args ...any) (int64, error) {
	if q.DriverName() == DriverPostgres {
		var id int64
		if err := sqlx.GetContext(ctx, q, &id, q.Rebind(query+" RETURNING id"), args...); err != nil {
			return 0, err
		}
		return id, nil
	}
	res, err := q.ExecContext(ctx, q.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
