package store

import (
	"context"
	"time"

	"github.com/adonese/bankd/apperr"
	"github.com/jmoiron/sqlx"
)

// Association is one account-client link, joined with the display fields
// the listing needs.
type Association struct {
	AccountID     int64     `db:"account_id" json:"account_id"`
	AccountNumber int64     `db:"account_number" json:"account_number"`
	ClientID      int64     `db:"client_id" json:"client_id"`
	ClientName    string    `db:"client_name" json:"client_name"`
	LinkedAt      time.Time `db:"linked_at" json:"linked_at"`
}

// Associate links a client to an account. The pair check and the insert
// run in one transaction; an already-linked pair is a conflict, not a
// no-op.
func (s *Store) Associate(ctx context.Context, accountID, clientID int64) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := associateTx(ctx, tx, accountID, clientID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return apperr.Wrap(err, apperr.ErrDatabase, "")
	}
	return nil
}

func associateTx(ctx context.Context, q sqlx.ExtContext, accountID, clientID int64) error {
	var n int
	stmt := q.Rebind(`SELECT COUNT(1) FROM account_clients WHERE account_id = ? AND client_id = ?`)
	if err := sqlx.GetContext(ctx, q, &n, stmt, accountID, clientID); err != nil {
		return apperr.Wrap(err, apperr.ErrDatabase, "")
	}
	if n > 0 {
		return apperr.ErrDuplicateAssociation
	}
	ins := q.Rebind(`INSERT INTO account_clients (account_id, client_id, linked_at) VALUES (?, ?, ?)`)
	if _, err := q.ExecContext(ctx, ins, accountID, clientID, time.Now().UTC()); err != nil {
		if isUniqueViolation(err) {
			return apperr.Wrap(err, apperr.ErrDuplicateAssociation, "")
		}
		return apperr.Wrap(err, apperr.ErrDatabase, "")
	}
	return nil
}

// Disassociate removes one association row and reports whether anything
// was actually removed.
func (s *Store) Disassociate(ctx context.Context, accountID, clientID int64) (bool, error) {
	db, err := s.ensureDB()
	if err != nil {
		return false, apperr.Wrap(err, apperr.ErrDatabase, "")
	}
	return deleteAssociationTx(ctx, db, accountID, clientID)
}

func deleteAssociationTx(ctx context.Context, q sqlx.ExtContext, accountID, clientID int64) (bool, error) {
	stmt := q.Rebind(`DELETE FROM account_clients WHERE account_id = ? AND client_id = ?`)
	res, err := q.ExecContext(ctx, stmt, accountID, clientID)
	if err != nil {
		return false, apperr.Wrap(err, apperr.ErrDatabase, "")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperr.Wrap(err, apperr.ErrDatabase, "")
	}
	return n > 0, nil
}

func clientAssociationCount(ctx context.Context, q sqlx.ExtContext, clientID int64) (int, error) {
	var n int
	stmt := q.Rebind(`SELECT COUNT(1) FROM account_clients WHERE client_id = ?`)
	if err := sqlx.GetContext(ctx, q, &n, stmt, clientID); err != nil {
		return 0, apperr.Wrap(err, apperr.ErrDatabase, "")
	}
	return n, nil
}

// ListAssociations returns every account-client link in association order.
func (s *Store) ListAssociations(ctx context.Context) ([]Association, error) {
	db, err := s.ensureDB()
	if err != nil {
		return nil, apperr.Wrap(err, apperr.ErrDatabase, "")
	}
	var out []Association
	stmt := `SELECT ac.account_id, a.account_number, ac.client_id, c.name AS client_name, ac.linked_at
		FROM account_clients ac
		JOIN accounts a ON a.id = ac.account_id
		JOIN clients c ON c.id = ac.client_id
		ORDER BY ac.linked_at, ac.account_id, ac.client_id`
	if err := db.SelectContext(ctx, &out, stmt); err != nil {
		return nil, apperr.Wrap(err, apperr.ErrDatabase, "")
	}
	return out, nil
}
