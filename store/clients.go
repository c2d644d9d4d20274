package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/adonese/bankd/apperr"
	"github.com/adonese/bankd/bank"
	"github.com/jmoiron/sqlx"
)

type clientRow struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
	Rank int    `db:"rank"`
}

// InsertClient persists a transient client and sets its identity.
func (s *Store) InsertClient(ctx context.Context, c *bank.Client) error {
	db, err := s.ensureDB()
	if err != nil {
		return apperr.Wrap(err, apperr.ErrDatabase, "")
	}
	id, err := insertClientTx(ctx, db, c)
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

func insertClientTx(ctx context.Context, q sqlx.ExtContext, c *bank.Client) (int64, error) {
	if c.Rank < 0 || c.Rank > bank.RankMax {
		return 0, apperr.WithMessage(apperr.ErrValidation,
			fmt.Sprintf("rank %d out of range [0,%d]", c.Rank, bank.RankMax))
	}
	id, err := insertReturningID(ctx, q,
		`INSERT INTO clients (name, rank) VALUES (?, ?)`, c.Name, c.Rank)
	if err != nil {
		return 0, apperr.Wrap(err, apperr.ErrDatabase, "")
	}
	return id, nil
}

// FetchClient loads one client by id. A miss returns (nil, nil).
func (s *Store) FetchClient(ctx context.Context, id int64) (*bank.Client, error) {
	db, err := s.ensureDB()
	if err != nil {
		return nil, apperr.Wrap(err, apperr.ErrDatabase, "")
	}
	var row clientRow
	stmt := s.DB.Rebind(`SELECT id, name, rank FROM clients WHERE id = ?`)
	if err := db.GetContext(ctx, &row, stmt, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.Wrap(err, apperr.ErrDatabase, "")
	}
	return &bank.Client{ID: row.ID, Name: row.Name, Rank: row.Rank}, nil
}

// ListClients returns every client ordered by id.
func (s *Store) ListClients(ctx context.Context) ([]*bank.Client, error) {
	db, err := s.ensureDB()
	if err != nil {
		return nil, apperr.Wrap(err, apperr.ErrDatabase, "")
	}
	var rows []clientRow
	if err := db.SelectContext(ctx, &rows, `SELECT id, name, rank FROM clients ORDER BY id`); err != nil {
		return nil, apperr.Wrap(err, apperr.ErrDatabase, "")
	}
	clients := make([]*bank.Client, 0, len(rows))
	for _, row := range rows {
		clients = append(clients, &bank.Client{ID: row.ID, Name: row.Name, Rank: row.Rank})
	}
	return clients, nil
}

// UpdateClientRank changes a client's rank with exactly one UPDATE
// statement, so the rank audit trigger fires once per logical change.
func (s *Store) UpdateClientRank(ctx context.Context, id int64, rank int) error {
	if rank < 0 || rank > bank.RankMax {
		return apperr.WithMessage(apperr.ErrValidation,
			fmt.Sprintf("rank %d out of range [0,%d]", rank, bank.RankMax))
	}
	db, err := s.ensureDB()
	if err != nil {
		return apperr.Wrap(err, apperr.ErrDatabase, "")
	}
	stmt := s.DB.Rebind(`UPDATE clients SET rank = ? WHERE id = ?`)
	res, err := db.ExecContext(ctx, stmt, rank, id)
	if err != nil {
		return apperr.Wrap(err, apperr.ErrDatabase, "")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Wrap(err, apperr.ErrDatabase, "")
	}
	if n == 0 {
		return apperr.ErrClientNotFound
	}
	return nil
}

func clientExists(ctx context.Context, q sqlx.ExtContext, id int64) (bool, error) {
	var n int
	stmt := q.Rebind(`SELECT COUNT(1) FROM clients WHERE id = ?`)
	if err := sqlx.GetContext(ctx, q, &n, stmt, id); err != nil {
		return false, apperr.Wrap(err, apperr.ErrDatabase, "")
	}
	return n > 0, nil
}

func deleteClientTx(ctx context.Context, q sqlx.ExtContext, id int64) error {
	stmt := q.Rebind(`DELETE FROM clients WHERE id = ?`)
	if _, err := q.ExecContext(ctx, stmt, id); err != nil {
		return apperr.Wrap(err, apperr.ErrDatabase, "")
	}
	return nil
}
