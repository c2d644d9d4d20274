package store

import (
	"context"

	"github.com/adonese/bankd/apperr"
	"github.com/adonese/bankd/bank"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// CreateAccount persists a new account together with its first client and
// their association as one unit of work. New accounts are seeded with a
// first client by convention; pass nil to skip that.
func (s *Store) CreateAccount(ctx context.Context, acc bank.Account, firstClient *bank.Client) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	accountID, err := s.insertAccountTx(ctx, tx, acc)
	if err != nil {
		return err
	}

	var clientID int64
	if firstClient != nil {
		clientID, err = resolveClientTx(ctx, tx, firstClient)
		if err != nil {
			return err
		}
		if err := associateTx(ctx, tx, accountID, clientID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return apperr.Wrap(err, apperr.ErrDatabase, "")
	}

	acc.AccountBase().ID = accountID
	if firstClient != nil {
		firstClient.ID = clientID
		acc.AccountBase().AddClient(firstClient)
	}
	return nil
}

// RegisterClient associates a client with an existing account, inserting
// the client first when it is transient. One transaction covers the
// account lookup, the optional insert and the association.
func (s *Store) RegisterClient(ctx context.Context, accountNumber int64, c *bank.Client) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	accountID, err := accountIDByNumber(ctx, tx, accountNumber)
	if err != nil {
		return err
	}

	clientID, err := resolveClientTx(ctx, tx, c)
	if err != nil {
		return err
	}
	if err := associateTx(ctx, tx, accountID, clientID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperr.Wrap(err, apperr.ErrDatabase, "")
	}
	c.ID = clientID
	return nil
}

// resolveClientTx returns the id of c, inserting it when transient and
// verifying it exists otherwise.
func resolveClientTx(ctx context.Context, tx *sqlx.Tx, c *bank.Client) (int64, error) {
	if c.ID == 0 {
		return insertClientTx(ctx, tx, c)
	}
	exists, err := clientExists(ctx, tx, c.ID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, apperr.ErrClientNotFound
	}
	return c.ID, nil
}

// RemoveClientFromAccount is the safe-destructive delete: it removes the
// association between the account (by business key) and the client, then
// deletes the client record only when no association anywhere still
// references it. The whole protocol is one transaction; any failure rolls
// everything back, including the association delete. It reports whether
// the client record was deleted.
func (s *Store) RemoveClientFromAccount(ctx context.Context, accountNumber, clientID int64) (bool, error) {
	tx, err := s.begin(ctx)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	accountID, err := accountIDByNumber(ctx, tx, accountNumber)
	if err != nil {
		return false, err
	}

	exists, err := clientExists(ctx, tx, clientID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, apperr.ErrClientNotFound
	}

	removed, err := deleteAssociationTx(ctx, tx, accountID, clientID)
	if err != nil {
		return false, err
	}
	if !removed {
		return false, apperr.ErrAssociationNotFound
	}

	remaining, err := clientAssociationCount(ctx, tx, clientID)
	if err != nil {
		return false, err
	}
	clientDeleted := false
	if remaining == 0 {
		if err := deleteClientTx(ctx, tx, clientID); err != nil {
			return false, err
		}
		clientDeleted = true
	}

	if err := tx.Commit(); err != nil {
		return false, apperr.Wrap(err, apperr.ErrDatabase, "")
	}

	s.Log.WithFields(logrus.Fields{
		"account_number": accountNumber,
		"client_id":      clientID,
		"client_deleted": clientDeleted,
	}).Info("client removed from account")
	return clientDeleted, nil
}
