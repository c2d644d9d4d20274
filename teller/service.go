// Package teller exposes the bank's use cases. A Service wraps the store
// and offers the operations the outer surfaces need, both as plain methods
// and as gin handlers. Failures come back as apperr errors so the handlers
// can answer with a status and a human-readable message.
package teller

import (
	"context"
	"fmt"

	"github.com/adonese/bankd/apperr"
	"github.com/adonese/bankd/bank"
	"github.com/adonese/bankd/store"
	"github.com/sirupsen/logrus"
)

type Service struct {
	Store  *store.Store
	Logger *logrus.Logger
}

// ListAccounts returns every account with its clients loaded.
func (s *Service) ListAccounts(ctx context.Context) ([]bank.Account, error) {
	return s.Store.FetchAll(ctx)
}

// ListAccountsByType returns the accounts of one variant. The type must be
// one of the four known discriminators.
func (s *Service) ListAccountsByType(ctx context.Context, accountType string) ([]bank.Account, error) {
	if !knownType(accountType) {
		return nil, apperr.WithMessage(apperr.ErrBadRequest,
			fmt.Sprintf("unknown account type %q", accountType))
	}
	return s.Store.FetchByType(ctx, accountType)
}

// ListProfitAccounts returns only the accounts that produce an annual
// profit.
func (s *Service) ListProfitAccounts(ctx context.Context) ([]bank.Account, error) {
	accounts, err := s.Store.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]bank.Account, 0, len(accounts))
	for _, acc := range accounts {
		if _, ok := acc.(bank.ProfitAccount); ok {
			out = append(out, acc)
		}
	}
	return out, nil
}

// GetAccount fetches one account by its business key.
func (s *Service) GetAccount(ctx context.Context, accountNumber int64) (bank.Account, error) {
	acc, err := s.Store.FetchByNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, apperr.ErrAccountNotFound
	}
	return acc, nil
}

func (s *Service) ListClients(ctx context.Context) ([]*bank.Client, error) {
	return s.Store.ListClients(ctx)
}

func (s *Service) ListAssociations(ctx context.Context) ([]store.Association, error) {
	return s.Store.ListAssociations(ctx)
}

// CreateAccount builds the requested variant and persists it together with
// its first client in one transaction.
func (s *Service) CreateAccount(ctx context.Context, req CreateAccountRequest) (bank.Account, error) {
	acc, err := req.build()
	if err != nil {
		return nil, err
	}
	var first *bank.Client
	if req.FirstClient != nil {
		first, err = bank.NewClient(req.FirstClient.Name, req.FirstClient.Rank)
		if err != nil {
			return nil, apperr.Wrap(err, apperr.ErrValidation, err.Error())
		}
	}
	if err := s.Store.CreateAccount(ctx, acc, first); err != nil {
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{
		"account_number": acc.AccountBase().Number,
		"account_type":   acc.Type(),
		"account_id":     acc.AccountBase().ID,
	}).Info("account created")
	return acc, nil
}

// RegisterClient adds a client to an existing account.
func (s *Service) RegisterClient(ctx context.Context, accountNumber int64, name string, rank int) (*bank.Client, error) {
	c, err := bank.NewClient(name, rank)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.ErrValidation, err.Error())
	}
	if err := s.Store.RegisterClient(ctx, accountNumber, c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateClientRank issues the single rank update statement.
func (s *Service) UpdateClientRank(ctx context.Context, clientID int64, rank int) error {
	return s.Store.UpdateClientRank(ctx, clientID, rank)
}

// RemoveClientFromAccount runs the safe-destructive delete and reports
// whether the client record itself was deleted along with the association.
func (s *Service) RemoveClientFromAccount(ctx context.Context, accountNumber, clientID int64) (bool, error) {
	return s.Store.RemoveClientFromAccount(ctx, accountNumber, clientID)
}

// CheckVIPProfit computes the hypothetical all-ranks-zero profit of a
// business checking account. The live account and its clients are left
// untouched.
func (s *Service) CheckVIPProfit(ctx context.Context, accountNumber int64) (float64, error) {
	acc, err := s.GetAccount(ctx, accountNumber)
	if err != nil {
		return 0, err
	}
	business, ok := acc.(*bank.BusinessChecking)
	if !ok {
		return 0, apperr.WithMessage(apperr.ErrBadRequest,
			fmt.Sprintf("account %d is a %s, not a business checking account", accountNumber, acc.Type()))
	}
	return business.VIPProfit(), nil
}

func knownType(t string) bool {
	for _, known := range bank.AccountTypes() {
		if t == known {
			return true
		}
	}
	return false
}
