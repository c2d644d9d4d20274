package store

import (
	"context"
	"testing"

	"github.com/adonese/bankd/apperr"
	"github.com/adonese/bankd/bank"
	"github.com/stretchr/testify/require"
)

func TestCreateAccountWithFirstClient(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	acc := bank.NewBusinessChecking(2001, 1, "Rami", 50_000, 12_000_000)
	first := &bank.Client{Name: "Ana", Rank: 10}
	require.NoError(t, s.CreateAccount(ctx, acc, first))
	require.True(t, acc.HasID())
	require.NotZero(t, first.ID)

	got, err := s.FetchByNumber(ctx, 2001)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.AccountBase().Clients, 1)
	require.Equal(t, "Ana", got.AccountBase().Clients[0].Name)

	require.Equal(t, 1, countRows(t, s, "account_clients"))
}

func TestCreateAccountRollsBackClientAndAssociation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.InsertAccount(ctx, bank.NewRegularChecking(1001, 1, "Dana", 5_000)))

	// duplicate number makes the account insert fail; the first client
	// must not be left behind either
	dup := bank.NewRegularChecking(1001, 1, "Dana", 5_000)
	err := s.CreateAccount(ctx, dup, &bank.Client{Name: "Ana", Rank: 5})
	require.ErrorIs(t, err, apperr.ErrDuplicateAccountNumber)

	require.Equal(t, 0, countRows(t, s, "clients"))
	require.Equal(t, 0, countRows(t, s, "account_clients"))
}

func TestRegisterClientExistingAndNew(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	acc := bank.NewRegularChecking(1001, 1, "Dana", 5_000)
	require.NoError(t, s.CreateAccount(ctx, acc, &bank.Client{Name: "Ana", Rank: 5}))

	// a brand new client
	ben := &bank.Client{Name: "Ben", Rank: 3}
	require.NoError(t, s.RegisterClient(ctx, 1001, ben))
	require.NotZero(t, ben.ID)

	// an existing client on a second account
	sv, err := bank.NewSavings(4001, 1, "Omer", 10_000, 5)
	require.NoError(t, err)
	require.NoError(t, s.CreateAccount(ctx, sv, nil))
	require.NoError(t, s.RegisterClient(ctx, 4001, ben))

	got, err := s.FetchByNumber(ctx, 1001)
	require.NoError(t, err)
	require.Len(t, got.AccountBase().Clients, 2)
	// association order preserved
	require.Equal(t, "Ana", got.AccountBase().Clients[0].Name)
	require.Equal(t, "Ben", got.AccountBase().Clients[1].Name)
}

func TestRegisterClientDuplicateAssociation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	acc := bank.NewRegularChecking(1001, 1, "Dana", 5_000)
	ana := &bank.Client{Name: "Ana", Rank: 5}
	require.NoError(t, s.CreateAccount(ctx, acc, ana))

	err := s.RegisterClient(ctx, 1001, ana)
	require.ErrorIs(t, err, apperr.ErrDuplicateAssociation)
	require.Equal(t, 1, countRows(t, s, "account_clients"))
}

func TestRegisterClientAccountNotFound(t *testing.T) {
	s := newTestStore(t)
	err := s.RegisterClient(context.Background(), 9999, &bank.Client{Name: "Ana", Rank: 5})
	require.ErrorIs(t, err, apperr.ErrAccountNotFound)
	// nothing may be left behind, the client insert included
	require.Equal(t, 0, countRows(t, s, "clients"))
}

func TestRemoveClientCascadesWhenOrphaned(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	acc := bank.NewRegularChecking(1001, 1, "Dana", 5_000)
	ana := &bank.Client{Name: "Ana", Rank: 5}
	require.NoError(t, s.CreateAccount(ctx, acc, ana))

	clientDeleted, err := s.RemoveClientFromAccount(ctx, 1001, ana.ID)
	require.NoError(t, err)
	require.True(t, clientDeleted)

	gone, err := s.FetchClient(ctx, ana.ID)
	require.NoError(t, err)
	require.Nil(t, gone)
	require.Equal(t, 0, countRows(t, s, "account_clients"))
}

func TestRemoveClientRetainedWhileAssociatedElsewhere(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := bank.NewRegularChecking(1001, 1, "Dana", 5_000)
	ana := &bank.Client{Name: "Ana", Rank: 5}
	require.NoError(t, s.CreateAccount(ctx, first, ana))

	second := bank.NewBusinessChecking(2001, 1, "Rami", 50_000, 1_000_000)
	require.NoError(t, s.CreateAccount(ctx, second, nil))
	require.NoError(t, s.RegisterClient(ctx, 2001, ana))

	clientDeleted, err := s.RemoveClientFromAccount(ctx, 1001, ana.ID)
	require.NoError(t, err)
	require.False(t, clientDeleted)

	kept, err := s.FetchClient(ctx, ana.ID)
	require.NoError(t, err)
	require.NotNil(t, kept)

	// the other association is untouched
	remaining, err := s.FetchByNumber(ctx, 2001)
	require.NoError(t, err)
	require.Len(t, remaining.AccountBase().Clients, 1)
	require.Equal(t, ana.ID, remaining.AccountBase().Clients[0].ID)
}

func TestRemoveClientErrorTaxonomy(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	acc := bank.NewRegularChecking(1001, 1, "Dana", 5_000)
	ana := &bank.Client{Name: "Ana", Rank: 5}
	require.NoError(t, s.CreateAccount(ctx, acc, ana))

	ben := &bank.Client{Name: "Ben", Rank: 3}
	require.NoError(t, s.InsertClient(ctx, ben))

	_, err := s.RemoveClientFromAccount(ctx, 9999, ana.ID)
	require.ErrorIs(t, err, apperr.ErrAccountNotFound)

	_, err = s.RemoveClientFromAccount(ctx, 1001, 4242)
	require.ErrorIs(t, err, apperr.ErrClientNotFound)

	// both exist but were never linked
	_, err = s.RemoveClientFromAccount(ctx, 1001, ben.ID)
	require.ErrorIs(t, err, apperr.ErrAssociationNotFound)

	// the probe attempts must not have removed anything
	require.Equal(t, 1, countRows(t, s, "account_clients"))
	require.Equal(t, 2, countRows(t, s, "clients"))
}

func TestDisassociateReportsWhetherRemoved(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	acc := bank.NewRegularChecking(1001, 1, "Dana", 5_000)
	ana := &bank.Client{Name: "Ana", Rank: 5}
	require.NoError(t, s.CreateAccount(ctx, acc, ana))

	removed, err := s.Disassociate(ctx, acc.ID, ana.ID)
	require.NoError(t, err)
	require.True(t, removed)

	removed, err = s.Disassociate(ctx, acc.ID, ana.ID)
	require.NoError(t, err)
	require.False(t, removed)
}

func TestListAssociations(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	acc := bank.NewRegularChecking(1001, 1, "Dana", 5_000)
	require.NoError(t, s.CreateAccount(ctx, acc, &bank.Client{Name: "Ana", Rank: 5}))
	require.NoError(t, s.RegisterClient(ctx, 1001, &bank.Client{Name: "Ben", Rank: 3}))

	associations, err := s.ListAssociations(ctx)
	require.NoError(t, err)
	require.Len(t, associations, 2)
	require.Equal(t, int64(1001), associations[0].AccountNumber)
	require.Equal(t, "Ana", associations[0].ClientName)
	require.Equal(t, "Ben", associations[1].ClientName)
}
