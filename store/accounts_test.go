package store

import (
	"context"
	"testing"
	"time"

	"github.com/adonese/bankd/apperr"
	"github.com/adonese/bankd/bank"
	"github.com/stretchr/testify/require"
)

func TestInsertAndFetchRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mortgage, err := bank.NewMortgage(3001, 1, "Yael", 900_000, 4_500, 20)
	require.NoError(t, err)
	savings, err := bank.NewSavings(4001, 1, "Omer", 10_000, 5)
	require.NoError(t, err)

	accounts := []bank.Account{
		bank.NewRegularChecking(1001, 1, "Dana", 5_000),
		bank.NewBusinessChecking(2001, 1, "Rami", 50_000, 12_000_000),
		mortgage,
		savings,
	}
	for _, acc := range accounts {
		require.NoError(t, s.InsertAccount(ctx, acc))
		require.True(t, acc.AccountBase().HasID(), "identity should be set after insert")
	}

	for _, want := range accounts {
		got, err := s.FetchByNumber(ctx, want.AccountBase().Number)
		require.NoError(t, err)
		require.NotNil(t, got, "account %d not found", want.AccountBase().Number)

		require.Equal(t, want.Type(), got.Type())
		require.Equal(t, want.AccountBase().ID, got.AccountBase().ID)
		require.Equal(t, want.AccountBase().Number, got.AccountBase().Number)
		require.Equal(t, want.AccountBase().BankNumber, got.AccountBase().BankNumber)
		require.Equal(t, want.AccountBase().ManagerName, got.AccountBase().ManagerName)
		require.Equal(t, want.AccountBase().Balance, got.AccountBase().Balance)
		require.WithinDuration(t, want.AccountBase().DateOpened, got.AccountBase().DateOpened, time.Second)

		switch w := want.(type) {
		case *bank.RegularChecking:
			g := got.(*bank.RegularChecking)
			require.Equal(t, w.CreditLimit, g.CreditLimit)
			require.Equal(t, w.Profit(), g.Profit())
		case *bank.BusinessChecking:
			g := got.(*bank.BusinessChecking)
			require.Equal(t, w.CreditLimit, g.CreditLimit)
			require.Equal(t, w.BusinessRevenue, g.BusinessRevenue)
			require.Equal(t, w.ManagementFee(), g.ManagementFee())
		case *bank.Mortgage:
			g := got.(*bank.Mortgage)
			require.Equal(t, w.OriginalAmount, g.OriginalAmount)
			require.Equal(t, w.MonthlyPayment, g.MonthlyPayment)
			require.Equal(t, w.Years, g.Years)
			require.Equal(t, w.Profit(), g.Profit())
			require.Equal(t, w.ManagementFee(), g.ManagementFee())
		case *bank.Savings:
			g := got.(*bank.Savings)
			require.Equal(t, w.DepositAmount, g.DepositAmount)
			require.Equal(t, w.Years, g.Years)
		}
	}
}

func TestInsertDuplicateAccountNumber(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.InsertAccount(ctx, bank.NewRegularChecking(1001, 1, "Dana", 5_000)))

	dup := bank.NewBusinessChecking(1001, 1, "Rami", 50_000, 1_000_000)
	err := s.InsertAccount(ctx, dup)
	require.ErrorIs(t, err, apperr.ErrDuplicateAccountNumber)
	require.False(t, dup.HasID(), "failed insert must not assign identity")
	require.Equal(t, 1, countRows(t, s, "accounts"))
}

func TestInsertUnknownSubtypeRollsBackBaseRow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	acc := &pensionAccount{Base: bank.Base{
		Number:      999,
		DateOpened:  time.Now(),
		BankNumber:  1,
		ManagerName: "Noa",
		Balance:     bank.OpeningBalance,
	}}
	err := s.InsertAccount(ctx, acc)
	require.ErrorIs(t, err, apperr.ErrMalformedRecord)

	// the base insert must not survive the failed subtype insert
	require.Equal(t, 0, countRows(t, s, "accounts"))
	require.False(t, acc.HasID())

	exists, err := s.Exists(ctx, 999)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestFetchByType(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.InsertAccount(ctx, bank.NewRegularChecking(1001, 1, "Dana", 5_000)))
	require.NoError(t, s.InsertAccount(ctx, bank.NewRegularChecking(1002, 1, "Dana", 7_000)))
	require.NoError(t, s.InsertAccount(ctx, bank.NewBusinessChecking(2001, 1, "Rami", 50_000, 1_000_000)))

	regulars, err := s.FetchByType(ctx, bank.TypeRegularChecking)
	require.NoError(t, err)
	require.Len(t, regulars, 2)
	for _, acc := range regulars {
		require.Equal(t, bank.TypeRegularChecking, acc.Type())
	}

	savings, err := s.FetchByType(ctx, bank.TypeSavings)
	require.NoError(t, err)
	require.Empty(t, savings)
}

func TestFetchByNumberMissIsNotAnError(t *testing.T) {
	s := newTestStore(t)
	acc, err := s.FetchByNumber(context.Background(), 424242)
	require.NoError(t, err)
	require.Nil(t, acc)
}

func TestFetchAllSkipsMalformedRows(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.InsertAccount(ctx, bank.NewRegularChecking(1001, 1, "Dana", 5_000)))

	// a base row with a discriminator the mapper does not know
	_, err := s.DB.Exec(
		`INSERT INTO accounts (account_number, account_type, date_opened, bank_number, balance, manager_name)
		 VALUES (7777, 'Pension Account', ?, 1, 20.0, 'Noa')`, time.Now().UTC())
	require.NoError(t, err)
	// a known discriminator whose subtype row is missing
	_, err = s.DB.Exec(
		`INSERT INTO accounts (account_number, account_type, date_opened, bank_number, balance, manager_name)
		 VALUES (8888, ?, ?, 1, 20.0, 'Noa')`, bank.TypeMortgage, time.Now().UTC())
	require.NoError(t, err)

	accounts, err := s.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	require.Equal(t, int64(1001), accounts[0].AccountBase().Number)
}

func TestExists(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	exists, err := s.Exists(ctx, 1001)
	require.NoError(t, err)
	require.False(t, exists)

	require.NoError(t, s.InsertAccount(ctx, bank.NewRegularChecking(1001, 1, "Dana", 5_000)))

	exists, err = s.Exists(ctx, 1001)
	require.NoError(t, err)
	require.True(t, exists)
}
