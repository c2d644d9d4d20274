package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/adonese/bankd/apperr"
	"github.com/adonese/bankd/bank"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// accountRow is one row of the account_details view: the base columns plus
// all four subtype column groups, of which only the group matching the
// discriminator is non-NULL.
type accountRow struct {
	ID          int64     `db:"id"`
	Number      int64     `db:"account_number"`
	Type        string    `db:"account_type"`
	DateOpened  time.Time `db:"date_opened"`
	BankNumber  int       `db:"bank_number"`
	Balance     float64   `db:"balance"`
	ManagerName string    `db:"manager_name"`

	RcCreditLimit sql.NullFloat64 `db:"rc_credit_limit"`
	RcProfit      sql.NullFloat64 `db:"rc_profit"`

	BcCreditLimit     sql.NullFloat64 `db:"bc_credit_limit"`
	BcBusinessRevenue sql.NullFloat64 `db:"bc_business_revenue"`
	BcProfit          sql.NullFloat64 `db:"bc_profit"`
	BcManagementFee   sql.NullFloat64 `db:"bc_management_fee"`

	MgOriginalAmount sql.NullFloat64 `db:"mg_original_amount"`
	MgMonthlyPayment sql.NullFloat64 `db:"mg_monthly_payment"`
	MgYears          sql.NullInt64   `db:"mg_years"`
	MgProfit         sql.NullFloat64 `db:"mg_profit"`
	MgManagementFee  sql.NullFloat64 `db:"mg_management_fee"`

	SvDepositAmount sql.NullFloat64 `db:"sv_deposit_amount"`
	SvYears         sql.NullInt64   `db:"sv_years"`
}

const accountDetailsColumns = `id, account_number, account_type, date_opened, bank_number, balance, manager_name,
	rc_credit_limit, rc_profit,
	bc_credit_limit, bc_business_revenue, bc_profit, bc_management_fee,
	mg_original_amount, mg_monthly_payment, mg_years, mg_profit, mg_management_fee,
	sv_deposit_amount, sv_years`

// buildAccount dispatches on the discriminator and reconstructs the right
// variant from its column group. An unknown discriminator or a NULL where
// the matching group should be is a malformed record.
func buildAccount(row accountRow) (bank.Account, error) {
	var acc bank.Account
	switch row.Type {
	case bank.TypeRegularChecking:
		if !row.RcCreditLimit.Valid {
			return nil, malformed(row, "checking columns are NULL")
		}
		acc = bank.NewRegularChecking(row.Number, row.BankNumber, row.ManagerName, row.RcCreditLimit.Float64)
	case bank.TypeBusinessChecking:
		if !row.BcCreditLimit.Valid || !row.BcBusinessRevenue.Valid {
			return nil, malformed(row, "business checking columns are NULL")
		}
		acc = bank.NewBusinessChecking(row.Number, row.BankNumber, row.ManagerName, row.BcCreditLimit.Float64, row.BcBusinessRevenue.Float64)
	case bank.TypeMortgage:
		if !row.MgOriginalAmount.Valid || !row.MgMonthlyPayment.Valid || !row.MgYears.Valid {
			return nil, malformed(row, "mortgage columns are NULL")
		}
		m, err := bank.NewMortgage(row.Number, row.BankNumber, row.ManagerName, row.MgOriginalAmount.Float64, row.MgMonthlyPayment.Float64, int(row.MgYears.Int64))
		if err != nil {
			return nil, malformed(row, err.Error())
		}
		acc = m
	case bank.TypeSavings:
		if !row.SvDepositAmount.Valid || !row.SvYears.Valid {
			return nil, malformed(row, "savings columns are NULL")
		}
		sv, err := bank.NewSavings(row.Number, row.BankNumber, row.ManagerName, row.SvDepositAmount.Float64, int(row.SvYears.Int64))
		if err != nil {
			return nil, malformed(row, err.Error())
		}
		acc = sv
	default:
		return nil, malformed(row, fmt.Sprintf("unknown account type %q", row.Type))
	}

	b := acc.AccountBase()
	b.ID = row.ID
	b.DateOpened = row.DateOpened
	b.Balance = row.Balance
	return acc, nil
}

func malformed(row accountRow, detail string) error {
	return apperr.WithMessage(apperr.ErrMalformedRecord,
		fmt.Sprintf("account %d (id %d): %s", row.Number, row.ID, detail))
}

// insertSubtype writes the one subtype row matching the account's type.
// Profit and fee are persisted as computed at insert time.
func insertSubtype(ctx context.Context, q sqlx.ExtContext, acc bank.Account, accountID int64) error {
	var err error
	switch v := acc.(type) {
	case *bank.RegularChecking:
		_, err = q.ExecContext(ctx, q.Rebind(
			`INSERT INTO checking_accounts (account_id, credit_limit, profit) VALUES (?, ?, ?)`),
			accountID, v.CreditLimit, v.Profit())
	case *bank.BusinessChecking:
		_, err = q.ExecContext(ctx, q.Rebind(
			`INSERT INTO business_checking_accounts (account_id, credit_limit, business_revenue, profit, management_fee) VALUES (?, ?, ?, ?, ?)`),
			accountID, v.CreditLimit, v.BusinessRevenue, v.Profit(), v.ManagementFee())
	case *bank.Mortgage:
		_, err = q.ExecContext(ctx, q.Rebind(
			`INSERT INTO mortgage_accounts (account_id, original_amount, monthly_payment, years, profit, management_fee) VALUES (?, ?, ?, ?, ?, ?)`),
			accountID, v.OriginalAmount, v.MonthlyPayment, v.Years, v.Profit(), v.ManagementFee())
	case *bank.Savings:
		_, err = q.ExecContext(ctx, q.Rebind(
			`INSERT INTO savings_accounts (account_id, deposit_amount, years) VALUES (?, ?, ?)`),
			accountID, v.DepositAmount, v.Years)
	default:
		return apperr.WithMessage(apperr.ErrMalformedRecord,
			fmt.Sprintf("no subtype mapping for account type %q", acc.Type()))
	}
	if err != nil {
		return apperr.Wrap(err, apperr.ErrDatabase, "")
	}
	return nil
}

// Exists reports whether an account with this business key is persisted.
func (s *Store) Exists(ctx context.Context, accountNumber int64) (bool, error) {
	db, err := s.ensureDB()
	if err != nil {
		return false, apperr.Wrap(err, apperr.ErrDatabase, "")
	}
	return accountNumberExists(ctx, db, accountNumber)
}

func accountNumberExists(ctx context.Context, q sqlx.ExtContext, accountNumber int64) (bool, error) {
	var n int
	stmt := q.Rebind(`SELECT COUNT(1) FROM accounts WHERE account_number = ?`)
	if err := sqlx.GetContext(ctx, q, &n, stmt, accountNumber); err != nil {
		return false, apperr.Wrap(err, apperr.ErrDatabase, "")
	}
	return n > 0, nil
}

func accountIDByNumber(ctx context.Context, q sqlx.ExtContext, accountNumber int64) (int64, error) {
	var id int64
	stmt := q.Rebind(`SELECT id FROM accounts WHERE account_number = ?`)
	err := sqlx.GetContext(ctx, q, &id, stmt, accountNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, apperr.ErrAccountNotFound
	}
	if err != nil {
		return 0, apperr.Wrap(err, apperr.ErrDatabase, "")
	}
	return id, nil
}

// FetchByNumber loads one account with its clients. A miss is not an
// error: it returns (nil, nil).
func (s *Store) FetchByNumber(ctx context.Context, accountNumber int64) (bank.Account, error) {
	db, err := s.ensureDB()
	if err != nil {
		return nil, apperr.Wrap(err, apperr.ErrDatabase, "")
	}
	var row accountRow
	stmt := s.DB.Rebind(`SELECT ` + accountDetailsColumns + ` FROM account_details WHERE account_number = ?`)
	if err := db.GetContext(ctx, &row, stmt, accountNumber); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.Wrap(err, apperr.ErrDatabase, "")
	}
	acc, err := buildAccount(row)
	if err != nil {
		return nil, err
	}
	if err := s.loadClients(ctx, db, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

// FetchAll loads every account, clients included. Rows with an
// unrecognized discriminator are logged and skipped, never fatal to the
// listing.
func (s *Store) FetchAll(ctx context.Context) ([]bank.Account, error) {
	return s.fetchWhere(ctx, ``, nil)
}

// FetchByType loads every account of one variant.
func (s *Store) FetchByType(ctx context.Context, accountType string) ([]bank.Account, error) {
	return s.fetchWhere(ctx, `WHERE account_type = ?`, []any{accountType})
}

func (s *Store) fetchWhere(ctx context.Context, where string, args []any) ([]bank.Account, error) {
	db, err := s.ensureDB()
	if err != nil {
		return nil, apperr.Wrap(err, apperr.ErrDatabase, "")
	}
	stmt := s.DB.Rebind(`SELECT ` + accountDetailsColumns + ` FROM account_details ` + where + ` ORDER BY account_number`)
	var rows []accountRow
	if err := db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, apperr.Wrap(err, apperr.ErrDatabase, "")
	}
	accounts := make([]bank.Account, 0, len(rows))
	for _, row := range rows {
		acc, err := buildAccount(row)
		if err != nil {
			s.Log.WithFields(logrus.Fields{
				"account_id":     row.ID,
				"account_number": row.Number,
				"account_type":   row.Type,
				"error":          err.Error(),
			}).Warn("skipping malformed account row")
			continue
		}
		if err := s.loadClients(ctx, db, acc); err != nil {
			return nil, err
		}
		accounts = append(accounts, acc)
	}
	return accounts, nil
}

// loadClients fills the account's client list in association order.
func (s *Store) loadClients(ctx context.Context, q sqlx.ExtContext, acc bank.Account) error {
	b := acc.AccountBase()
	stmt := q.Rebind(`SELECT c.id, c.name, c.rank
		FROM clients c
		JOIN account_clients ac ON ac.client_id = c.id
		WHERE ac.account_id = ?
		ORDER BY ac.linked_at, c.id`)
	var clients []clientRow
	if err := sqlx.SelectContext(ctx, q, &clients, stmt, b.ID); err != nil {
		return apperr.Wrap(err, apperr.ErrDatabase, "")
	}
	b.Clients = b.Clients[:0]
	for _, c := range clients {
		b.AddClient(&bank.Client{ID: c.ID, Name: c.Name, Rank: c.Rank})
	}
	return nil
}

// InsertAccount persists a transient account: one base row plus one
// subtype row, committed together or not at all. The account's identity is
// set only after a successful commit.
func (s *Store) InsertAccount(ctx context.Context, acc bank.Account) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	id, err := s.insertAccountTx(ctx, tx, acc)
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return apperr.Wrap(err, apperr.ErrDatabase, "")
	}
	acc.AccountBase().ID = id
	return nil
}

// insertAccountTx performs the two-statement write on the caller's
// transaction. It never commits or rolls back itself.
func (s *Store) insertAccountTx(ctx context.Context, tx *sqlx.Tx, acc bank.Account) (int64, error) {
	b := acc.AccountBase()

	exists, err := accountNumberExists(ctx, tx, b.Number)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, apperr.WithMessage(apperr.ErrDuplicateAccountNumber,
			fmt.Sprintf("account number %d already in use", b.Number))
	}

	id, err := insertReturningID(ctx, tx,
		`INSERT INTO accounts (account_number, account_type, date_opened, bank_number, balance, manager_name) VALUES (?, ?, ?, ?, ?, ?)`,
		b.Number, acc.Type(), b.DateOpened.UTC(), b.BankNumber, b.Balance, b.ManagerName)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, apperr.Wrap(err, apperr.ErrDuplicateAccountNumber, "")
		}
		return 0, apperr.Wrap(err, apperr.ErrDatabase, "")
	}

	if err := insertSubtype(ctx, tx, acc, id); err != nil {
		return 0, err
	}
	return id, nil
}
