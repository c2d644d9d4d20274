// Package bank holds the account and client domain model. The four account
// variants share a common Base and are told apart by their type string, which
// is also the discriminator the store persists. Nothing in this package talks
// to the database.
package bank

import (
	"errors"
	"time"
)

// Business constants carried over from the bank's fee schedule.
const (
	// OpeningBalance is credited to every account at creation.
	OpeningBalance = 20.0
	// RateDifference is the margin the bank earns on extended credit.
	RateDifference = 0.10
	// VIPRevenueThreshold is the yearly revenue above which a business
	// account may qualify for zero profit.
	VIPRevenueThreshold = 10_000_000.0
	// VIPClientRank is the rank every associated client must hold for the
	// VIP rule to apply.
	VIPClientRank = 10
	// FixedCommission is added on top of the credit margin for non-VIP
	// business accounts.
	FixedCommission = 3000.0
	// BusinessManagementFee is the flat yearly fee for business accounts.
	BusinessManagementFee = 1000.0
	// MortgageProfitFactor discounts the principal when computing mortgage
	// profit.
	MortgageProfitFactor = 0.8
	// MortgageFeeRate is the management fee rate on the original mortgage
	// amount.
	MortgageFeeRate = 0.10
)

// Account type discriminators. These strings are stored as-is in the
// accounts table, so they must never change.
const (
	TypeRegularChecking  = "Regular Checking Account"
	TypeBusinessChecking = "Business Checking Account"
	TypeMortgage         = "Mortgage Account"
	TypeSavings          = "Savings Account"
)

// AccountTypes lists every known discriminator, in menu order.
func AccountTypes() []string {
	return []string{TypeRegularChecking, TypeBusinessChecking, TypeMortgage, TypeSavings}
}

var ErrInvalidYears = errors.New("years must be at least 1")

// Account is one of the four variants. Type returns the discriminator and
// AccountBase the shared attributes; both are promoted from Base except for
// Type, which each variant answers itself.
type Account interface {
	Type() string
	AccountBase() *Base
	// Clone returns an independent deep copy, clients included.
	Clone() Account
}

// ProfitAccount is implemented by variants that produce an annual profit.
type ProfitAccount interface {
	Account
	Profit() float64
}

// FeeAccount is implemented by variants that charge a management fee.
type FeeAccount interface {
	Account
	ManagementFee() float64
}

// Base carries the attributes common to all account variants. ID is zero
// until the account is first persisted; Number is the business key and is
// unique across all variants, which only the store can enforce.
type Base struct {
	ID          int64
	Number      int64
	DateOpened  time.Time
	BankNumber  int
	ManagerName string
	Balance     float64
	// Clients associated with this account, in association order. The
	// slice tolerates duplicates; pair uniqueness lives in the store.
	Clients []*Client
}

func newBase(number int64, bankNumber int, managerName string) Base {
	return Base{
		Number:      number,
		DateOpened:  time.Now(),
		BankNumber:  bankNumber,
		ManagerName: managerName,
		Balance:     OpeningBalance,
	}
}

// AccountBase satisfies the Account interface for every variant embedding
// Base.
func (b *Base) AccountBase() *Base { return b }

// HasID reports whether the account has been persisted.
func (b *Base) HasID() bool { return b.ID != 0 }

// AddClient appends a client to the account. Order is preserved and no
// dedup happens here.
func (b *Base) AddClient(c *Client) {
	b.Clients = append(b.Clients, c)
}

func (b *Base) cloneInto(dst *Base) {
	*dst = *b
	if b.Clients != nil {
		dst.Clients = make([]*Client, len(b.Clients))
		for i, c := range b.Clients {
			dst.Clients[i] = c.Clone()
		}
	}
}
