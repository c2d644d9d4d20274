package teller

import (
	"fmt"
	"time"

	"github.com/adonese/bankd/apperr"
	"github.com/adonese/bankd/bank"
)

// ClientPayload carries a client in requests. Names are letters and spaces
// only, enforced by the personname binding rule.
type ClientPayload struct {
	Name string `json:"name" binding:"required,personname"`
	Rank int    `json:"rank" binding:"min=0,max=10"`
}

// CreateAccountRequest carries the fields of any of the four variants; the
// ones the chosen type does not use are ignored. New accounts come with
// their first client by convention, but the field is optional.
type CreateAccountRequest struct {
	AccountType     string         `json:"account_type" binding:"required"`
	AccountNumber   int64          `json:"account_number" binding:"required,gt=0"`
	BankNumber      int            `json:"bank_number" binding:"required,gt=0"`
	ManagerName     string         `json:"manager_name" binding:"required,personname"`
	CreditLimit     float64        `json:"credit_limit"`
	BusinessRevenue float64        `json:"business_revenue"`
	OriginalAmount  float64        `json:"original_amount"`
	MonthlyPayment  float64        `json:"monthly_payment"`
	DepositAmount   float64        `json:"deposit_amount"`
	Years           int            `json:"years"`
	FirstClient     *ClientPayload `json:"first_client"`
}

func (r CreateAccountRequest) build() (bank.Account, error) {
	switch r.AccountType {
	case bank.TypeRegularChecking:
		return bank.NewRegularChecking(r.AccountNumber, r.BankNumber, r.ManagerName, r.CreditLimit), nil
	case bank.TypeBusinessChecking:
		return bank.NewBusinessChecking(r.AccountNumber, r.BankNumber, r.ManagerName, r.CreditLimit, r.BusinessRevenue), nil
	case bank.TypeMortgage:
		acc, err := bank.NewMortgage(r.AccountNumber, r.BankNumber, r.ManagerName, r.OriginalAmount, r.MonthlyPayment, r.Years)
		if err != nil {
			return nil, apperr.Wrap(err, apperr.ErrValidation, err.Error())
		}
		return acc, nil
	case bank.TypeSavings:
		acc, err := bank.NewSavings(r.AccountNumber, r.BankNumber, r.ManagerName, r.DepositAmount, r.Years)
		if err != nil {
			return nil, apperr.Wrap(err, apperr.ErrValidation, err.Error())
		}
		return acc, nil
	default:
		return nil, apperr.WithMessage(apperr.ErrBadRequest,
			fmt.Sprintf("unknown account type %q", r.AccountType))
	}
}

// RegisterClientRequest adds a (possibly new) client to an account.
type RegisterClientRequest struct {
	AccountNumber int64         `json:"account_number" binding:"required,gt=0"`
	Client        ClientPayload `json:"client" binding:"required"`
}

// UpdateRankRequest changes one client's rank.
type UpdateRankRequest struct {
	ClientID int64 `json:"client_id" binding:"required,gt=0"`
	Rank     int   `json:"rank" binding:"min=0,max=10"`
}

// RemoveClientRequest removes a client from an account.
type RemoveClientRequest struct {
	AccountNumber int64 `json:"account_number" binding:"required,gt=0"`
	ClientID      int64 `json:"client_id" binding:"required,gt=0"`
}

// AccountView is the JSON shape of an account: the base fields, the
// variant's own fields, and the computed profit and fee where the variant
// has them.
type AccountView struct {
	ID            int64          `json:"id"`
	AccountNumber int64          `json:"account_number"`
	AccountType   string         `json:"account_type"`
	DateOpened    time.Time      `json:"date_opened"`
	BankNumber    int            `json:"bank_number"`
	Balance       float64        `json:"balance"`
	ManagerName   string         `json:"manager_name"`
	Clients       []*bank.Client `json:"clients"`

	CreditLimit     *float64 `json:"credit_limit,omitempty"`
	BusinessRevenue *float64 `json:"business_revenue,omitempty"`
	OriginalAmount  *float64 `json:"original_amount,omitempty"`
	MonthlyPayment  *float64 `json:"monthly_payment,omitempty"`
	DepositAmount   *float64 `json:"deposit_amount,omitempty"`
	Years           *int     `json:"years,omitempty"`

	Profit        *float64 `json:"profit,omitempty"`
	ManagementFee *float64 `json:"management_fee,omitempty"`
}

// NewAccountView flattens an account for the JSON surface.
func NewAccountView(acc bank.Account) AccountView {
	b := acc.AccountBase()
	view := AccountView{
		ID:            b.ID,
		AccountNumber: b.Number,
		AccountType:   acc.Type(),
		DateOpened:    b.DateOpened,
		BankNumber:    b.BankNumber,
		Balance:       b.Balance,
		ManagerName:   b.ManagerName,
		Clients:       b.Clients,
	}
	switch v := acc.(type) {
	case *bank.RegularChecking:
		view.CreditLimit = ptr(v.CreditLimit)
	case *bank.BusinessChecking:
		view.CreditLimit = ptr(v.CreditLimit)
		view.BusinessRevenue = ptr(v.BusinessRevenue)
	case *bank.Mortgage:
		view.OriginalAmount = ptr(v.OriginalAmount)
		view.MonthlyPayment = ptr(v.MonthlyPayment)
		view.Years = ptr(v.Years)
	case *bank.Savings:
		view.DepositAmount = ptr(v.DepositAmount)
		view.Years = ptr(v.Years)
	}
	if p, ok := acc.(bank.ProfitAccount); ok {
		view.Profit = ptr(p.Profit())
	}
	if f, ok := acc.(bank.FeeAccount); ok {
		view.ManagementFee = ptr(f.ManagementFee())
	}
	return view
}

func NewAccountViews(accounts []bank.Account) []AccountView {
	views := make([]AccountView, 0, len(accounts))
	for _, acc := range accounts {
		views = append(views, NewAccountView(acc))
	}
	return views
}

func ptr[T any](v T) *T { return &v }
