package bank

// Mortgage is a loan account. Profit and fee are pure functions of the
// immutable loan terms.
type Mortgage struct {
	Base
	OriginalAmount float64
	MonthlyPayment float64
	Years          int
}

// NewMortgage builds a transient mortgage account. Years must be at
// least 1.
func NewMortgage(number int64, bankNumber int, managerName string, originalAmount, monthlyPayment float64, years int) (*Mortgage, error) {
	if years < 1 {
		return nil, ErrInvalidYears
	}
	return &Mortgage{
		Base:           newBase(number, bankNumber, managerName),
		OriginalAmount: originalAmount,
		MonthlyPayment: monthlyPayment,
		Years:          years,
	}, nil
}

func (a *Mortgage) Type() string { return TypeMortgage }

func (a *Mortgage) Profit() float64 {
	return (MortgageProfitFactor * a.OriginalAmount / float64(a.Years)) * RateDifference
}

func (a *Mortgage) ManagementFee() float64 {
	return a.OriginalAmount * MortgageFeeRate
}

func (a *Mortgage) Clone() Account {
	cp := &Mortgage{OriginalAmount: a.OriginalAmount, MonthlyPayment: a.MonthlyPayment, Years: a.Years}
	a.Base.cloneInto(&cp.Base)
	return cp
}
