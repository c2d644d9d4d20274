package bank

// Savings is a deposit account. It neither produces profit nor charges a
// management fee.
type Savings struct {
	Base
	DepositAmount float64
	Years         int
}

// NewSavings builds a transient savings account. Years must be at least 1.
func NewSavings(number int64, bankNumber int, managerName string, depositAmount float64, years int) (*Savings, error) {
	if years < 1 {
		return nil, ErrInvalidYears
	}
	return &Savings{
		Base:          newBase(number, bankNumber, managerName),
		DepositAmount: depositAmount,
		Years:         years,
	}, nil
}

func (a *Savings) Type() string { return TypeSavings }

func (a *Savings) Clone() Account {
	cp := &Savings{DepositAmount: a.DepositAmount, Years: a.Years}
	a.Base.cloneInto(&cp.Base)
	return cp
}
