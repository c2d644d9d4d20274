package bank

// RegularChecking is a checking account with a credit limit. Its profit
// depends only on the credit limit, which is immutable, so it is computed
// once at construction and cached.
type RegularChecking struct {
	Base
	CreditLimit float64

	profit float64
}

// NewRegularChecking builds a transient regular checking account.
func NewRegularChecking(number int64, bankNumber int, managerName string, creditLimit float64) *RegularChecking {
	a := &RegularChecking{
		Base:        newBase(number, bankNumber, managerName),
		CreditLimit: creditLimit,
	}
	a.profit = creditLimit * RateDifference
	return a
}

func (a *RegularChecking) Type() string { return TypeRegularChecking }

// Profit returns the cached construction-time profit.
func (a *RegularChecking) Profit() float64 { return a.profit }

func (a *RegularChecking) Clone() Account {
	cp := &RegularChecking{CreditLimit: a.CreditLimit, profit: a.profit}
	a.Base.cloneInto(&cp.Base)
	return cp
}

// BusinessChecking is a checking account owned by a business. Its profit is
// live: it depends on the ranks of the clients currently loaded into the
// object, so it is recomputed on every call.
type BusinessChecking struct {
	Base
	CreditLimit     float64
	BusinessRevenue float64
}

// NewBusinessChecking builds a transient business checking account.
func NewBusinessChecking(number int64, bankNumber int, managerName string, creditLimit, businessRevenue float64) *BusinessChecking {
	return &BusinessChecking{
		Base:            newBase(number, bankNumber, managerName),
		CreditLimit:     creditLimit,
		BusinessRevenue: businessRevenue,
	}
}

func (a *BusinessChecking) Type() string { return TypeBusinessChecking }

// Profit applies the VIP rule against the loaded clients: revenue at or
// above the threshold with every client at rank 10 means the bank waives
// its profit. An account with no clients loaded is never treated as VIP;
// callers must load the clients before asking.
func (a *BusinessChecking) Profit() float64 {
	if a.BusinessRevenue >= VIPRevenueThreshold && a.allClientsVIP() {
		return 0
	}
	return a.CreditLimit*RateDifference + FixedCommission
}

func (a *BusinessChecking) allClientsVIP() bool {
	if len(a.Clients) == 0 {
		return false
	}
	for _, c := range a.Clients {
		if c.Rank != VIPClientRank {
			return false
		}
	}
	return true
}

// ManagementFee is a flat yearly fee for business accounts.
func (a *BusinessChecking) ManagementFee() float64 { return BusinessManagementFee }

// VIPProfit answers "what would the profit be if every client had rank 0".
// It works on a deep copy so the live account and its clients are never
// touched.
func (a *BusinessChecking) VIPProfit() float64 {
	cp := a.Clone().(*BusinessChecking)
	for _, c := range cp.Clients {
		c.Rank = 0
	}
	return cp.Profit()
}

func (a *BusinessChecking) Clone() Account {
	cp := &BusinessChecking{CreditLimit: a.CreditLimit, BusinessRevenue: a.BusinessRevenue}
	a.Base.cloneInto(&cp.Base)
	return cp
}
