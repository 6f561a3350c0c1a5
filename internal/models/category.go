package models

// Category is the fixed classification of a holding. It decides which scope
// (investment, crypto, stocks, budget, credit) a holding contributes to.
type Category string

// Investment categories.
const (
	CategoryLiquidities   Category = "Liquidities"
	CategoryETF           Category = "ETF"
	CategoryStocks        Category = "Stocks"
	CategoryLifeInsurance Category = "Life insurance"
	CategoryWrapper       Category = "Retirement/brokerage wrapper"
	CategoryStartup       Category = "Start-up"
	CategoryOther         Category = "Other"
)

// CategoryCrypto holds unit-priced crypto assets.
const CategoryCrypto Category = "Crypto"

// Budget flow categories.
const (
	CategorySalary        Category = "Salary"
	CategoryIncome        Category = "Income"
	CategoryMiscIncome    Category = "Misc income"
	CategoryFixedCharges  Category = "Fixed charges"
	CategorySubscriptions Category = "Subscriptions"
	CategoryTaxes         Category = "Taxes"
	CategoryOtherExpenses Category = "Other expenses"
)

// Credit categories.
const (
	CategoryCredit         Category = "Credit"
	CategoryMortgage       Category = "Mortgage"
	CategoryConsumerCredit Category = "Consumer credit"
	CategoryLeasing        Category = "Leasing"
	CategoryLoan           Category = "Loan"
	CategoryOtherCredit    Category = "Other credit"
)

// InvestmentCategories lists the patrimony categories in display order.
var InvestmentCategories = []Category{
	CategoryLiquidities,
	CategoryETF,
	CategoryStocks,
	CategoryLifeInsurance,
	CategoryWrapper,
	CategoryStartup,
	CategoryOther,
}

// BudgetCategories lists the budget flow categories.
var BudgetCategories = []Category{
	CategorySalary,
	CategoryIncome,
	CategoryMiscIncome,
	CategoryFixedCharges,
	CategorySubscriptions,
	CategoryTaxes,
	CategoryOtherExpenses,
}

// CreditCategories lists the credit and leasing categories.
var CreditCategories = []Category{
	CategoryCredit,
	CategoryMortgage,
	CategoryConsumerCredit,
	CategoryLeasing,
	CategoryLoan,
	CategoryOtherCredit,
}

// AllCategories is the full enumeration, in the order used by selection lists.
var AllCategories = func() []Category {
	all := make([]Category, 0, len(InvestmentCategories)+1+len(BudgetCategories)+len(CreditCategories))
	all = append(all, InvestmentCategories...)
	all = append(all, CategoryCrypto)
	all = append(all, BudgetCategories...)
	all = append(all, CreditCategories...)
	return all
}()

// IsBudget reports whether c is a budget flow category.
func (c Category) IsBudget() bool { return contains(BudgetCategories, c) }

// IsCredit reports whether c is a credit category.
func (c Category) IsCredit() bool { return contains(CreditCategories, c) }

// IsInvestment reports whether c is one of the enumerated investment categories.
func (c Category) IsInvestment() bool { return contains(InvestmentCategories, c) }

// Valid reports whether c belongs to the enumeration.
func (c Category) Valid() bool { return contains(AllCategories, c) }

func contains(list []Category, c Category) bool {
	for _, item := range list {
		if item == c {
			return true
		}
	}
	return false
}

// Scope is an aggregation grouping over categories.
type Scope string

const (
	ScopeInvestment Scope = "investment"
	ScopeCrypto     Scope = "crypto"
	ScopeStocks     Scope = "stocks"
	ScopeBudget     Scope = "budget"
	ScopeCredit     Scope = "credit"
)

// Contains reports whether a holding of category c belongs to scope s.
// The investment scope is everything that is neither a budget flow, a credit
// nor crypto, so unknown categories still count toward the patrimony.
func (s Scope) Contains(c Category) bool {
	switch s {
	case ScopeInvestment:
		return !c.IsBudget() && !c.IsCredit() && c != CategoryCrypto
	case ScopeCrypto:
		return c == CategoryCrypto
	case ScopeStocks:
		return c == CategoryStocks
	case ScopeBudget:
		return c.IsBudget()
	case ScopeCredit:
		return c.IsCredit()
	default:
		return false
	}
}
