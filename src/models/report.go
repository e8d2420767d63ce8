package models

// Shaped report records. Aggregates are always present (absent spend is 0.00);
// attributes of an entity that may not exist on a row (a budget) are null.

type CategorySpend struct {
	CategoryID   int64  `json:"categoryId"`
	CategoryName string `json:"categoryName"`
	TotalSpent   Money  `json:"totalSpent"`
}

type BudgetUsage struct {
	CategoryID   int64   `json:"categoryId"`
	CategoryName string  `json:"categoryName"`
	BudgetID     *int64  `json:"budgetId"`
	BudgetName   *string `json:"budgetName"`
	Limit        *Money  `json:"limit"`
	TotalSpent   Money   `json:"totalSpent"`
}

// WalletSpend reports the stored balance next to the spent total. The two
// are independent numbers.
type WalletSpend struct {
	WalletID   int64  `json:"walletId"`
	WalletName string `json:"walletName"`
	Balance    Money  `json:"balance"`
	TotalSpent Money  `json:"totalSpent"`
}

type MonthlySpend struct {
	Month      Date  `json:"month"`
	TotalSpent Money `json:"totalSpent"`
}

type ReportOverview struct {
	SpendByCategory []CategorySpend `json:"spendByCategory"`
	BudgetVsSpend   []BudgetUsage   `json:"budgetVsSpend"`
	WalletBalances  []WalletSpend   `json:"walletBalances"`
	MonthlySummary  []MonthlySpend  `json:"monthlySummary"`
}
