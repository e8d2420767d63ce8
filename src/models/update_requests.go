package models

// Update requests are partial: a nil field leaves the stored value untouched.

type UpdateCategoryRequest struct {
	Name *string `json:"name"`
}

type UpdateWalletRequest struct {
	Name    *string `json:"name"`
	Balance *Money  `json:"balance"`
}

type UpdateBudgetRequest struct {
	Name  *string `json:"name"`
	Limit *Money  `json:"limit"`
}

type UpdateExpenseRequest struct {
	Description *string `json:"description"`
	Amount      *Money  `json:"amount"`
	Date        *Date   `json:"date"`
	CategoryID  *int64  `json:"categoryId"`
	WalletID    *int64  `json:"walletId"`
}

// Apply overwrites the fields of e that the request carries.
func (req UpdateExpenseRequest) Apply(e *Expense) {
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.Amount != nil {
		e.Amount = *req.Amount
	}
	if req.Date != nil {
		e.Date = *req.Date
	}
	if req.CategoryID != nil {
		e.CategoryID = *req.CategoryID
	}
	if req.WalletID != nil {
		e.WalletID = *req.WalletID
	}
}

func (req UpdateWalletRequest) Apply(w *Wallet) {
	if req.Name != nil {
		w.Name = *req.Name
	}
	if req.Balance != nil {
		w.Balance = *req.Balance
	}
}

func (req UpdateBudgetRequest) Apply(b *Budget) {
	if req.Name != nil {
		b.Name = *req.Name
	}
	if req.Limit != nil {
		b.Limit = *req.Limit
	}
}

func (req UpdateCategoryRequest) Apply(c *Category) {
	if req.Name != nil {
		c.Name = *req.Name
	}
}
