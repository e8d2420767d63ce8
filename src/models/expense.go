package models

import "time"

type Expense struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	Amount      Money     `json:"amount"`
	Date        Date      `json:"date"`
	UserID      int64     `json:"userId"`
	CategoryID  int64     `json:"categoryId"`
	WalletID    int64     `json:"walletId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
