package models

import "time"

type Budget struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Limit      Money     `json:"limit"`
	UserID     int64     `json:"userId"`
	CategoryID int64     `json:"categoryId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
