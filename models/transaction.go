package models

import "time"

// Canonical transaction types. The create/update forms of the legacy
// client send "credit" for income; NormalizeType maps it here.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
	TypeAll     = "all"
)

type Transaction struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	Title           string    `json:"title"`
	Amount          float64   `json:"amount"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	TransactionType string    `json:"transactionType"`
	Date            time.Time `json:"date"`
	CreatedAt       time.Time `json:"createdAt"`
}

// NormalizeType maps the legacy "credit" value onto the stored enum.
// Returns false for anything that is not a known type.
func NormalizeType(t string) (string, bool) {
	switch t {
	case TypeIncome, "credit":
		return TypeIncome, true
	case TypeExpense:
		return TypeExpense, true
	default:
		return "", false
	}
}
