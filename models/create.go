package models

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SetAvatarRequest struct {
	Image string `json:"image" binding:"required"`
}

// AddTransactionRequest carries every transaction attribute; description is
// the only optional one. Amount is a pointer so that 0 still passes the
// required check. Date accepts "2006-01-02" or RFC3339. UserID is optional
// and only cross-checked against the session subject.
type AddTransactionRequest struct {
	Title           string   `json:"title" binding:"required"`
	Amount          *float64 `json:"amount" binding:"required"`
	Description     string   `json:"description"`
	Category        string   `json:"category" binding:"required"`
	Date            string   `json:"date" binding:"required"`
	TransactionType string   `json:"transactionType" binding:"required"`
	UserID          string   `json:"userId"`
}

// UpdateTransactionRequest is a partial attribute set; supplied fields
// replace the stored ones.
type UpdateTransactionRequest struct {
	Title           *string  `json:"title"`
	Amount          *float64 `json:"amount"`
	Description     *string  `json:"description"`
	Category        *string  `json:"category"`
	Date            *string  `json:"date"`
	TransactionType *string  `json:"transactionType"`
	UserID          string   `json:"userId"`
}

type GetTransactionsRequest struct {
	UserID    string `json:"userId"`
	Frequency string `json:"frequency"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Type      string `json:"type"`
}

type DeleteTransactionRequest struct {
	UserID string `json:"userId"`
}
