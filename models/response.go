package models

type UserResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"User registered successfully"`
	User    *User  `json:"user,omitempty"`
}

type LoginResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"User logged in successfully"`
	User    *User  `json:"user,omitempty"`
	Token   string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

type SetAvatarResponse struct {
	IsSet bool   `json:"isSet" example:"true"`
	Image string `json:"image" example:"https://api.dicebear.com/7.x/adventurer/svg?seed=Felix"`
}

type TransactionResponse struct {
	Success     bool         `json:"success" example:"true"`
	Message     string       `json:"message" example:"Transaction added successfully"`
	Transaction *Transaction `json:"transaction,omitempty"`
}

type TransactionsResponse struct {
	Success      bool          `json:"success" example:"true"`
	Transactions []Transaction `json:"transactions"`
}

type MessageResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"Transaction not found"`
}
