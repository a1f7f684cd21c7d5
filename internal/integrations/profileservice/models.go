package profileservice

import "github.com/google/uuid"

// Profile модель профиля пользователя из ProfileService
type Profile struct {
	ID         uuid.UUID `json:"id"`
	FullName   string    `json:"fullName"`
	Email      string    `json:"email"`
	Role       string    `json:"role"` // provider | claimant
	Department *string   `json:"department,omitempty"`
}

// ErrorResponse модель ошибки от ProfileService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
