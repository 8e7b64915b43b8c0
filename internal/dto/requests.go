package dto

import (
	"github.com/craftlink/craftlink-backend/internal/models"
)

// RegisterRequest is the payload of POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// LoginRequest is the payload of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest is the payload of POST /auth/refresh and /auth/logout.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// CreateJobRequest is the payload of POST /jobs.
type CreateJobRequest struct {
	Title          string            `json:"title" binding:"required"`
	Description    string            `json:"description" binding:"required"`
	Category       string            `json:"category"`
	ScheduledAt    *models.Timestamp `json:"scheduled_at"`
	ServiceAddress *string           `json:"service_address"`
	ServiceState   *string           `json:"service_state"`
	Latitude       *float64          `json:"latitude"`
	Longitude      *float64          `json:"longitude"`
}

// SetBudgetRequest is the payload of PUT /jobs/:id/budget.
type SetBudgetRequest struct {
	Amount float64 `json:"amount" binding:"required"`
}

// UpdateJobStatusRequest is the payload of PUT /jobs/:id/status.
type UpdateJobStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// DepositRequest is the payload of POST /wallet/deposit.
type DepositRequest struct {
	Amount float64 `json:"amount" binding:"required"`
}

// CashoutRequest is the payload of POST /cashouts.
// Bank details are optional; the artisan's saved payout details are used
// when they are omitted.
type CashoutRequest struct {
	Amount            float64 `json:"amount" binding:"required"`
	BankAccountName   string  `json:"bank_account_name"`
	BankAccountNumber string  `json:"bank_account_number"`
	BankName          string  `json:"bank_name"`
}

// SettleCashoutRequest is the payload of POST /admin/cashouts/:id/settle.
type SettleCashoutRequest struct {
	Success bool   `json:"success"`
	Reason  string `json:"reason"`
}

// UpdateProfileRequest is the payload of PUT /profile.
type UpdateProfileRequest struct {
	Available         bool     `json:"available"`
	State             *string  `json:"state"`
	Latitude          *float64 `json:"latitude"`
	Longitude         *float64 `json:"longitude"`
	BankAccountName   *string  `json:"bank_account_name"`
	BankAccountNumber *string  `json:"bank_account_number"`
	BankName          *string  `json:"bank_name"`
}
