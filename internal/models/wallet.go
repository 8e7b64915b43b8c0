package models

import (
	"time"

	"github.com/google/uuid"
)

// Transaction types
const (
	TransactionTypeEarning = "earning"
	TransactionTypeDeposit = "deposit"
	TransactionTypePayment = "payment"
	TransactionTypeCashout = "cashout"
	TransactionTypeFee     = "fee"
	TransactionTypeRefund  = "refund"
)

// Transaction statuses. Only pending transactions may move, and only forward.
const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
)

// Cashout statuses
const (
	CashoutStatusPending   = "pending"
	CashoutStatusCompleted = "completed"
	CashoutStatusFailed    = "failed"
)

// Wallet is a per-user balance backed by the transactions ledger.
// Created lazily with zeroed fields on first access, never deleted.
type Wallet struct {
	UserID        uuid.UUID `db:"user_id" json:"user_id"`
	Available     float64   `db:"available" json:"available"`
	TotalEarnings float64   `db:"total_earnings" json:"total_earnings"`
	TotalCashout  float64   `db:"total_cashout" json:"total_cashout"`
	Pending       float64   `db:"pending" json:"pending"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Transaction is an immutable ledger entry. Type, amount and created_at
// never change after insert; only status may be finalized.
type Transaction struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	UserID      uuid.UUID  `db:"user_id" json:"user_id"`
	JobID       *uuid.UUID `db:"job_id" json:"job_id,omitempty"`
	CashoutID   *uuid.UUID `db:"cashout_id" json:"cashout_id,omitempty"`
	Type        string     `db:"type" json:"type"`
	Amount      float64    `db:"amount" json:"amount"`
	Status      string     `db:"status" json:"status"`
	Description *string    `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}

// Cashout is a withdrawal request awaiting external bank settlement.
type Cashout struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	UserID            uuid.UUID  `db:"user_id" json:"user_id"`
	Amount            float64    `db:"amount" json:"amount"`
	Fee               float64    `db:"fee" json:"fee"`
	NetAmount         float64    `db:"net_amount" json:"net_amount"`
	BankAccountNumber string     `db:"bank_account_number" json:"bank_account_number"`
	BankName          string     `db:"bank_name" json:"bank_name"`
	Status            string     `db:"status" json:"status"`
	RejectionReason   *string    `db:"rejection_reason" json:"rejection_reason,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	ProcessedAt       *time.Time `db:"processed_at" json:"processed_at,omitempty"`
}

// CashoutResult pairs the two ledger entries produced by a cashout request.
type CashoutResult struct {
	Cashout            *Cashout     `json:"cashout"`
	CashoutTransaction *Transaction `json:"cashout_transaction"`
	FeeTransaction     *Transaction `json:"fee_transaction"`
}
