package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/craftlink/craftlink-backend/internal/models"
	"github.com/craftlink/craftlink-backend/internal/pkg/apperror"
	"github.com/craftlink/craftlink-backend/internal/validation"
)

// WalletRepository describes what WalletService needs from the storage layer.
type WalletRepository interface {
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Wallet, error)
	Credit(ctx context.Context, userID uuid.UUID, amount float64, txType string, description string, jobID *uuid.UUID) (*models.Transaction, error)
	Debit(ctx context.Context, userID uuid.UUID, amount float64, txType string, description string, jobID *uuid.UUID) (*models.Transaction, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Transaction, error)
}

// WalletService exposes balances and the transaction history.
type WalletService struct {
	repo WalletRepository
}

func NewWalletService(repo WalletRepository) *WalletService {
	return &WalletService{repo: repo}
}

// GetWallet returns a user's wallet, creating it on first access.
func (s *WalletService) GetWallet(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	return s.repo.GetOrCreate(ctx, userID)
}

// Deposit adds funds to a wallet.
func (s *WalletService) Deposit(ctx context.Context, userID uuid.UUID, amount float64) (*models.Transaction, error) {
	if err := validation.ValidateAmount("amount", amount); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	return s.repo.Credit(ctx, userID, amount, models.TransactionTypeDeposit, "Wallet deposit", nil)
}

// Credit applies an earning or refund. Used by the job lifecycle.
func (s *WalletService) Credit(ctx context.Context, userID uuid.UUID, amount float64, txType string, description string, jobID *uuid.UUID) (*models.Transaction, error) {
	return s.repo.Credit(ctx, userID, amount, txType, description, jobID)
}

// ListTransactions returns a user's ledger history, newest first.
func (s *WalletService) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListTransactions(ctx, userID, limit, offset)
}
