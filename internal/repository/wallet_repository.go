package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/craftlink/craftlink-backend/internal/models"
	"github.com/craftlink/craftlink-backend/internal/pkg/apperror"
)

const walletColumns = `user_id, available, total_earnings, total_cashout, pending, updated_at`

const transactionColumns = `id, user_id, job_id, cashout_id, type, amount, status, description, created_at, completed_at`

type WalletRepository struct {
	db *sqlx.DB
}

func NewWalletRepository(db *sqlx.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

// GetOrCreate returns the wallet for a user, creating a zeroed one on first
// access. Wallets are never deleted afterwards.
func (r *WalletRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.db.GetContext(ctx, &wallet, `
		INSERT INTO wallets (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING `+walletColumns, userID)
	if err != nil {
		return nil, fmt.Errorf("wallet repository: get or create: %w", err)
	}
	return &wallet, nil
}

// Credit adds funds to a wallet and records a completed ledger entry, both in
// one transaction so the balance and the ledger never diverge.
func (r *WalletRepository) Credit(ctx context.Context, userID uuid.UUID, amount float64, txType string, description string, jobID *uuid.UUID) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "credit amount must be positive")
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("wallet repository: begin credit: %w", err)
	}
	defer tx.Rollback()

	if err := lockWallet(ctx, tx, userID); err != nil {
		return nil, err
	}

	earningsDelta := 0.0
	if txType == models.TransactionTypeEarning || txType == models.TransactionTypeDeposit {
		earningsDelta = amount
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE wallets
		SET available = available + $2, total_earnings = total_earnings + $3, updated_at = NOW()
		WHERE user_id = $1
	`, userID, amount, earningsDelta)
	if err != nil {
		return nil, fmt.Errorf("wallet repository: credit balance: %w", err)
	}

	entry, err := insertTransaction(ctx, tx, &models.Transaction{
		UserID:      userID,
		JobID:       jobID,
		Type:        txType,
		Amount:      amount,
		Status:      models.TransactionStatusCompleted,
		Description: &description,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeLedgerWrite, "commit wallet credit")
	}
	return entry, nil
}

// Debit removes funds from a wallet and records a completed ledger entry with
// a negative amount. The balance is checked under a row lock, so concurrent
// debits cannot overdraw.
func (r *WalletRepository) Debit(ctx context.Context, userID uuid.UUID, amount float64, txType string, description string, jobID *uuid.UUID) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "debit amount must be positive")
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("wallet repository: begin debit: %w", err)
	}
	defer tx.Rollback()

	var available float64
	err = tx.GetContext(ctx, &available, `SELECT available FROM wallets WHERE user_id = $1 FOR UPDATE`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrInsufficientBalance
		}
		return nil, fmt.Errorf("wallet repository: lock wallet: %w", err)
	}
	if available < amount {
		return nil, apperror.ErrInsufficientBalance
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE wallets SET available = available - $2, updated_at = NOW() WHERE user_id = $1
	`, userID, amount)
	if err != nil {
		return nil, fmt.Errorf("wallet repository: debit balance: %w", err)
	}

	entry, err := insertTransaction(ctx, tx, &models.Transaction{
		UserID:      userID,
		JobID:       jobID,
		Type:        txType,
		Amount:      -amount,
		Status:      models.TransactionStatusCompleted,
		Description: &description,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeLedgerWrite, "commit wallet debit")
	}
	return entry, nil
}

// SettleJobCompletion moves a job into completed and credits the artisan's
// wallet in one transaction: a reported completion always carries its ledger
// entry, or neither write happened. The status flip is conditional on the
// expected current status, same as JobRepository.UpdateStatus.
func (r *WalletRepository) SettleJobCompletion(ctx context.Context, jobID uuid.UUID, from string, payout float64, description string) (*models.Job, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("wallet repository: begin settlement: %w", err)
	}
	defer tx.Rollback()

	var job models.Job
	err = tx.GetContext(ctx, &job, `
		UPDATE jobs SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING `+jobColumns,
		jobID, from, models.JobStatusCompleted)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("wallet repository: settle status: %w", err)
		}
		var current string
		if getErr := tx.GetContext(ctx, &current, `SELECT status FROM jobs WHERE id = $1`, jobID); getErr != nil {
			if errors.Is(getErr, sql.ErrNoRows) {
				return nil, apperror.ErrJobNotFound
			}
			return nil, fmt.Errorf("wallet repository: settle re-read: %w", getErr)
		}
		return nil, apperror.InvalidTransition(current, models.JobStatusCompleted)
	}

	if payout > 0 && job.ArtisanID != nil {
		artisanID := *job.ArtisanID
		if err := lockWallet(ctx, tx, artisanID); err != nil {
			return nil, err
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE wallets
			SET available = available + $2, total_earnings = total_earnings + $2, updated_at = NOW()
			WHERE user_id = $1
		`, artisanID, payout)
		if err != nil {
			return nil, fmt.Errorf("wallet repository: settle credit: %w", err)
		}
		if _, err := insertTransaction(ctx, tx, &models.Transaction{
			UserID:      artisanID,
			JobID:       &job.ID,
			Type:        models.TransactionTypeEarning,
			Amount:      payout,
			Status:      models.TransactionStatusCompleted,
			Description: &description,
		}); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeLedgerWrite, "commit job settlement")
	}
	return &job, nil
}

// ListTransactions returns a user's ledger entries, newest first.
func (r *WalletRepository) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Transaction, error) {
	var entries []models.Transaction
	err := r.db.SelectContext(ctx, &entries, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	return entries, err
}

// lockWallet takes the wallet row lock, creating the wallet first if needed.
func lockWallet(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO wallets (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING
	`, userID)
	if err != nil {
		return fmt.Errorf("wallet repository: ensure wallet: %w", err)
	}
	var one int
	if err := tx.GetContext(ctx, &one, `SELECT 1 FROM wallets WHERE user_id = $1 FOR UPDATE`, userID); err != nil {
		return fmt.Errorf("wallet repository: lock wallet: %w", err)
	}
	return nil
}

func insertTransaction(ctx context.Context, tx *sqlx.Tx, entry *models.Transaction) (*models.Transaction, error) {
	query := `
		INSERT INTO transactions (user_id, job_id, cashout_id, type, amount, status, description, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, CASE WHEN $6 = 'completed' THEN NOW() END)
		RETURNING ` + transactionColumns
	var saved models.Transaction
	err := tx.GetContext(ctx, &saved, query,
		entry.UserID, entry.JobID, entry.CashoutID, entry.Type, entry.Amount,
		entry.Status, entry.Description)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeLedgerWrite, "insert ledger entry")
	}
	return &saved, nil
}
