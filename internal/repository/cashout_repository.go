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

const cashoutColumns = `id, user_id, amount, fee, net_amount, bank_account_number, bank_name,
	status, rejection_reason, created_at, processed_at`

type CashoutRepository struct {
	db *sqlx.DB
}

func NewCashoutRepository(db *sqlx.DB) *CashoutRepository {
	return &CashoutRepository{db: db}
}

// Create reserves the cashout amount and writes the cashout row plus its two
// ledger entries atomically: a pending debit for the full amount and a
// completed fee line kept for audit. The balance check happens under the
// wallet row lock, so concurrent requests cannot overdraw.
func (r *CashoutRepository) Create(ctx context.Context, cashout *models.Cashout) (*models.CashoutResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("cashout repository: begin: %w", err)
	}
	defer tx.Rollback()

	var available float64
	err = tx.GetContext(ctx, &available, `SELECT available FROM wallets WHERE user_id = $1 FOR UPDATE`, cashout.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrInsufficientBalance
		}
		return nil, fmt.Errorf("cashout repository: lock wallet: %w", err)
	}
	if available < cashout.Amount {
		return nil, apperror.ErrInsufficientBalance
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE wallets
		SET available = available - $2,
		    total_cashout = total_cashout + $2,
		    pending = pending + $2,
		    updated_at = NOW()
		WHERE user_id = $1
	`, cashout.UserID, cashout.Amount)
	if err != nil {
		return nil, fmt.Errorf("cashout repository: reserve amount: %w", err)
	}

	var saved models.Cashout
	err = tx.GetContext(ctx, &saved, `
		INSERT INTO cashouts (user_id, amount, fee, net_amount, bank_account_number, bank_name, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+cashoutColumns,
		cashout.UserID, cashout.Amount, cashout.Fee, cashout.NetAmount,
		cashout.BankAccountNumber, cashout.BankName, models.CashoutStatusPending)
	if err != nil {
		return nil, fmt.Errorf("cashout repository: insert cashout: %w", err)
	}

	cashoutDesc := fmt.Sprintf("Cashout to %s ****%s", saved.BankName, lastDigits(saved.BankAccountNumber, 4))
	cashoutEntry, err := insertTransaction(ctx, tx, &models.Transaction{
		UserID:      saved.UserID,
		CashoutID:   &saved.ID,
		Type:        models.TransactionTypeCashout,
		Amount:      -saved.Amount,
		Status:      models.TransactionStatusPending,
		Description: &cashoutDesc,
	})
	if err != nil {
		return nil, err
	}

	feeDesc := "Cashout processing fee"
	feeEntry, err := insertTransaction(ctx, tx, &models.Transaction{
		UserID:      saved.UserID,
		CashoutID:   &saved.ID,
		Type:        models.TransactionTypeFee,
		Amount:      -saved.Fee,
		Status:      models.TransactionStatusCompleted,
		Description: &feeDesc,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeLedgerWrite, "commit cashout request")
	}

	return &models.CashoutResult{
		Cashout:            &saved,
		CashoutTransaction: cashoutEntry,
		FeeTransaction:     feeEntry,
	}, nil
}

// GetByID returns one cashout.
func (r *CashoutRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Cashout, error) {
	var cashout models.Cashout
	err := r.db.GetContext(ctx, &cashout, `SELECT `+cashoutColumns+` FROM cashouts WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrCashoutNotFound
		}
		return nil, fmt.Errorf("cashout repository: get: %w", err)
	}
	return &cashout, nil
}

// ListByUser returns a user's cashouts, newest first.
func (r *CashoutRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Cashout, error) {
	var cashouts []models.Cashout
	err := r.db.SelectContext(ctx, &cashouts, `
		SELECT `+cashoutColumns+` FROM cashouts WHERE user_id = $1 ORDER BY created_at DESC
	`, userID)
	return cashouts, err
}

// ListByStatus returns cashouts in a given status, oldest first so operators
// settle the queue in order. Empty status means all cashouts.
func (r *CashoutRepository) ListByStatus(ctx context.Context, status string, limit, offset int) ([]models.Cashout, error) {
	var cashouts []models.Cashout
	if status == "" {
		err := r.db.SelectContext(ctx, &cashouts, `
			SELECT `+cashoutColumns+` FROM cashouts ORDER BY created_at ASC LIMIT $1 OFFSET $2
		`, limit, offset)
		return cashouts, err
	}
	err := r.db.SelectContext(ctx, &cashouts, `
		SELECT `+cashoutColumns+` FROM cashouts WHERE status = $1 ORDER BY created_at ASC LIMIT $2 OFFSET $3
	`, status, limit, offset)
	return cashouts, err
}

// Finalize settles a pending cashout. On success the pending ledger entry is
// completed and the reserve released. On failure the full amount flows back
// through a refund entry, the fee included, and the cashout keeps the reason.
// Already-settled cashouts are rejected: only pending moves forward.
func (r *CashoutRepository) Finalize(ctx context.Context, cashoutID uuid.UUID, success bool, reason string) (*models.Cashout, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("cashout repository: begin finalize: %w", err)
	}
	defer tx.Rollback()

	var cashout models.Cashout
	err = tx.GetContext(ctx, &cashout, `SELECT `+cashoutColumns+` FROM cashouts WHERE id = $1 FOR UPDATE`, cashoutID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrCashoutNotFound
		}
		return nil, fmt.Errorf("cashout repository: lock cashout: %w", err)
	}
	if cashout.Status != models.CashoutStatusPending {
		return nil, apperror.New(apperror.ErrCodeConflict,
			fmt.Sprintf("cashout is already %s", cashout.Status))
	}

	newStatus := models.CashoutStatusCompleted
	txStatus := models.TransactionStatusCompleted
	var rejectionReason *string
	if !success {
		newStatus = models.CashoutStatusFailed
		txStatus = models.TransactionStatusFailed
		if reason != "" {
			rejectionReason = &reason
		}
	}

	err = tx.GetContext(ctx, &cashout, `
		UPDATE cashouts SET status = $2, rejection_reason = $3, processed_at = NOW()
		WHERE id = $1
		RETURNING `+cashoutColumns,
		cashoutID, newStatus, rejectionReason)
	if err != nil {
		return nil, fmt.Errorf("cashout repository: update cashout: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE transactions
		SET status = $2, completed_at = CASE WHEN $2 = 'completed' THEN NOW() ELSE completed_at END
		WHERE cashout_id = $1 AND type = $3 AND status = $4
	`, cashoutID, txStatus, models.TransactionTypeCashout, models.TransactionStatusPending)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeLedgerWrite, "finalize ledger entry")
	}

	if success {
		_, err = tx.ExecContext(ctx, `
			UPDATE wallets SET pending = pending - $2, updated_at = NOW() WHERE user_id = $1
		`, cashout.UserID, cashout.Amount)
		if err != nil {
			return nil, fmt.Errorf("cashout repository: release reserve: %w", err)
		}
	} else {
		_, err = tx.ExecContext(ctx, `
			UPDATE wallets
			SET available = available + $2,
			    total_cashout = total_cashout - $2,
			    pending = pending - $2,
			    updated_at = NOW()
			WHERE user_id = $1
		`, cashout.UserID, cashout.Amount)
		if err != nil {
			return nil, fmt.Errorf("cashout repository: refund: %w", err)
		}

		refundDesc := "Refund for failed cashout"
		if _, err := insertTransaction(ctx, tx, &models.Transaction{
			UserID:      cashout.UserID,
			CashoutID:   &cashout.ID,
			Type:        models.TransactionTypeRefund,
			Amount:      cashout.Amount,
			Status:      models.TransactionStatusCompleted,
			Description: &refundDesc,
		}); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeLedgerWrite, "commit cashout settlement")
	}
	return &cashout, nil
}

// SumByStatus returns the total requested amount per cashout status (admin stats).
func (r *CashoutRepository) SumByStatus(ctx context.Context) (map[string]float64, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT status, COALESCE(SUM(amount), 0) FROM cashouts GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("cashout repository: sum by status: %w", err)
	}
	defer rows.Close()

	sums := make(map[string]float64)
	for rows.Next() {
		var status string
		var total float64
		if err := rows.Scan(&status, &total); err != nil {
			return nil, err
		}
		sums[status] = total
	}
	return sums, rows.Err()
}

func lastDigits(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
