package service

import (
	"context"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/craftlink/craftlink-backend/internal/models"
	"github.com/craftlink/craftlink-backend/internal/pkg/apperror"
	"github.com/craftlink/craftlink-backend/internal/validation"
)

// CashoutRepository describes what CashoutService needs from the storage layer.
type CashoutRepository interface {
	Create(ctx context.Context, cashout *models.Cashout) (*models.CashoutResult, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Cashout, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Cashout, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]models.Cashout, error)
	Finalize(ctx context.Context, cashoutID uuid.UUID, success bool, reason string) (*models.Cashout, error)
}

// BalanceReader reads a wallet for the precondition checks.
type BalanceReader interface {
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Wallet, error)
}

// ProfileReader loads an artisan profile for the saved bank details.
type ProfileReader interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.ArtisanProfile, error)
}

// CashoutService turns wallet funds into bank withdrawals. Every request is
// checked in a fixed order: minimum amount, then balance, then payout
// destination, so a caller failing several checks always sees the same error.
type CashoutService struct {
	repo     CashoutRepository
	wallets  BalanceReader
	profiles ProfileReader
	log      *logrus.Logger

	minAmount  float64
	feePercent float64
}

func NewCashoutService(repo CashoutRepository, wallets BalanceReader, profiles ProfileReader, log *logrus.Logger, minAmount, feePercent float64) *CashoutService {
	return &CashoutService{
		repo:       repo,
		wallets:    wallets,
		profiles:   profiles,
		log:        log,
		minAmount:  minAmount,
		feePercent: feePercent,
	}
}

// Fee returns the processing fee for a cashout amount, rounded to kobo.
func (s *CashoutService) Fee(amount float64) float64 {
	return math.Round(amount*s.feePercent) / 100
}

// RequestCashout reserves funds and opens a pending withdrawal. The fee is
// taken out of the requested amount: the bank receives amount minus fee.
func (s *CashoutService) RequestCashout(ctx context.Context, userID uuid.UUID, amount float64, bank *models.BankDetails) (*models.CashoutResult, error) {
	if amount < s.minAmount {
		return nil, apperror.ErrBelowMinimum
	}

	wallet, err := s.wallets.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if wallet.Available < amount {
		return nil, apperror.ErrInsufficientBalance
	}

	accountNumber, bankName, err := s.resolveBankDetails(ctx, userID, bank)
	if err != nil {
		return nil, err
	}

	fee := s.Fee(amount)
	cashout := &models.Cashout{
		UserID:            userID,
		Amount:            amount,
		Fee:               fee,
		NetAmount:         amount - fee,
		BankAccountNumber: accountNumber,
		BankName:          bankName,
	}

	result, err := s.repo.Create(ctx, cashout)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"cashout_id": result.Cashout.ID,
		"user_id":    userID,
		"amount":     amount,
		"fee":        fee,
	}).Info("cashout requested")

	return result, nil
}

// GetCashout returns one cashout, visible only to its owner or an admin.
func (s *CashoutService) GetCashout(ctx context.Context, id, actorID uuid.UUID, actorRole string) (*models.Cashout, error) {
	cashout, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cashout.UserID != actorID && actorRole != models.RoleAdmin {
		return nil, apperror.ErrForbidden
	}
	return cashout, nil
}

// ListUserCashouts returns a user's cashout history.
func (s *CashoutService) ListUserCashouts(ctx context.Context, userID uuid.UUID) ([]models.Cashout, error) {
	return s.repo.ListByUser(ctx, userID)
}

// ListCashouts returns the settlement queue for operators.
func (s *CashoutService) ListCashouts(ctx context.Context, status string, limit, offset int) ([]models.Cashout, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByStatus(ctx, status, limit, offset)
}

// Settle records the outcome of the bank transfer. A failed transfer puts
// the full amount back on the wallet through a refund entry.
func (s *CashoutService) Settle(ctx context.Context, cashoutID uuid.UUID, success bool, reason string) (*models.Cashout, error) {
	cashout, err := s.repo.Finalize(ctx, cashoutID, success, reason)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"cashout_id": cashout.ID,
		"status":     cashout.Status,
	}).Info("cashout settled")

	return cashout, nil
}

// resolveBankDetails takes the destination from the request or falls back to
// the artisan's saved payout details.
func (s *CashoutService) resolveBankDetails(ctx context.Context, userID uuid.UUID, bank *models.BankDetails) (string, string, error) {
	if bank != nil && strings.TrimSpace(bank.AccountNumber) != "" {
		if err := validation.ValidateBankAccountNumber(bank.AccountNumber); err != nil {
			return "", "", apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
		if strings.TrimSpace(bank.BankName) == "" {
			return "", "", apperror.ErrMissingBankDetails
		}
		return strings.TrimSpace(bank.AccountNumber), strings.TrimSpace(bank.BankName), nil
	}

	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return "", "", err
	}
	if profile.BankAccountNumber == nil || profile.BankName == nil ||
		strings.TrimSpace(*profile.BankAccountNumber) == "" || strings.TrimSpace(*profile.BankName) == "" {
		return "", "", apperror.ErrMissingBankDetails
	}
	return *profile.BankAccountNumber, *profile.BankName, nil
}
