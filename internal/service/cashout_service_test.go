package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/craftlink/craftlink-backend/internal/models"
	"github.com/craftlink/craftlink-backend/internal/pkg/apperror"
)

type mockCashoutRepo struct {
	mock.Mock
}

func (m *mockCashoutRepo) Create(ctx context.Context, cashout *models.Cashout) (*models.CashoutResult, error) {
	args := m.Called(ctx, cashout)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CashoutResult), args.Error(1)
}

func (m *mockCashoutRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Cashout, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cashout), args.Error(1)
}

func (m *mockCashoutRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Cashout, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Cashout), args.Error(1)
}

func (m *mockCashoutRepo) ListByStatus(ctx context.Context, status string, limit, offset int) ([]models.Cashout, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Cashout), args.Error(1)
}

func (m *mockCashoutRepo) Finalize(ctx context.Context, cashoutID uuid.UUID, success bool, reason string) (*models.Cashout, error) {
	args := m.Called(ctx, cashoutID, success, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cashout), args.Error(1)
}

type mockBalanceReader struct {
	mock.Mock
}

func (m *mockBalanceReader) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wallet), args.Error(1)
}

type mockProfileReader struct {
	mock.Mock
}

func (m *mockProfileReader) GetProfile(ctx context.Context, userID uuid.UUID) (*models.ArtisanProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ArtisanProfile), args.Error(1)
}

func newTestCashoutService(repo *mockCashoutRepo, wallets *mockBalanceReader, profiles *mockProfileReader) *CashoutService {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewCashoutService(repo, wallets, profiles, log, 1000, 2.5)
}

func TestRequestCashout_FeeArithmetic(t *testing.T) {
	repo := new(mockCashoutRepo)
	wallets := new(mockBalanceReader)
	svc := newTestCashoutService(repo, wallets, new(mockProfileReader))

	userID := uuid.New()
	wallets.On("GetOrCreate", mock.Anything, userID).Return(&models.Wallet{
		UserID:    userID,
		Available: 15000,
	}, nil)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(c *models.Cashout) bool {
		return c.Amount == 10000 && c.Fee == 250 && c.NetAmount == 9750
	})).Return(&models.CashoutResult{
		Cashout: &models.Cashout{ID: uuid.New(), Amount: 10000, Fee: 250, NetAmount: 9750},
		CashoutTransaction: &models.Transaction{
			Amount: -10000,
			Type:   models.TransactionTypeCashout,
			Status: models.TransactionStatusPending,
		},
		FeeTransaction: &models.Transaction{
			Amount: -250,
			Type:   models.TransactionTypeFee,
			Status: models.TransactionStatusCompleted,
		},
	}, nil)

	result, err := svc.RequestCashout(context.Background(), userID, 10000, &models.BankDetails{
		AccountNumber: "0123456789",
		BankName:      "GTBank",
	})

	assert.NoError(t, err)
	assert.Equal(t, -10000.0, result.CashoutTransaction.Amount)
	assert.Equal(t, models.TransactionStatusPending, result.CashoutTransaction.Status)
	assert.Equal(t, -250.0, result.FeeTransaction.Amount)
	assert.Equal(t, models.TransactionStatusCompleted, result.FeeTransaction.Status)
	repo.AssertExpectations(t)
}

// A request failing several preconditions reports the first one in the
// fixed order: minimum, balance, bank details.
func TestRequestCashout_BelowMinimumWinsOverMissingBank(t *testing.T) {
	svc := newTestCashoutService(new(mockCashoutRepo), new(mockBalanceReader), new(mockProfileReader))

	_, err := svc.RequestCashout(context.Background(), uuid.New(), 500, nil)

	assert.ErrorIs(t, err, apperror.ErrBelowMinimum)
}

func TestRequestCashout_InsufficientBeforeMissingBank(t *testing.T) {
	wallets := new(mockBalanceReader)
	svc := newTestCashoutService(new(mockCashoutRepo), wallets, new(mockProfileReader))

	userID := uuid.New()
	wallets.On("GetOrCreate", mock.Anything, userID).Return(&models.Wallet{
		UserID:    userID,
		Available: 1500,
	}, nil)

	_, err := svc.RequestCashout(context.Background(), userID, 2000, nil)

	assert.ErrorIs(t, err, apperror.ErrInsufficientBalance)
}

func TestRequestCashout_MissingBankDetails(t *testing.T) {
	wallets := new(mockBalanceReader)
	profiles := new(mockProfileReader)
	svc := newTestCashoutService(new(mockCashoutRepo), wallets, profiles)

	userID := uuid.New()
	wallets.On("GetOrCreate", mock.Anything, userID).Return(&models.Wallet{
		UserID:    userID,
		Available: 5000,
	}, nil)
	profiles.On("GetProfile", mock.Anything, userID).Return(&models.ArtisanProfile{
		UserID: userID,
	}, nil)

	_, err := svc.RequestCashout(context.Background(), userID, 2000, nil)

	assert.ErrorIs(t, err, apperror.ErrMissingBankDetails)
}

func TestRequestCashout_UsesSavedBankDetails(t *testing.T) {
	repo := new(mockCashoutRepo)
	wallets := new(mockBalanceReader)
	profiles := new(mockProfileReader)
	svc := newTestCashoutService(repo, wallets, profiles)

	userID := uuid.New()
	account := "9876543210"
	bank := "Zenith Bank"

	wallets.On("GetOrCreate", mock.Anything, userID).Return(&models.Wallet{
		UserID:    userID,
		Available: 5000,
	}, nil)
	profiles.On("GetProfile", mock.Anything, userID).Return(&models.ArtisanProfile{
		UserID:            userID,
		BankAccountNumber: &account,
		BankName:          &bank,
	}, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(c *models.Cashout) bool {
		return c.BankAccountNumber == account && c.BankName == bank
	})).Return(&models.CashoutResult{Cashout: &models.Cashout{ID: uuid.New()}}, nil)

	_, err := svc.RequestCashout(context.Background(), userID, 2000, nil)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestFee_Rounding(t *testing.T) {
	svc := newTestCashoutService(new(mockCashoutRepo), new(mockBalanceReader), new(mockProfileReader))

	assert.Equal(t, 250.0, svc.Fee(10000))
	assert.Equal(t, 25.0, svc.Fee(1000))
	// 1001 * 2.5% = 25.025, rounds to the nearest kobo
	assert.Equal(t, 25.03, svc.Fee(1001))
}

func TestGetCashout_OwnerOnly(t *testing.T) {
	repo := new(mockCashoutRepo)
	svc := newTestCashoutService(repo, new(mockBalanceReader), new(mockProfileReader))

	ownerID := uuid.New()
	cashoutID := uuid.New()
	repo.On("GetByID", mock.Anything, cashoutID).Return(&models.Cashout{
		ID:     cashoutID,
		UserID: ownerID,
	}, nil)

	_, err := svc.GetCashout(context.Background(), cashoutID, uuid.New(), models.RoleArtisan)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = svc.GetCashout(context.Background(), cashoutID, uuid.New(), models.RoleAdmin)
	assert.NoError(t, err)
}
