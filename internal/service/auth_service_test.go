package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/craftlink/craftlink-backend/internal/models"
	"github.com/craftlink/craftlink-backend/internal/pkg/apperror"
)

type mockAuthRepo struct {
	mock.Mock
}

func (m *mockAuthRepo) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	user.ID = uuid.New()
	return args.Error(0)
}

func (m *mockAuthRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockAuthRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockAuthRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockAuthRepo) CreateSession(ctx context.Context, session *models.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *mockAuthRepo) GetSessionByToken(ctx context.Context, refreshToken string) (*models.Session, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *mockAuthRepo) DeleteSession(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

func (m *mockAuthRepo) DeleteUserSessions(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func newTestAuthService(repo *mockAuthRepo) *AuthService {
	tokens := NewTokenManager("test-access-secret", "test-refresh-secret", 15*time.Minute, 720*time.Hour)
	return NewAuthService(repo, tokens)
}

func TestRegister_CreatesClientByDefault(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := newTestAuthService(repo)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Role == models.RoleClient && u.Email == "ada@example.com"
	})).Return(nil)
	repo.On("CreateSession", mock.Anything, mock.Anything).Return(nil)

	result, err := svc.Register(context.Background(), RegisterInput{
		Email:    "Ada@example.com",
		Password: "Sekure123",
	})

	assert.NoError(t, err)
	assert.Equal(t, models.RoleClient, result.User.Role)
	assert.NotEmpty(t, result.TokenPair.AccessToken)
	assert.NotEmpty(t, result.TokenPair.RefreshToken)
	repo.AssertExpectations(t)
}

func TestRegister_RejectsWeakPassword(t *testing.T) {
	svc := newTestAuthService(new(mockAuthRepo))

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "ada@example.com",
		Password: "short",
	})

	assert.True(t, apperror.IsValidation(err))
}

func TestRegister_RejectsAdminRole(t *testing.T) {
	svc := newTestAuthService(new(mockAuthRepo))

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "ada@example.com",
		Password: "Sekure123",
		Role:     models.RoleAdmin,
	})

	assert.True(t, apperror.IsValidation(err))
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := newTestAuthService(repo)

	hash, _ := bcrypt.GenerateFromPassword([]byte("Sekure123"), bcrypt.DefaultCost)
	repo.On("GetByEmail", mock.Anything, "ada@example.com").Return(&models.User{
		ID:           uuid.New(),
		Email:        "ada@example.com",
		PasswordHash: string(hash),
		IsActive:     true,
	}, nil)

	_, err := svc.Login(context.Background(), LoginInput{
		Email:    "ada@example.com",
		Password: "WrongPass1",
	})

	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestLogin_UnknownEmailSameError(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := newTestAuthService(repo)

	repo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, apperror.ErrUserNotFound)

	_, err := svc.Login(context.Background(), LoginInput{
		Email:    "ghost@example.com",
		Password: "Whatever1",
	})

	// Unknown account and wrong password are indistinguishable to callers.
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestLogin_DeactivatedAccount(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := newTestAuthService(repo)

	hash, _ := bcrypt.GenerateFromPassword([]byte("Sekure123"), bcrypt.DefaultCost)
	repo.On("GetByEmail", mock.Anything, "ada@example.com").Return(&models.User{
		ID:           uuid.New(),
		Email:        "ada@example.com",
		PasswordHash: string(hash),
		IsActive:     false,
	}, nil)

	_, err := svc.Login(context.Background(), LoginInput{
		Email:    "ada@example.com",
		Password: "Sekure123",
	})

	assert.True(t, apperror.Is(err, apperror.ErrCodeForbidden))
}

func TestRefresh_RotatesSession(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := newTestAuthService(repo)

	user := &models.User{ID: uuid.New(), Email: "ada@example.com", Role: models.RoleArtisan}
	pair, refreshExp, err := svc.tokenManager.GeneratePair(user)
	assert.NoError(t, err)

	repo.On("GetSessionByToken", mock.Anything, pair.RefreshToken).Return(&models.Session{
		ID:           uuid.New(),
		UserID:       user.ID,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    refreshExp,
	}, nil)
	repo.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	repo.On("DeleteSession", mock.Anything, pair.RefreshToken).Return(nil)
	repo.On("CreateSession", mock.Anything, mock.Anything).Return(nil)

	result, err := svc.Refresh(context.Background(), pair.RefreshToken)

	assert.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, result.TokenPair.RefreshToken)
	repo.AssertCalled(t, "DeleteSession", mock.Anything, pair.RefreshToken)
}

func TestRefresh_GarbageToken(t *testing.T) {
	svc := newTestAuthService(new(mockAuthRepo))

	_, err := svc.Refresh(context.Background(), "not-a-jwt")

	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}
