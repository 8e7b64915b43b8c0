package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/craftlink/craftlink-backend/internal/models"
	"github.com/craftlink/craftlink-backend/internal/pkg/apperror"
	"github.com/craftlink/craftlink-backend/internal/validation"
)

// AuthRepository describes what AuthService needs from the storage layer.
type AuthRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
	CreateSession(ctx context.Context, session *models.Session) error
	GetSessionByToken(ctx context.Context, refreshToken string) (*models.Session, error)
	DeleteSession(ctx context.Context, refreshToken string) error
	DeleteUserSessions(ctx context.Context, userID uuid.UUID) error
}

// AuthService handles registration and authentication.
type AuthService struct {
	repo         AuthRepository
	tokenManager *TokenManager
}

// RegisterInput carries registration data.
type RegisterInput struct {
	Email    string
	Password string
	Username string
	Role     string
}

// LoginInput carries login credentials.
type LoginInput struct {
	Email     string
	Password  string
	UserAgent string
	IPAddress string
}

// AuthResult is the outcome of a registration or login.
type AuthResult struct {
	User      *models.User
	TokenPair *TokenPair
}

func NewAuthService(repo AuthRepository, tokenManager *TokenManager) *AuthService {
	return &AuthService{
		repo:         repo,
		tokenManager: tokenManager,
	}
}

// Register creates a new client or artisan account.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	username := strings.TrimSpace(in.Username)
	if username == "" {
		username = deriveUsername(in.Email)
	}
	if err := validation.ValidateUsername(username); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	role := in.Role
	if role == "" {
		role = models.RoleClient
	}
	if _, ok := models.ValidRoles[role]; !ok {
		return nil, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("unknown role %q", role))
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth service: hash password: %w", err)
	}

	user := &models.User{
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Username:     username,
		PasswordHash: string(passHash),
		Role:         role,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	pair, refreshExp, err := s.tokenManager.GeneratePair(user)
	if err != nil {
		return nil, fmt.Errorf("auth service: issue tokens: %w", err)
	}

	if err := s.repo.CreateSession(ctx, &models.Session{
		UserID:       user.ID,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    refreshExp,
	}); err != nil {
		return nil, err
	}

	return &AuthResult{User: user, TokenPair: pair}, nil
}

// Login verifies credentials and issues a token pair.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, apperror.New(apperror.ErrCodeForbidden, "account is deactivated")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	pair, refreshExp, err := s.tokenManager.GeneratePair(user)
	if err != nil {
		return nil, fmt.Errorf("auth service: issue tokens: %w", err)
	}

	session := &models.Session{
		UserID:       user.ID,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    refreshExp,
	}
	if in.UserAgent != "" {
		session.UserAgent = &in.UserAgent
	}
	if in.IPAddress != "" {
		session.IPAddress = &in.IPAddress
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateLastLogin(ctx, user.ID); err != nil {
		return nil, err
	}

	return &AuthResult{User: user, TokenPair: pair}, nil
}

// Refresh rotates a refresh token: the old session is dropped and a new one
// is created, so a stolen token can be used at most once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.tokenManager.ParseRefresh(refreshToken)
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}

	session, err := s.repo.GetSessionByToken(ctx, refreshToken)
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}
	if session.ExpiresAt.Before(time.Now()) || claims.Subject != session.UserID.String() {
		return nil, apperror.ErrUnauthorized
	}

	user, err := s.repo.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}

	if err := s.repo.DeleteSession(ctx, refreshToken); err != nil {
		return nil, err
	}

	pair, refreshExp, err := s.tokenManager.GeneratePair(user)
	if err != nil {
		return nil, fmt.Errorf("auth service: issue tokens: %w", err)
	}

	if err := s.repo.CreateSession(ctx, &models.Session{
		UserID:       user.ID,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    refreshExp,
	}); err != nil {
		return nil, err
	}

	return &AuthResult{User: user, TokenPair: pair}, nil
}

// Logout drops the session of the given refresh token.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.repo.DeleteSession(ctx, refreshToken)
}

// LogoutAll drops every session of a user.
func (s *AuthService) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	return s.repo.DeleteUserSessions(ctx, userID)
}

// GetUser returns the account for an authenticated user ID.
func (s *AuthService) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.repo.GetByID(ctx, userID)
}

// deriveUsername builds a username from the email local part.
func deriveUsername(email string) string {
	local := strings.SplitN(strings.ToLower(strings.TrimSpace(email)), "@", 2)[0]
	cleaned := make([]rune, 0, len(local))
	for _, r := range local {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			cleaned = append(cleaned, r)
		}
	}
	if len(cleaned) < validation.MinUsernameLength {
		return "user_" + uuid.NewString()[:8]
	}
	return string(cleaned)
}
