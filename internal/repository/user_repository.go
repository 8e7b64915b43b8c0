package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/craftlink/craftlink-backend/internal/models"
	"github.com/craftlink/craftlink-backend/internal/pkg/apperror"
)

const userColumns = `id, email, username, password_hash, role, is_active, last_login_at, created_at, updated_at`

const profileColumns = `user_id, available, state, latitude, longitude,
	bank_account_name, bank_account_number, bank_name, updated_at`

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user account.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	err := r.db.GetContext(ctx, user, `
		INSERT INTO users (email, username, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		user.Email, user.Username, user.PasswordHash, user.Role)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return apperror.New(apperror.ErrCodeConflict, "email is already registered")
		}
		return fmt.Errorf("user repository: create: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get by email: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_login_at = NOW(), updated_at = NOW() WHERE id = $1`, id)
	return err
}

// CreateSession stores a refresh-token session.
func (r *UserRepository) CreateSession(ctx context.Context, session *models.Session) error {
	err := r.db.GetContext(ctx, session, `
		INSERT INTO sessions (user_id, refresh_token, user_agent, ip_address, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, refresh_token, user_agent, ip_address, expires_at, created_at`,
		session.UserID, session.RefreshToken, session.UserAgent, session.IPAddress, session.ExpiresAt)
	if err != nil {
		return fmt.Errorf("user repository: create session: %w", err)
	}
	return nil
}

// GetSessionByToken returns a live session for the refresh token.
func (r *UserRepository) GetSessionByToken(ctx context.Context, refreshToken string) (*models.Session, error) {
	var session models.Session
	err := r.db.GetContext(ctx, &session, `
		SELECT id, user_id, refresh_token, user_agent, ip_address, expires_at, created_at
		FROM sessions WHERE refresh_token = $1 AND expires_at > $2
	`, refreshToken, time.Now())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrUnauthorized
		}
		return nil, fmt.Errorf("user repository: get session: %w", err)
	}
	return &session, nil
}

func (r *UserRepository) DeleteSession(ctx context.Context, refreshToken string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE refresh_token = $1`, refreshToken)
	return err
}

func (r *UserRepository) DeleteUserSessions(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
	return err
}

// GetProfile returns an artisan's profile, creating the default row on first
// access so every artisan always has one.
func (r *UserRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*models.ArtisanProfile, error) {
	var profile models.ArtisanProfile
	err := r.db.GetContext(ctx, &profile, `
		INSERT INTO artisan_profiles (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING `+profileColumns, userID)
	if err != nil {
		return nil, fmt.Errorf("user repository: get profile: %w", err)
	}
	return &profile, nil
}

// UpdateProfile replaces the mutable profile fields.
func (r *UserRepository) UpdateProfile(ctx context.Context, profile *models.ArtisanProfile) error {
	err := r.db.GetContext(ctx, profile, `
		INSERT INTO artisan_profiles (user_id, available, state, latitude, longitude,
			bank_account_name, bank_account_number, bank_name, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			available = EXCLUDED.available,
			state = EXCLUDED.state,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			bank_account_name = EXCLUDED.bank_account_name,
			bank_account_number = EXCLUDED.bank_account_number,
			bank_name = EXCLUDED.bank_name,
			updated_at = NOW()
		RETURNING `+profileColumns,
		profile.UserID, profile.Available, profile.State, profile.Latitude, profile.Longitude,
		profile.BankAccountName, profile.BankAccountNumber, profile.BankName)
	if err != nil {
		return fmt.Errorf("user repository: update profile: %w", err)
	}
	return nil
}

// CountByRole returns user counts grouped by role (admin stats).
func (r *UserRepository) CountByRole(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT role, COUNT(*) FROM users GROUP BY role`)
	if err != nil {
		return nil, fmt.Errorf("user repository: count by role: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var role string
		var count int
		if err := rows.Scan(&role, &count); err != nil {
			return nil, err
		}
		counts[role] = count
	}
	return counts, rows.Err()
}
