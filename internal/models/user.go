package models

import (
	"time"

	"github.com/google/uuid"
)

// User roles
const (
	RoleClient  = "client"
	RoleArtisan = "artisan"
	RoleAdmin   = "admin"
)

// ValidRoles lists roles accepted at registration.
var ValidRoles = map[string]struct{}{
	RoleClient:  {},
	RoleArtisan: {},
}

// User is a platform account (client, artisan or admin).
type User struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	Username     string     `db:"username" json:"username"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         string     `db:"role" json:"role"`
	IsActive     bool       `db:"is_active" json:"is_active"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// ArtisanProfile carries the matching and payout attributes of a worker.
// Coordinates and state are optional; bank details must be present before
// any cashout is permitted.
type ArtisanProfile struct {
	UserID            uuid.UUID `db:"user_id" json:"user_id"`
	Available         bool      `db:"available" json:"available"`
	State             *string   `db:"state" json:"state,omitempty"`
	Latitude          *float64  `db:"latitude" json:"latitude,omitempty"`
	Longitude         *float64  `db:"longitude" json:"longitude,omitempty"`
	BankAccountName   *string   `db:"bank_account_name" json:"bank_account_name,omitempty"`
	BankAccountNumber *string   `db:"bank_account_number" json:"bank_account_number,omitempty"`
	BankName          *string   `db:"bank_name" json:"bank_name,omitempty"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// HasCoordinates reports whether the artisan shared a location.
func (p *ArtisanProfile) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// BankDetails is the payout destination supplied with a cashout request.
type BankDetails struct {
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
	BankName      string `json:"bank_name"`
}

// Session is a stored refresh-token session.
type Session struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	RefreshToken string    `db:"refresh_token" json:"refresh_token"`
	UserAgent    *string   `db:"user_agent" json:"user_agent,omitempty"`
	IPAddress    *string   `db:"ip_address" json:"ip_address,omitempty"`
	ExpiresAt    time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
