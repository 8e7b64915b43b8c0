package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/craftlink/craftlink-backend/internal/models"
	"github.com/craftlink/craftlink-backend/internal/pkg/apperror"
	"github.com/craftlink/craftlink-backend/internal/validation"
)

// ProfileRepository describes what ProfileService needs from the storage layer.
type ProfileRepository interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.ArtisanProfile, error)
	UpdateProfile(ctx context.Context, profile *models.ArtisanProfile) error
}

// ProfileService manages artisan matching and payout attributes.
type ProfileService struct {
	repo ProfileRepository
}

// UpdateProfileInput carries the mutable profile fields. Nil pointers clear
// the corresponding attribute.
type UpdateProfileInput struct {
	Available         bool
	State             *string
	Latitude          *float64
	Longitude         *float64
	BankAccountName   *string
	BankAccountNumber *string
	BankName          *string
}

func NewProfileService(repo ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo}
}

// GetProfile returns an artisan's profile.
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.ArtisanProfile, error) {
	return s.repo.GetProfile(ctx, userID)
}

// UpdateProfile replaces the artisan's matching and payout attributes.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (*models.ArtisanProfile, error) {
	if err := validation.ValidateCoordinates(in.Latitude, in.Longitude); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if in.State != nil {
		trimmed := strings.TrimSpace(*in.State)
		if err := validation.ValidateLength("state", trimmed, 0, validation.MaxStateLength); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
		in.State = &trimmed
	}
	if in.BankAccountNumber != nil && strings.TrimSpace(*in.BankAccountNumber) != "" {
		if err := validation.ValidateBankAccountNumber(*in.BankAccountNumber); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
	}

	profile := &models.ArtisanProfile{
		UserID:            userID,
		Available:         in.Available,
		State:             in.State,
		Latitude:          in.Latitude,
		Longitude:         in.Longitude,
		BankAccountName:   in.BankAccountName,
		BankAccountNumber: in.BankAccountNumber,
		BankName:          in.BankName,
	}
	if err := s.repo.UpdateProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
