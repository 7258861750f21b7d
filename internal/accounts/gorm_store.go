package accounts

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"shopd/internal/apperr"
	"shopd/internal/models"
)

// GormStore implements Store on top of the shared GORM handle.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps the database handle.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperr.Wrap(apperr.ErrNotFound, "user %s", email)
	case err != nil:
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperr.Wrap(apperr.ErrNotFound, "user %s", id)
	case err != nil:
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return tx.Create(&models.UserToken{
			UserID:    user.ID,
			TokenType: models.TokenTypeNone,
		}).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Wrap(apperr.ErrConflict, "email %s", user.Email)
	}
	return err
}

func (s *GormStore) TokenByUserID(ctx context.Context, userID uuid.UUID) (*models.UserToken, error) {
	var token models.UserToken
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&token).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperr.Wrap(apperr.ErrNotFound, "token state for user %s", userID)
	case err != nil:
		return nil, err
	}
	return &token, nil
}

func (s *GormStore) SetOTP(ctx context.Context, userID uuid.UUID, tokenType, otp string, expiresAt time.Time, newEmail *string) error {
	res := s.db.WithContext(ctx).Model(&models.UserToken{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"token_type":     tokenType,
			"otp":            otp,
			"otp_expires_at": expiresAt,
			"new_email":      newEmail,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.Wrap(apperr.ErrNotFound, "token state for user %s", userID)
	}
	return nil
}

// consumeOTP clears the pending OTP iff purpose and code still match,
// returning ErrInvalidOtp when a concurrent call already consumed it.
func consumeOTP(tx *gorm.DB, userID uuid.UUID, tokenType, otp string, accessTokenID *uuid.UUID) error {
	updates := map[string]any{
		"token_type":     models.TokenTypeNone,
		"otp":            "",
		"otp_expires_at": nil,
		"new_email":      nil,
	}
	if accessTokenID != nil {
		updates["access_token_id"] = *accessTokenID
	}

	res := tx.Model(&models.UserToken{}).
		Where("user_id = ? AND token_type = ? AND otp = ?", userID, tokenType, otp).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.Wrap(apperr.ErrInvalidOtp, "otp already consumed for user %s", userID)
	}
	return nil
}

func (s *GormStore) ActivateUser(ctx context.Context, userID uuid.UUID, otp string, accessTokenID uuid.UUID, now time.Time) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := consumeOTP(tx, userID, models.TokenTypeRegister, otp, &accessTokenID); err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ?", userID).
			Updates(map[string]any{
				"is_verified_email": true,
				"is_active":         true,
				"last_login":        now,
			}).Error
	})
}

func (s *GormStore) ResetPassword(ctx context.Context, userID uuid.UUID, otp, newHash string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := consumeOTP(tx, userID, models.TokenTypeResetPass, otp, nil); err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("password_hash", newHash).Error
	})
}

func (s *GormStore) CompleteEmailChange(ctx context.Context, userID uuid.UUID, otp, newEmail string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := consumeOTP(tx, userID, models.TokenTypeChangeEmail, otp, nil); err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("email", newEmail).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Wrap(apperr.ErrConflict, "email %s", newEmail)
	}
	return err
}

func (s *GormStore) RecordLogin(ctx context.Context, userID uuid.UUID, accessTokenID uuid.UUID, now time.Time) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("last_login", now).Error; err != nil {
			return err
		}
		return tx.Model(&models.UserToken{}).
			Where("user_id = ?", userID).
			Update("access_token_id", accessTokenID).Error
	})
}

func (s *GormStore) ClearAccessToken(ctx context.Context, userID uuid.UUID) error {
	return s.db.WithContext(ctx).Model(&models.UserToken{}).
		Where("user_id = ?", userID).
		Update("access_token_id", nil).Error
}

func (s *GormStore) RecordAudit(ctx context.Context, entry *models.AuditLog) error {
	return s.db.WithContext(ctx).Create(entry).Error
}
