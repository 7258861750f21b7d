package models

import (
	"time"

	"github.com/google/uuid"
)

// Token purposes tracked by UserToken.TokenType. Issuing an OTP for a new
// purpose overwrites whatever purpose was pending before.
const (
	TokenTypeNone        = "none"
	TokenTypeRegister    = "register"
	TokenTypeResetPass   = "reset-password"
	TokenTypeChangeEmail = "change-email"
)

// UserToken is the 1:1 token/OTP state for a user: the pending OTP purpose,
// the OTP value with its expiry, the pending new email for the change-email
// flow, and the id of the currently valid access token (cleared on logout).
type UserToken struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null"`
	TokenType     string     `gorm:"type:text;not null;default:'none'"`
	OTP           string     `gorm:"type:text"`
	OTPExpiresAt  *time.Time
	NewEmail      *string    `gorm:"type:text"`
	AccessTokenID *uuid.UUID `gorm:"type:uuid"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime"`

	User User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID"`
}
