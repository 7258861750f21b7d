package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the identity record anchoring tokens, addresses, and orders.
// Registration creates it unverified and inactive; OTP confirmation flips
// both flags. An order, once placed, outlives any later user mutation.
type User struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email           string    `gorm:"type:text;uniqueIndex;not null"`
	PasswordHash    string    `gorm:"type:text;not null"`
	FirstName       string    `gorm:"type:text"`
	LastName        string    `gorm:"type:text"`
	IsActive        bool      `gorm:"not null;default:false"`
	IsSuperuser     bool      `gorm:"not null;default:false"`
	IsVerifiedEmail bool      `gorm:"not null;default:false"`
	DateJoined      time.Time `gorm:"autoCreateTime"`
	LastLogin       *time.Time

	Token     *UserToken `gorm:"constraint:OnDelete:CASCADE"`
	Addresses []Address  `gorm:"constraint:OnDelete:CASCADE"`
	Orders    []Order    `gorm:"constraint:OnDelete:SET NULL"`
}
