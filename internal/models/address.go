package models

import (
	"time"

	"github.com/google/uuid"
)

// Address is a shipping destination owned by a user and referenced by
// orders.
type Address struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Recipient  string    `gorm:"type:text;not null"`
	Line1      string    `gorm:"type:text;not null"`
	Line2      string    `gorm:"type:text"`
	City       string    `gorm:"type:text;not null"`
	State      string    `gorm:"type:text"`
	PostalCode string    `gorm:"type:text;not null"`
	Phone      string    `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`

	User User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID"`
}
