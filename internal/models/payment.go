package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment records a payment intent issued by the external gateway for an
// order. Created only after the gateway call succeeds.
type Payment struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	GatewayOrderID string          `gorm:"type:text;uniqueIndex;not null"`
	Amount         decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Status         string          `gorm:"type:text;not null;default:'created'"`
	CreatedAt      time.Time       `gorm:"autoCreateTime"`

	Order Order `gorm:"constraint:OnDelete:CASCADE;foreignKey:OrderID;references:ID"`
}
