package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order status values. Placement always starts at created; downstream
// transitions belong to fulfilment.
const (
	OrderStatusCreated   = "created"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Order is a placed order. TotalAmount must equal the sum of its items'
// Price × Quantity at creation time; the rows are written in one
// transaction so no reader ever sees an order without its items.
type Order struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	AddressID   uuid.UUID       `gorm:"type:uuid;not null"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Status      string          `gorm:"type:text;not null;default:'created'"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`

	Items []OrderItem `gorm:"constraint:OnDelete:CASCADE"`
}
