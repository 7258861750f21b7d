// Package payments bridges placed orders to the external payment gateway
// and records the issued intents.
package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"shopd/internal/apperr"
	"shopd/internal/events"
	"shopd/internal/models"
)

// Store is the persistence gateway for payments.
type Store interface {
	OrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	CreatePayment(ctx context.Context, payment *models.Payment) error
}

// Receipt describes a created payment intent.
type Receipt struct {
	PaymentID      uuid.UUID       `json:"payment_id"`
	OrderID        uuid.UUID       `json:"order_id"`
	GatewayOrderID string          `json:"gateway_order_id"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	Status         string          `json:"status"`
}

// Service creates payment intents for persisted orders.
type Service struct {
	store    Store
	gateway  Gateway
	bus      *events.Publisher
	currency string
}

// NewService wires the payment bridge.
func NewService(store Store, gateway Gateway, bus *events.Publisher, currency string) *Service {
	return &Service{store: store, gateway: gateway, bus: bus, currency: currency}
}

// CreateIntent converts the order total into minor currency units, requests
// one intent from the gateway, and records the Payment row. Exactly one
// gateway request is made per invocation.
func (s *Service) CreateIntent(ctx context.Context, orderID uuid.UUID) (*Receipt, error) {
	order, err := s.store.OrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	// Shift by the currency exponent; numeric(12,2) totals convert without
	// remainder.
	minor := order.TotalAmount.Shift(2)
	if !minor.IsInteger() {
		return nil, fmt.Errorf("order %s total %s does not convert to minor units exactly", order.ID, order.TotalAmount)
	}

	receipt := fmt.Sprintf("order_%s", order.ID)
	intent, err := s.gateway.CreateIntent(ctx, minor.IntPart(), s.currency, receipt)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		OrderID:        order.ID,
		GatewayOrderID: intent.ID,
		Amount:         order.TotalAmount,
		Status:         "created",
	}
	if err := s.store.CreatePayment(ctx, payment); err != nil {
		return nil, err
	}

	s.bus.Publish(events.SubjectPaymentCreated, map[string]any{
		"payment_id":       payment.ID,
		"order_id":         order.ID,
		"gateway_order_id": intent.ID,
		"amount":           order.TotalAmount.String(),
	})
	return &Receipt{
		PaymentID:      payment.ID,
		OrderID:        order.ID,
		GatewayOrderID: intent.ID,
		Amount:         order.TotalAmount,
		Currency:       s.currency,
		Status:         payment.Status,
	}, nil
}

// GormStore implements Store on top of the shared GORM handle.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps the database handle.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) OrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).First(&order, "id = ?", id).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperr.Wrap(apperr.ErrNotFound, "order %s", id)
	case err != nil:
		return nil, err
	}
	return &order, nil
}

func (s *GormStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	return s.db.WithContext(ctx).Create(payment).Error
}
