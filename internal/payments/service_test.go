package payments

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopd/internal/apperr"
	"shopd/internal/models"
)

type memStore struct {
	orders   map[uuid.UUID]*models.Order
	payments []models.Payment
}

func (m *memStore) OrderByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, apperr.Wrap(apperr.ErrNotFound, "order %s", id)
	}
	cp := *o
	return &cp, nil
}

func (m *memStore) CreatePayment(_ context.Context, payment *models.Payment) error {
	payment.ID = uuid.New()
	m.payments = append(m.payments, *payment)
	return nil
}

type memGateway struct {
	calls    int
	gotMinor int64
	gotCurr  string
	gotRcpt  string
	err      error
}

func (g *memGateway) CreateIntent(_ context.Context, amountMinorUnits int64, currency, receipt string) (Intent, error) {
	g.calls++
	g.gotMinor = amountMinorUnits
	g.gotCurr = currency
	g.gotRcpt = receipt
	if g.err != nil {
		return Intent{}, g.err
	}
	return Intent{ID: "rzp_order_test", Amount: amountMinorUnits, Currency: currency}, nil
}

func seedOrder(store *memStore, total string) *models.Order {
	order := &models.Order{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		TotalAmount: decimal.RequireFromString(total),
		Status:      models.OrderStatusCreated,
	}
	store.orders[order.ID] = order
	return order
}

func TestCreateIntent(t *testing.T) {
	store := &memStore{orders: map[uuid.UUID]*models.Order{}}
	gateway := &memGateway{}
	svc := NewService(store, gateway, nil, "INR")

	order := seedOrder(store, "998.00")

	receipt, err := svc.CreateIntent(context.Background(), order.ID)
	require.NoError(t, err)

	// 998.00 INR converts to 99800 paise, and exactly one gateway call.
	assert.Equal(t, int64(99800), gateway.gotMinor)
	assert.Equal(t, "INR", gateway.gotCurr)
	assert.Equal(t, fmt.Sprintf("order_%s", order.ID), gateway.gotRcpt)
	assert.Equal(t, 1, gateway.calls)

	assert.Equal(t, order.ID, receipt.OrderID)
	assert.Equal(t, "rzp_order_test", receipt.GatewayOrderID)
	assert.True(t, receipt.Amount.Equal(order.TotalAmount))
	assert.Equal(t, "INR", receipt.Currency)
	assert.Equal(t, "created", receipt.Status)

	require.Len(t, store.payments, 1)
	assert.Equal(t, "rzp_order_test", store.payments[0].GatewayOrderID)
	assert.True(t, store.payments[0].Amount.Equal(order.TotalAmount))
}

func TestCreateIntentFractionalTotals(t *testing.T) {
	tests := []struct {
		total string
		minor int64
	}{
		{"0.01", 1},
		{"249.50", 24950},
		{"1247.50", 124750},
		{"100000.00", 10000000},
	}
	for _, tt := range tests {
		t.Run(tt.total, func(t *testing.T) {
			store := &memStore{orders: map[uuid.UUID]*models.Order{}}
			gateway := &memGateway{}
			svc := NewService(store, gateway, nil, "INR")
			order := seedOrder(store, tt.total)

			_, err := svc.CreateIntent(context.Background(), order.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.minor, gateway.gotMinor)
		})
	}
}

func TestCreateIntentUnknownOrder(t *testing.T) {
	store := &memStore{orders: map[uuid.UUID]*models.Order{}}
	gateway := &memGateway{}
	svc := NewService(store, gateway, nil, "INR")

	_, err := svc.CreateIntent(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Zero(t, gateway.calls)
}

func TestCreateIntentGatewayFailure(t *testing.T) {
	store := &memStore{orders: map[uuid.UUID]*models.Order{}}
	gateway := &memGateway{err: errors.New("gateway unreachable")}
	svc := NewService(store, gateway, nil, "INR")
	order := seedOrder(store, "998.00")

	_, err := svc.CreateIntent(context.Background(), order.ID)
	require.Error(t, err)

	// No Payment row without a gateway-issued intent.
	assert.Empty(t, store.payments)
}
