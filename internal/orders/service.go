// Package orders implements the order pricing and placement engine. Line
// items are priced from the live variant exactly once, at placement; the
// snapshot travels with the order from then on.
package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"shopd/internal/apperr"
	"shopd/internal/events"
	"shopd/internal/models"
	"shopd/internal/notify"
)

// LineItem is one requested order line.
type LineItem struct {
	VariantID uuid.UUID `json:"variant_id"`
	Quantity  int       `json:"quantity"`
}

// Item is one placed order line with its snapshotted unit price.
type Item struct {
	ProductID uuid.UUID       `json:"product_id"`
	VariantID uuid.UUID       `json:"variant_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Detail is a fully hydrated order.
type Detail struct {
	ID          uuid.UUID       `json:"id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	Items       []Item          `json:"items"`
}

// Service prices and places orders.
type Service struct {
	store     Store
	mailer    notify.Mailer
	templates *notify.Templates
	bus       *events.Publisher
}

// NewService wires the order engine. Mailer and templates may be nil when
// confirmation emails are not wanted.
func NewService(store Store, mailer notify.Mailer, templates *notify.Templates, bus *events.Publisher) *Service {
	return &Service{store: store, mailer: mailer, templates: templates, bus: bus}
}

// Create validates the requested line items, prices them with exact
// decimal arithmetic, and persists the order and all item rows as one
// atomic unit. Any resolution failure aborts the whole placement; no
// partial order is ever written.
func (s *Service) Create(ctx context.Context, userID, addressID uuid.UUID, items []LineItem) (*Detail, error) {
	if len(items) == 0 {
		return nil, apperr.Wrap(apperr.ErrBadRequest, "order requires at least one item")
	}
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, apperr.Wrap(apperr.ErrBadRequest, "quantity must be at least 1")
		}
	}

	total := decimal.Zero
	rows := make([]models.OrderItem, 0, len(items))

	for _, item := range items {
		variant, err := s.store.VariantByID(ctx, item.VariantID)
		if err != nil {
			// Only a missing variant is the buyer's problem; anything else
			// is an internal fault and propagates untouched.
			if errors.Is(err, apperr.ErrNotFound) {
				return nil, apperr.Wrap(apperr.ErrInvalidVariant, "variant %s", item.VariantID)
			}
			return nil, err
		}

		total = total.Add(variant.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		rows = append(rows, models.OrderItem{
			ProductID: variant.ProductID,
			VariantID: variant.ID,
			Quantity:  item.Quantity,
			Price:     variant.Price,
		})
	}

	order := &models.Order{
		UserID:      userID,
		AddressID:   addressID,
		TotalAmount: total,
		Status:      models.OrderStatusCreated,
	}
	if err := s.store.CreateOrderWithItems(ctx, order, rows); err != nil {
		return nil, err
	}

	detail, err := s.Get(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	s.sendConfirmation(ctx, userID, detail)
	s.bus.Publish(events.SubjectOrderCreated, map[string]any{
		"order_id":     detail.ID,
		"user_id":      userID,
		"total_amount": detail.TotalAmount.String(),
	})
	return detail, nil
}

// Get returns the order header and its items with the prices captured at
// placement time.
func (s *Service) Get(ctx context.Context, orderID uuid.UUID) (*Detail, error) {
	order, err := s.store.OrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return hydrate(order), nil
}

// ListForUser returns all orders of a user, hydrated like Get. A user with
// no orders yields an empty slice.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]Detail, error) {
	orders, err := s.store.OrdersByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	details := make([]Detail, 0, len(orders))
	for i := range orders {
		details = append(details, *hydrate(&orders[i]))
	}
	return details, nil
}

func hydrate(order *models.Order) *Detail {
	detail := &Detail{
		ID:          order.ID,
		TotalAmount: order.TotalAmount,
		Status:      order.Status,
		CreatedAt:   order.CreatedAt,
		Items:       make([]Item, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		detail.Items = append(detail.Items, Item{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return detail
}

// sendConfirmation mails the order summary. Best effort: the order is
// already committed and a mail failure must not surface to the buyer.
func (s *Service) sendConfirmation(ctx context.Context, userID uuid.UUID, detail *Detail) {
	if s.mailer == nil || s.templates == nil {
		return
	}

	email, err := s.store.UserEmailByID(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Str("order_id", detail.ID.String()).Msg("resolve confirmation recipient")
		return
	}

	ids := make([]uuid.UUID, 0, len(detail.Items))
	for _, item := range detail.Items {
		ids = append(ids, item.ProductID)
	}
	names, err := s.store.ProductNamesByIDs(ctx, ids)
	if err != nil {
		names = map[uuid.UUID]string{}
	}

	lines := make([]notify.OrderConfirmationItem, 0, len(detail.Items))
	for _, item := range detail.Items {
		lines = append(lines, notify.OrderConfirmationItem{
			ProductName: names[item.ProductID],
			Quantity:    item.Quantity,
			Price:       item.Price.StringFixed(2),
		})
	}

	subject, html, err := s.templates.OrderConfirmation(
		detail.ID.String(),
		detail.CreatedAt.Format("02 Jan 2006 15:04"),
		detail.TotalAmount.StringFixed(2),
		lines,
	)
	if err != nil {
		return
	}
	if err := s.mailer.Send(ctx, subject, html, email); err != nil {
		log.Warn().Err(err).Str("order_id", detail.ID.String()).Msg("send order confirmation")
	}
}
