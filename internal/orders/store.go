package orders

import (
	"context"

	"github.com/google/uuid"

	"shopd/internal/models"
)

// Store is the persistence gateway for order placement and retrieval.
type Store interface {
	// VariantByID resolves a product variant; ErrNotFound when absent.
	VariantByID(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error)

	// CreateOrderWithItems persists the order row and all of its item rows
	// in a single transaction: either everything commits or nothing does.
	CreateOrderWithItems(ctx context.Context, order *models.Order, items []models.OrderItem) error

	// OrderByID returns the order with its items; ErrNotFound when absent.
	OrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)

	// OrdersByUser returns all orders of a user, items included, newest
	// first. No orders is an empty slice, not an error.
	OrdersByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)

	// ProductNamesByIDs resolves display names for the confirmation email.
	ProductNamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)

	// UserEmailByID resolves the recipient for the confirmation email.
	UserEmailByID(ctx context.Context, id uuid.UUID) (string, error)
}
