package catalog

import (
	"context"

	"github.com/google/uuid"

	"shopd/internal/models"
)

// Store is the persistence gateway for the catalog.
type Store interface {
	ListProducts(ctx context.Context, category string, activeOnly bool) ([]models.Product, error)
	ProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	SaveProduct(ctx context.Context, product *models.Product) error
	AddVariant(ctx context.Context, variant *models.ProductVariant) error
	AddMedia(ctx context.Context, media *models.ProductMedia) error
	MediaByID(ctx context.Context, id uuid.UUID) (*models.ProductMedia, error)
	DeleteMedia(ctx context.Context, id uuid.UUID) error
}
