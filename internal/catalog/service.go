// Package catalog serves the product read model and the superuser-facing
// catalog management operations, including media uploads.
package catalog

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"shopd/internal/apperr"
	"shopd/internal/media"
	"shopd/internal/models"
)

// ProductInput carries the fields of a product create/update request.
type ProductInput struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Ingredients string         `json:"ingredients"`
	HowToUse    string         `json:"how_to_use"`
	Category    string         `json:"category"`
	ProductType string         `json:"product_type"`
	Status      string         `json:"status"`
	Details     map[string]any `json:"details"`
}

// VariantInput carries the fields of a variant create request.
type VariantInput struct {
	VariantName string          `json:"variant_name"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
}

// Service exposes catalog browsing and management.
type Service struct {
	store  Store
	assets media.Store
}

// NewService wires the catalog. The asset store may be nil when media
// management is disabled.
func NewService(store Store, assets media.Store) *Service {
	return &Service{store: store, assets: assets}
}

// ListProducts returns active products, optionally narrowed by category.
func (s *Service) ListProducts(ctx context.Context, category string) ([]models.Product, error) {
	return s.store.ListProducts(ctx, category, true)
}

// GetProduct returns one product with its variants and media.
func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.store.ProductByID(ctx, id)
}

// CreateProduct adds a catalog entry.
func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if in.Name == "" {
		return nil, apperr.Wrap(apperr.ErrBadRequest, "product name is required")
	}
	status := in.Status
	if status == "" {
		status = models.ProductStatusDraft
	}

	product := &models.Product{
		Name:        in.Name,
		Description: in.Description,
		Ingredients: in.Ingredients,
		HowToUse:    in.HowToUse,
		Category:    in.Category,
		ProductType: in.ProductType,
		Status:      status,
		Details:     detailsJSON(in.Details),
	}
	if err := s.store.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct replaces the descriptive fields of a product.
func (s *Service) UpdateProduct(ctx context.Context, id uuid.UUID, in ProductInput) (*models.Product, error) {
	product, err := s.store.ProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		product.Name = in.Name
	}
	product.Description = in.Description
	product.Ingredients = in.Ingredients
	product.HowToUse = in.HowToUse
	product.Category = in.Category
	product.ProductType = in.ProductType
	if in.Status != "" {
		product.Status = in.Status
	}
	if in.Details != nil {
		product.Details = detailsJSON(in.Details)
	}

	if err := s.store.SaveProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// AddVariant attaches a priced variant to a product.
func (s *Service) AddVariant(ctx context.Context, productID uuid.UUID, in VariantInput) (*models.ProductVariant, error) {
	if in.VariantName == "" {
		return nil, apperr.Wrap(apperr.ErrBadRequest, "variant name is required")
	}
	if in.Price.IsNegative() {
		return nil, apperr.Wrap(apperr.ErrBadRequest, "price must not be negative")
	}
	if _, err := s.store.ProductByID(ctx, productID); err != nil {
		return nil, err
	}

	variant := &models.ProductVariant{
		ProductID:   productID,
		VariantName: in.VariantName,
		Price:       in.Price,
		Stock:       in.Stock,
	}
	if err := s.store.AddVariant(ctx, variant); err != nil {
		return nil, err
	}
	return variant, nil
}

// AttachMedia uploads an asset to the media store and records it against
// the product.
func (s *Service) AttachMedia(ctx context.Context, productID uuid.UUID, data []byte, filename string) (*models.ProductMedia, error) {
	if s.assets == nil {
		return nil, apperr.Wrap(apperr.ErrBadRequest, "media uploads are not configured")
	}
	if _, err := s.store.ProductByID(ctx, productID); err != nil {
		return nil, err
	}

	asset, err := s.assets.Upload(ctx, data, "products", filename)
	if err != nil {
		return nil, err
	}

	row := &models.ProductMedia{
		ProductID: productID,
		URL:       asset.URL,
		AssetID:   asset.ID,
		Format:    asset.Format,
	}
	if err := s.store.AddMedia(ctx, row); err != nil {
		// The object is orphaned if this fails; remove it again.
		_ = s.assets.Delete(ctx, asset.ID)
		return nil, err
	}
	return row, nil
}

// RemoveMedia deletes the asset from the store and the record from the
// catalog.
func (s *Service) RemoveMedia(ctx context.Context, mediaID uuid.UUID) error {
	row, err := s.store.MediaByID(ctx, mediaID)
	if err != nil {
		return err
	}
	if s.assets != nil {
		if err := s.assets.Delete(ctx, row.AssetID); err != nil {
			return err
		}
	}
	return s.store.DeleteMedia(ctx, mediaID)
}

func detailsJSON(details map[string]any) datatypes.JSON {
	if details == nil {
		return nil
	}
	raw, err := json.Marshal(details)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}
