package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"shopd/internal/apperr"
	"shopd/internal/models"
)

// GormStore implements Store on top of the shared GORM handle.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps the database handle.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) ListProducts(ctx context.Context, category string, activeOnly bool) ([]models.Product, error) {
	q := s.db.WithContext(ctx).Preload("Variants").Preload("Media")
	if activeOnly {
		q = q.Where("status = ?", models.ProductStatusActive)
	}
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var products []models.Product
	if err := q.Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (s *GormStore) ProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).Preload("Variants").Preload("Media").First(&product, "id = ?", id).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperr.Wrap(apperr.ErrNotFound, "product %s", id)
	case err != nil:
		return nil, err
	}
	return &product, nil
}

func (s *GormStore) CreateProduct(ctx context.Context, product *models.Product) error {
	return s.db.WithContext(ctx).Create(product).Error
}

func (s *GormStore) SaveProduct(ctx context.Context, product *models.Product) error {
	return s.db.WithContext(ctx).Save(product).Error
}

func (s *GormStore) AddVariant(ctx context.Context, variant *models.ProductVariant) error {
	return s.db.WithContext(ctx).Create(variant).Error
}

func (s *GormStore) AddMedia(ctx context.Context, media *models.ProductMedia) error {
	return s.db.WithContext(ctx).Create(media).Error
}

func (s *GormStore) MediaByID(ctx context.Context, id uuid.UUID) (*models.ProductMedia, error) {
	var media models.ProductMedia
	err := s.db.WithContext(ctx).First(&media, "id = ?", id).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperr.Wrap(apperr.ErrNotFound, "media %s", id)
	case err != nil:
		return nil, err
	}
	return &media, nil
}

func (s *GormStore) DeleteMedia(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Delete(&models.ProductMedia{}, "id = ?", id).Error
}
