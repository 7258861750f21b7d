package orders

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

func (s *GormStore) VariantByID(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	err := s.db.WithContext(ctx).First(&variant, "id = ?", id).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperr.Wrap(apperr.ErrNotFound, "variant %s", id)
	case err != nil:
		return nil, err
	}
	return &variant, nil
}

func (s *GormStore) CreateOrderWithItems(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		return tx.Create(&items).Error
	})
}

func (s *GormStore) OrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperr.Wrap(apperr.ErrNotFound, "order %s", id)
	case err != nil:
		return nil, err
	}
	return &order, nil
}

func (s *GormStore) OrdersByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *GormStore) ProductNamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	var rows []models.Product
	if err := s.db.WithContext(ctx).Select("id", "name").Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(rows))
	for _, p := range rows {
		names[p.ID] = p.Name
	}
	return names, nil
}

func (s *GormStore) UserEmailByID(ctx context.Context, id uuid.UUID) (string, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Select("id", "email").First(&user, "id = ?", id).Error; err != nil {
		return "", err
	}
	return user.Email, nil
}
