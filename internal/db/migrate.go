package db

import (
	"context"

	"gorm.io/gorm"

	"shopd/internal/models"
)

// Migrate performs schema migrations for the persistent models.
func Migrate(ctx context.Context, database *gorm.DB) error {
	return database.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.UserToken{},
		&models.Address{},
		&models.Product{},
		&models.ProductVariant{},
		&models.ProductMedia{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.AuditLog{},
	)
}
