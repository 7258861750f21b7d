package db

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shopd/internal/models"
)

// Seed inserts a small baseline catalog so a fresh deployment has something
// to browse. Existing rows are left untouched.
func Seed(ctx context.Context, database *gorm.DB) error {
	products := []models.Product{
		{
			Name:        "Kannauj Rose Attar",
			Description: "Traditional steam-distilled rose attar.",
			Category:    "attar",
			ProductType: "fragrance",
			Status:      models.ProductStatusActive,
			Variants: []models.ProductVariant{
				{VariantName: "6ml", Price: decimal.RequireFromString("499.00"), Stock: 50},
				{VariantName: "12ml", Price: decimal.RequireFromString("899.00"), Stock: 30},
			},
		},
		{
			Name:        "Oud Mitti",
			Description: "Earthy baked-clay fragrance layered with oud.",
			Category:    "attar",
			ProductType: "fragrance",
			Status:      models.ProductStatusActive,
			Variants: []models.ProductVariant{
				{VariantName: "6ml", Price: decimal.RequireFromString("799.00"), Stock: 20},
			},
		},
	}

	for i := range products {
		if err := database.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Where(models.Product{Name: products[i].Name}).
			FirstOrCreate(&products[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
