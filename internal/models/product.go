package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Product status values. Only active products are served by the public
// catalog read path.
const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
	ProductStatusDraft    = "draft"
)

// Product is a catalog entry. Pricing and stock live on its variants;
// the product itself carries the descriptive copy.
type Product struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string         `gorm:"type:text;not null"`
	Description string         `gorm:"type:text"`
	Ingredients string         `gorm:"type:text"`
	HowToUse    string         `gorm:"type:text"`
	Category    string         `gorm:"type:text;index"`
	ProductType string         `gorm:"type:text"`
	Status      string         `gorm:"type:text;not null;default:'draft';index"`
	Details     datatypes.JSON `gorm:"type:jsonb;default:'{}'::jsonb"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`

	Variants []ProductVariant `gorm:"constraint:OnDelete:CASCADE"`
	Media    []ProductMedia   `gorm:"constraint:OnDelete:CASCADE"`
}
