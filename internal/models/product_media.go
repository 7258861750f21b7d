package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductMedia records an uploaded asset attached to a product. AssetID is
// the object key in the media store and is what Delete operates on.
type ProductMedia struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	URL       string    `gorm:"type:text;not null"`
	AssetID   string    `gorm:"type:text;uniqueIndex;not null"`
	Format    string    `gorm:"type:text"`
	Position  int       `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Product Product `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProductID;references:ID"`
}
