package models

import (
	"time"

	"gorm.io/gorm"
)

// Product represents a rentable or sellable item held in an outlet's stock
type Product struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	OutletID    uint           `gorm:"not null;index" json:"outlet_id"`
	Outlet      Outlet         `gorm:"foreignKey:OutletID" json:"-"`
	SKU         string         `gorm:"index" json:"sku"`
	Name        string         `gorm:"not null" json:"name"`
	Category    string         `json:"category"`
	RentalPrice float64        `gorm:"not null;default:0" json:"rental_price"` // price per rental period
	SalePrice   float64        `gorm:"not null;default:0" json:"sale_price"`
	Deposit     float64        `gorm:"not null;default:0" json:"deposit"` // upfront deposit per unit
	Stock       int            `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	ImageS3Key  *string        `json:"image_s3_key"`                 // nullable, S3 key for uploaded image
	ImageURL    *string        `gorm:"-" json:"image_url,omitempty"` // computed field, presigned URL for image
	Active      bool           `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}
