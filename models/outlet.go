package models

import (
	"time"

	"gorm.io/gorm"
)

// Outlet represents a storefront location belonging to a merchant.
// Orders, products and stock are scoped to an outlet.
type Outlet struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	MerchantID uint           `gorm:"not null;index" json:"merchant_id"`
	Merchant   Merchant       `gorm:"foreignKey:MerchantID" json:"-"`
	Name       string         `gorm:"not null" json:"name"`
	Address    string         `json:"address"`
	Phone      string         `json:"phone"`
	Active     bool           `gorm:"not null;default:true" json:"active"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Outlet model
func (Outlet) TableName() string {
	return "outlets"
}
