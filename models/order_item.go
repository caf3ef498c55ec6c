package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderItem represents a single product line on an order
type OrderItem struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	OrderID    uint           `gorm:"not null;index" json:"order_id"`
	Order      Order          `gorm:"foreignKey:OrderID" json:"-"` // don't include full order in JSON
	ProductID  uint           `gorm:"not null;index" json:"product_id"`
	Product    Product        `gorm:"foreignKey:ProductID" json:"product"`
	Quantity   int            `gorm:"not null;check:quantity > 0" json:"quantity"`
	UnitPrice  float64        `gorm:"not null" json:"unit_price"`
	TotalPrice float64        `gorm:"not null" json:"total_price"`
	Deposit    float64        `gorm:"not null;default:0" json:"deposit"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}
