package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment represents money received against an order
type Payment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	OrderID   uint           `gorm:"not null;index" json:"order_id"`
	Order     Order          `gorm:"foreignKey:OrderID" json:"-"`
	Amount    float64        `gorm:"not null" json:"amount"`
	Method    string         `gorm:"not null;default:'cash'" json:"method"` // cash, transfer, qris
	Reference string         `json:"reference"`
	PaidAt    time.Time      `json:"paid_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}
