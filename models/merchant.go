package models

import (
	"time"

	"gorm.io/gorm"
)

// Merchant represents a tenant in the system; it owns one or more outlets
type Merchant struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Phone     string         `json:"phone"`
	Address   string         `json:"address"`
	Active    bool           `gorm:"not null;default:true" json:"active"`
	Outlets   []Outlet       `gorm:"foreignKey:MerchantID" json:"outlets,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Merchant model
func (Merchant) TableName() string {
	return "merchants"
}
