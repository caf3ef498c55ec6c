package models

import (
	"time"

	"gorm.io/gorm"
)

// Customer represents a renting/buying customer belonging to a merchant
type Customer struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	MerchantID uint           `gorm:"not null;index" json:"merchant_id"`
	Merchant   Merchant       `gorm:"foreignKey:MerchantID" json:"-"`
	Name       string         `gorm:"not null" json:"name"`
	Phone      string         `gorm:"index" json:"phone"`
	Email      string         `json:"email"`
	Address    string         `json:"address"`
	IDCardNo   string         `json:"id_card_no"` // national ID held as rental reference
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
