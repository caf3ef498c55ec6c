package models

import (
	"time"

	"gorm.io/gorm"
)

// Order types
const (
	OrderTypeRent = "RENT"
	OrderTypeSale = "SALE"
)

// Order represents a rental or sale transaction with lifecycle status.
// Orders are never hard-deleted; financial records are retained via soft delete.
type Order struct {
	ID              uint     `gorm:"primaryKey" json:"id"`
	OrderNumber     string   `gorm:"uniqueIndex;not null" json:"order_number"`
	OrderType       string   `gorm:"not null" json:"order_type"` // RENT or SALE
	Status          Status   `gorm:"not null;default:'RESERVED'" json:"status"`
	TotalAmount     float64  `gorm:"not null;default:0" json:"total_amount"`
	DepositAmount   float64  `gorm:"not null;default:0" json:"deposit_amount"`
	SecurityDeposit float64  `gorm:"not null;default:0" json:"security_deposit"`
	DamageFee       float64  `gorm:"not null;default:0" json:"damage_fee"`
	LateFee         float64  `gorm:"not null;default:0" json:"late_fee"`
	Notes           string   `json:"notes"`
	PickupNotes     string   `json:"pickup_notes"`
	ReturnNotes     string   `json:"return_notes"`
	ReturnAmount    *float64 `json:"return_amount"` // nullable, cash returned to customer at settlement

	// Collateral held during the rental (ID card, vehicle papers, cash, ...)
	CollateralType     string `json:"collateral_type"`
	CollateralDetails  string `json:"collateral_details"`
	CollateralReturned bool   `gorm:"not null;default:false" json:"collateral_returned"`

	PickupPlanAt *time.Time `json:"pickup_plan_at"`
	ReturnPlanAt *time.Time `json:"return_plan_at"`
	PickedUpAt   *time.Time `json:"picked_up_at"`
	ReturnedAt   *time.Time `json:"returned_at"`

	CustomerID  uint        `gorm:"not null;index" json:"customer_id"`
	Customer    Customer    `gorm:"foreignKey:CustomerID" json:"customer"`
	OutletID    uint        `gorm:"not null;index" json:"outlet_id"`
	Outlet      Outlet      `gorm:"foreignKey:OutletID" json:"outlet"`
	CreatedByID uint        `gorm:"not null;index" json:"created_by_id"`
	CreatedBy   User        `gorm:"foreignKey:CreatedByID" json:"created_by"`
	Items       []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	Payments    []Payment   `gorm:"foreignKey:OrderID" json:"payments,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}
