package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles. Superadmins see every merchant, admins are scoped to their
// merchant, staff are scoped to a single outlet.
const (
	RoleSuperadmin = "superadmin"
	RoleAdmin      = "admin"
	RoleStaff      = "staff"
)

// User represents a dashboard user (superadmin, merchant admin or outlet staff)
type User struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Auth0ID    string         `gorm:"uniqueIndex;not null" json:"auth0_id"` // Auth0 user ID (from 'sub' claim)
	Name       string         `gorm:"not null" json:"name"`
	Email      string         `gorm:"uniqueIndex;not null" json:"email"`
	Role       string         `gorm:"not null;default:'staff'" json:"role"` // superadmin, admin, staff
	MerchantID *uint          `gorm:"index" json:"merchant_id"`             // nil for superadmins
	Merchant   *Merchant      `gorm:"foreignKey:MerchantID" json:"merchant,omitempty"`
	OutletID   *uint          `gorm:"index" json:"outlet_id"` // set for staff, nil otherwise
	Outlet     *Outlet        `gorm:"foreignKey:OutletID" json:"outlet,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}
