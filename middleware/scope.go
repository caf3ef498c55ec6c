package middleware

import (
	"gorm.io/gorm"

	"github.com/andrasetiawan/rentalku-api/models"
)

// Scoping policy for multi-tenant reads. Every read endpoint goes through
// one of these instead of repeating the role conditional inline:
// superadmins see everything, admins see their merchant, staff see their
// outlet.

// ScopeOrders narrows an orders query to what the user is allowed to see
func ScopeOrders(db *gorm.DB, user models.User) *gorm.DB {
	switch user.Role {
	case models.RoleSuperadmin:
		return db
	case models.RoleAdmin:
		return db.Where("orders.outlet_id IN (?)",
			db.Session(&gorm.Session{NewDB: true}).Model(&models.Outlet{}).Select("id").Where("merchant_id = ?", derefUint(user.MerchantID)))
	default:
		return db.Where("orders.outlet_id = ?", derefUint(user.OutletID))
	}
}

// ScopeProducts narrows a products query to the user's outlets
func ScopeProducts(db *gorm.DB, user models.User) *gorm.DB {
	switch user.Role {
	case models.RoleSuperadmin:
		return db
	case models.RoleAdmin:
		return db.Where("products.outlet_id IN (?)",
			db.Session(&gorm.Session{NewDB: true}).Model(&models.Outlet{}).Select("id").Where("merchant_id = ?", derefUint(user.MerchantID)))
	default:
		return db.Where("products.outlet_id = ?", derefUint(user.OutletID))
	}
}

// ScopeOutlets narrows an outlets query to the user's merchant
func ScopeOutlets(db *gorm.DB, user models.User) *gorm.DB {
	switch user.Role {
	case models.RoleSuperadmin:
		return db
	case models.RoleAdmin:
		return db.Where("outlets.merchant_id = ?", derefUint(user.MerchantID))
	default:
		return db.Where("outlets.id = ?", derefUint(user.OutletID))
	}
}

// ScopeCustomers narrows a customers query to the user's merchant
func ScopeCustomers(db *gorm.DB, user models.User) *gorm.DB {
	if user.Role == models.RoleSuperadmin {
		return db
	}
	return db.Where("customers.merchant_id = ?", derefUint(user.MerchantID))
}

// ScopeUsers narrows a users query to the user's merchant
func ScopeUsers(db *gorm.DB, user models.User) *gorm.DB {
	if user.Role == models.RoleSuperadmin {
		return db
	}
	return db.Where("users.merchant_id = ?", derefUint(user.MerchantID))
}

// CanAccessOutlet reports whether the user may write to the given outlet
func CanAccessOutlet(user models.User, outlet models.Outlet) bool {
	switch user.Role {
	case models.RoleSuperadmin:
		return true
	case models.RoleAdmin:
		return user.MerchantID != nil && *user.MerchantID == outlet.MerchantID
	default:
		return user.OutletID != nil && *user.OutletID == outlet.ID
	}
}

func derefUint(v *uint) uint {
	if v == nil {
		return 0
	}
	return *v
}
