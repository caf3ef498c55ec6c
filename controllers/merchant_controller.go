package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andrasetiawan/rentalku-api/config"
	"github.com/andrasetiawan/rentalku-api/models"
)

// CreateMerchantRequest represents the request body for onboarding a merchant
type CreateMerchantRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// UpdateMerchantRequest represents the request body for updating a merchant
type UpdateMerchantRequest struct {
	Name    string `json:"name" binding:"omitempty"`
	Phone   string `json:"phone" binding:"omitempty"`
	Address string `json:"address" binding:"omitempty"`
	Active  *bool  `json:"active"`
}

// CreateMerchant handles POST /api/v1/merchants - onboards a new tenant (superadmins only)
func CreateMerchant(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if user.Role != models.RoleSuperadmin {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only superadmins can create merchants",
			},
		})
		return
	}

	var req CreateMerchantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	merchant := models.Merchant{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Active:  true,
	}
	if err := db.Create(&merchant).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create merchant",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    merchant,
	})
}

// ListMerchants handles GET /api/v1/merchants - lists all tenants (superadmins only)
func ListMerchants(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if user.Role != models.RoleSuperadmin {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only superadmins can list merchants",
			},
		})
		return
	}

	db := config.GetDB()
	var merchants []models.Merchant
	if err := db.Find(&merchants).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list merchants",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    merchants,
	})
}

// GetMerchant handles GET /api/v1/merchants/:id - fetches one merchant
func GetMerchant(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var merchant models.Merchant
	query := db.Preload("Outlets")
	if user.Role != models.RoleSuperadmin {
		query = query.Where("id = ?", derefOrZero(user.MerchantID))
	}
	if err := query.Where("id = ?", c.Param("id")).First(&merchant).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MERCHANT_NOT_FOUND",
				"message": "Merchant not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    merchant,
	})
}

// UpdateMerchant handles PATCH /api/v1/merchants/:id - updates a merchant's details
func UpdateMerchant(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if user.Role == models.RoleStaff {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only admins can update merchants",
			},
		})
		return
	}

	var req UpdateMerchantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	var merchant models.Merchant
	query := db.Model(&models.Merchant{})
	if user.Role != models.RoleSuperadmin {
		query = query.Where("id = ?", derefOrZero(user.MerchantID))
	}
	if err := query.Where("id = ?", c.Param("id")).First(&merchant).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MERCHANT_NOT_FOUND",
				"message": "Merchant not found",
			},
		})
		return
	}

	if req.Name != "" {
		merchant.Name = req.Name
	}
	if req.Phone != "" {
		merchant.Phone = req.Phone
	}
	if req.Address != "" {
		merchant.Address = req.Address
	}
	if req.Active != nil {
		merchant.Active = *req.Active
	}

	if err := db.Save(&merchant).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update merchant",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    merchant,
	})
}

func derefOrZero(v *uint) uint {
	if v == nil {
		return 0
	}
	return *v
}
