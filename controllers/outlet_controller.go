package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andrasetiawan/rentalku-api/config"
	"github.com/andrasetiawan/rentalku-api/middleware"
	"github.com/andrasetiawan/rentalku-api/models"
)

// CreateOutletRequest represents the request body for opening an outlet
type CreateOutletRequest struct {
	MerchantID uint   `json:"merchant_id"` // required for superadmins, ignored for admins
	Name       string `json:"name" binding:"required"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
}

// UpdateOutletRequest represents the request body for updating an outlet
type UpdateOutletRequest struct {
	Name    string `json:"name" binding:"omitempty"`
	Address string `json:"address" binding:"omitempty"`
	Phone   string `json:"phone" binding:"omitempty"`
	Active  *bool  `json:"active"`
}

// CreateOutlet handles POST /api/v1/outlets - opens a new outlet for a merchant
func CreateOutlet(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if user.Role == models.RoleStaff {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only admins can create outlets",
			},
		})
		return
	}

	var req CreateOutletRequest
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

	merchantID := req.MerchantID
	if user.Role == models.RoleAdmin {
		merchantID = derefOrZero(user.MerchantID)
	}
	if merchantID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "merchant_id is required",
			},
		})
		return
	}

	db := config.GetDB()
	var merchant models.Merchant
	if err := db.First(&merchant, merchantID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MERCHANT_NOT_FOUND",
				"message": "Merchant not found",
			},
		})
		return
	}

	outlet := models.Outlet{
		MerchantID: merchant.ID,
		Name:       req.Name,
		Address:    req.Address,
		Phone:      req.Phone,
		Active:     true,
	}
	if err := db.Create(&outlet).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create outlet",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    outlet,
	})
}

// ListOutlets handles GET /api/v1/outlets - lists outlets visible to the caller
func ListOutlets(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var outlets []models.Outlet
	if err := middleware.ScopeOutlets(db.Model(&models.Outlet{}), user).Find(&outlets).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list outlets",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    outlets,
	})
}

// GetOutlet handles GET /api/v1/outlets/:id - fetches one outlet
func GetOutlet(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var outlet models.Outlet
	if err := middleware.ScopeOutlets(db.Model(&models.Outlet{}), user).
		Where("outlets.id = ?", c.Param("id")).First(&outlet).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "OUTLET_NOT_FOUND",
				"message": "Outlet not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    outlet,
	})
}

// UpdateOutlet handles PATCH /api/v1/outlets/:id - updates an outlet's details
func UpdateOutlet(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if user.Role == models.RoleStaff {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only admins can update outlets",
			},
		})
		return
	}

	var req UpdateOutletRequest
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
	var outlet models.Outlet
	if err := middleware.ScopeOutlets(db.Model(&models.Outlet{}), user).
		Where("outlets.id = ?", c.Param("id")).First(&outlet).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "OUTLET_NOT_FOUND",
				"message": "Outlet not found",
			},
		})
		return
	}

	if req.Name != "" {
		outlet.Name = req.Name
	}
	if req.Address != "" {
		outlet.Address = req.Address
	}
	if req.Phone != "" {
		outlet.Phone = req.Phone
	}
	if req.Active != nil {
		outlet.Active = *req.Active
	}

	if err := db.Save(&outlet).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update outlet",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    outlet,
	})
}
