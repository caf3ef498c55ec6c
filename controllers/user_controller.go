package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andrasetiawan/rentalku-api/config"
	"github.com/andrasetiawan/rentalku-api/middleware"
	"github.com/andrasetiawan/rentalku-api/models"
	"github.com/andrasetiawan/rentalku-api/services"
)

// UpdateUserRequest represents the request body for updating a user
type UpdateUserRequest struct {
	Name       string `json:"name" binding:"omitempty"`
	Role       string `json:"role" binding:"omitempty,oneof=superadmin admin staff"`
	MerchantID *uint  `json:"merchant_id"`
	OutletID   *uint  `json:"outlet_id"`
}

// CreateUser handles POST /api/v1/users - creates a user profile from Auth0 userinfo.
// The very first profile in the system becomes a superadmin; everyone else
// starts as unassigned staff until an admin places them.
func CreateUser(c *gin.Context) {
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user ID from token",
			},
		})
		return
	}

	accessToken, err := middleware.GetAccessToken(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_TOKEN",
				"message": "Access token not found",
			},
		})
		return
	}

	db := config.GetDB()

	// Idempotent: an existing profile is returned as-is
	var existing models.User
	if err := db.Where("auth0_id = ?", auth0ID).First(&existing).Error; err == nil {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    existing,
		})
		return
	}

	cfg := config.GetConfig()
	auth0Service := services.NewAuth0Service(cfg)
	userInfo, err := auth0Service.GetUserInfo(accessToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "AUTH0_ERROR",
				"message": "Failed to fetch user information from Auth0",
			},
		})
		return
	}

	var total int64
	db.Model(&models.User{}).Count(&total)

	role := models.RoleStaff
	if total == 0 {
		role = models.RoleSuperadmin
	}

	user := models.User{
		Auth0ID: auth0ID,
		Name:    userInfo.Name,
		Email:   userInfo.Email,
		Role:    role,
	}
	if err := db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create user",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    user,
	})
}

// GetCurrentUser handles GET /api/v1/users/me - returns the caller's profile
func GetCurrentUser(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	if err := db.Preload("Merchant").Preload("Outlet").First(&user, user.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load user details",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// ListUsers handles GET /api/v1/users - lists users in the caller's scope (admins only)
func ListUsers(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if user.Role == models.RoleStaff {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only admins can list users",
			},
		})
		return
	}

	db := config.GetDB()
	var users []models.User
	if err := middleware.ScopeUsers(db.Model(&models.User{}), user).Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list users",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    users,
	})
}

// UpdateUser handles PATCH /api/v1/users/:id - updates a user's name, role or
// merchant/outlet assignment (admins only)
func UpdateUser(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if user.Role == models.RoleStaff {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only admins can update users",
			},
		})
		return
	}

	var req UpdateUserRequest
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

	// Only superadmins may mint other superadmins
	if req.Role == models.RoleSuperadmin && user.Role != models.RoleSuperadmin {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only superadmins can grant the superadmin role",
			},
		})
		return
	}

	db := config.GetDB()
	var target models.User
	if err := middleware.ScopeUsers(db.Model(&models.User{}), user).
		Where("users.id = ?", c.Param("id")).First(&target).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "USER_NOT_FOUND",
				"message": "User not found",
			},
		})
		return
	}

	if req.Name != "" {
		target.Name = req.Name
	}
	if req.Role != "" {
		target.Role = req.Role
	}
	if req.MerchantID != nil {
		target.MerchantID = req.MerchantID
	}
	if req.OutletID != nil {
		target.OutletID = req.OutletID
	}

	if err := db.Save(&target).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update user",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    target,
	})
}

// DeleteUser handles DELETE /api/v1/users/:id - removes a user. Deleting the
// last admin of a merchant (or the last superadmin) is rejected with 409 so a
// tenant can never lock itself out.
func DeleteUser(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if user.Role == models.RoleStaff {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only admins can delete users",
			},
		})
		return
	}

	db := config.GetDB()
	var target models.User
	if err := middleware.ScopeUsers(db.Model(&models.User{}), user).
		Where("users.id = ?", c.Param("id")).First(&target).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "USER_NOT_FOUND",
				"message": "User not found",
			},
		})
		return
	}

	if target.Role == models.RoleSuperadmin {
		var count int64
		db.Model(&models.User{}).Where("role = ?", models.RoleSuperadmin).Count(&count)
		if count <= 1 {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "CONFLICT",
					"message": "Cannot delete the last superadmin",
				},
			})
			return
		}
	}
	if target.Role == models.RoleAdmin && target.MerchantID != nil {
		var count int64
		db.Model(&models.User{}).
			Where("role = ? AND merchant_id = ?", models.RoleAdmin, *target.MerchantID).
			Count(&count)
		if count <= 1 {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "CONFLICT",
					"message": "Cannot delete the last admin of a merchant",
				},
			})
			return
		}
	}

	if err := db.Delete(&target).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete user",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"deleted": true,
		},
	})
}
