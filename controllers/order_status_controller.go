package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/andrasetiawan/rentalku-api/config"
	"github.com/andrasetiawan/rentalku-api/middleware"
	"github.com/andrasetiawan/rentalku-api/models"
	"github.com/andrasetiawan/rentalku-api/services"
)

// UpdateOrderStatusRequest represents the request body for an order status change
type UpdateOrderStatusRequest struct {
	Status             string     `json:"status" binding:"required"`
	Notes              string     `json:"notes"`
	PickupNotes        string     `json:"pickup_notes"`
	ReturnNotes        string     `json:"return_notes"`
	PickedUpAt         *time.Time `json:"picked_up_at"`
	ReturnedAt         *time.Time `json:"returned_at"`
	DamageFee          *float64   `json:"damage_fee" binding:"omitempty,gte=0"`
	LateFee            *float64   `json:"late_fee" binding:"omitempty,gte=0"`
	ReturnAmount       *float64   `json:"return_amount"`
	CollateralReturned *bool      `json:"collateral_returned"`
	CollateralType     string     `json:"collateral_type"`
	CollateralDetails  string     `json:"collateral_details"`
}

// UpdateOrderStatus handles PATCH /api/v1/orders/:id/status - moves an order
// through its lifecycle. Transitions are validated against the status table;
// pickup and return timestamps are stamped once and never overwritten, so
// retried requests leave the order unchanged.
func UpdateOrderStatus(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
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

	requested := models.Status(req.Status)
	if !models.IsValidStatus(requested) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Unknown order status",
				"details": req.Status,
			},
		})
		return
	}

	db := config.GetDB()
	var order models.Order
	err := middleware.ScopeOrders(db.Model(&models.Order{}), user).
		Preload("Items").
		Where("orders.id = ?", c.Param("id")).First(&order).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	previous := order.Status
	change := services.StatusChange{
		Status:             requested,
		Notes:              req.Notes,
		PickupNotes:        req.PickupNotes,
		ReturnNotes:        req.ReturnNotes,
		PickedUpAt:         req.PickedUpAt,
		ReturnedAt:         req.ReturnedAt,
		DamageFee:          req.DamageFee,
		LateFee:            req.LateFee,
		ReturnAmount:       req.ReturnAmount,
		CollateralReturned: req.CollateralReturned,
		CollateralType:     req.CollateralType,
		CollateralDetails:  req.CollateralDetails,
	}

	if err := services.ApplyStatusChange(&order, change); err != nil {
		if _, invalid := err.(*models.ErrInvalidTransition); invalid {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_TRANSITION",
					"message": err.Error(),
				},
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": err.Error(),
			},
		})
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&order).Error; err != nil {
			return err
		}

		// Cancelled orders and returned rentals give their units back to stock
		if previous != order.Status && services.ReleasesStock(order.OrderType, order.Status) {
			for _, item := range order.Items {
				if err := tx.Model(&models.Product{}).Where("id = ?", item.ProductID).
					UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity)).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update order status",
			},
		})
		return
	}

	if err := db.Preload("Customer").Preload("Outlet").Preload("Items.Product").First(&order, order.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load order details",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}
