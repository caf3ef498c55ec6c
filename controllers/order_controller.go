package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/andrasetiawan/rentalku-api/config"
	"github.com/andrasetiawan/rentalku-api/middleware"
	"github.com/andrasetiawan/rentalku-api/models"
	"github.com/andrasetiawan/rentalku-api/services"
	"github.com/andrasetiawan/rentalku-api/utils"
)

// OrderItemRequest represents a single line on a checkout request
type OrderItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gt=0"`
}

// CreateOrderRequest represents the request body for creating an order
type CreateOrderRequest struct {
	OrderType         string             `json:"order_type" binding:"required,oneof=RENT SALE"`
	CustomerID        uint               `json:"customer_id" binding:"required"`
	OutletID          uint               `json:"outlet_id"` // ignored for staff, who are bound to their outlet
	PickupPlanAt      *time.Time         `json:"pickup_plan_at"`
	ReturnPlanAt      *time.Time         `json:"return_plan_at"`
	Notes             string             `json:"notes"`
	DepositAmount     float64            `json:"deposit_amount" binding:"gte=0"`
	SecurityDeposit   float64            `json:"security_deposit" binding:"gte=0"`
	CollateralType    string             `json:"collateral_type"`
	CollateralDetails string             `json:"collateral_details"`
	PaymentMethod     string             `json:"payment_method"`
	Items             []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateOrder handles POST /api/v1/orders - checks out a new rental or sale order
func CreateOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
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

	// Staff always operate on their own outlet
	outletID := req.OutletID
	if user.Role == models.RoleStaff && user.OutletID != nil {
		outletID = *user.OutletID
	}
	if outletID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "outlet_id is required",
			},
		})
		return
	}

	var outlet models.Outlet
	if err := db.First(&outlet, outletID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "OUTLET_NOT_FOUND",
				"message": "Outlet not found",
			},
		})
		return
	}
	if !middleware.CanAccessOutlet(user, outlet) {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "You cannot create orders for this outlet",
			},
		})
		return
	}

	var customer models.Customer
	if err := db.Where("id = ? AND merchant_id = ?", req.CustomerID, outlet.MerchantID).First(&customer).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CUSTOMER_NOT_FOUND",
				"message": "Customer not found for this merchant",
			},
		})
		return
	}

	now := services.GetClock().Now()
	order := models.Order{
		OrderNumber:       services.NewOrderNumber(req.OrderType, now),
		OrderType:         req.OrderType,
		Status:            models.StatusReserved,
		Notes:             req.Notes,
		SecurityDeposit:   req.SecurityDeposit,
		CollateralType:    req.CollateralType,
		CollateralDetails: req.CollateralDetails,
		PickupPlanAt:      req.PickupPlanAt,
		ReturnPlanAt:      req.ReturnPlanAt,
		CustomerID:        customer.ID,
		OutletID:          outlet.ID,
		CreatedByID:       user.ID,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var total, itemDeposits float64

		for _, line := range req.Items {
			var product models.Product
			if err := tx.Where("id = ? AND outlet_id = ?", line.ProductID, outlet.ID).First(&product).Error; err != nil {
				return &orderCheckoutError{http.StatusNotFound, "PRODUCT_NOT_FOUND",
					fmt.Sprintf("Product %d not found in outlet", line.ProductID)}
			}
			if product.Stock < line.Quantity {
				return &orderCheckoutError{http.StatusConflict, "INSUFFICIENT_STOCK",
					fmt.Sprintf("Not enough stock for %s", product.Name)}
			}

			unitPrice := product.RentalPrice
			if req.OrderType == models.OrderTypeSale {
				unitPrice = product.SalePrice
			}
			lineTotal := utils.RoundCurrency(unitPrice * float64(line.Quantity))
			lineDeposit := utils.RoundCurrency(product.Deposit * float64(line.Quantity))
			total += lineTotal
			itemDeposits += lineDeposit

			if err := tx.Model(&models.Product{}).Where("id = ?", product.ID).
				UpdateColumn("stock", gorm.Expr("stock - ?", line.Quantity)).Error; err != nil {
				return err
			}

			order.Items = append(order.Items, models.OrderItem{
				ProductID:  product.ID,
				Quantity:   line.Quantity,
				UnitPrice:  unitPrice,
				TotalPrice: lineTotal,
				Deposit:    lineDeposit,
			})
		}

		order.TotalAmount = utils.RoundCurrency(total)
		order.DepositAmount = req.DepositAmount
		if order.DepositAmount == 0 && req.OrderType == models.OrderTypeRent {
			order.DepositAmount = utils.RoundCurrency(itemDeposits)
		}

		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		if order.DepositAmount > 0 {
			method := req.PaymentMethod
			if method == "" {
				method = "cash"
			}
			payment := models.Payment{
				OrderID: order.ID,
				Amount:  order.DepositAmount,
				Method:  method,
				PaidAt:  now,
			}
			if err := tx.Create(&payment).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		if ce, ok := err.(*orderCheckoutError); ok {
			c.JSON(ce.status, gin.H{
				"success": false,
				"error": gin.H{
					"code":    ce.code,
					"message": ce.message,
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create order",
			},
		})
		return
	}

	// Load relationships to return complete data
	if err := db.Preload("Customer").Preload("Outlet").Preload("Items.Product").Preload("Payments").First(&order, order.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load order details",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// ListOrders handles GET /api/v1/orders - lists orders visible to the caller
func ListOrders(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	query := middleware.ScopeOrders(db.Model(&models.Order{}), user)

	if status := c.Query("status"); status != "" {
		if !models.IsValidStatus(models.Status(status)) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Unknown order status filter",
				},
			})
			return
		}
		query = query.Where("orders.status = ?", status)
	}
	if orderType := c.Query("order_type"); orderType != "" {
		query = query.Where("orders.order_type = ?", orderType)
	}
	if start, err := parseDateParam(c.Query("start_date")); err == nil && start != nil {
		query = query.Where("orders.created_at >= ?", *start)
	}
	if end, err := parseDateParam(c.Query("end_date")); err == nil && end != nil {
		query = query.Where("orders.created_at <= ?", *end)
	}

	var orders []models.Order
	if err := query.Preload("Customer").Preload("Outlet").Preload("Items").
		Order("orders.created_at DESC").Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// GetOrder handles GET /api/v1/orders/:id - fetches a single order
func GetOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var order models.Order
	err := middleware.ScopeOrders(db.Model(&models.Order{}), user).
		Preload("Customer").Preload("Outlet").Preload("Items.Product").Preload("Payments").
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

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// orderCheckoutError carries an HTTP status and error code out of the
// checkout transaction
type orderCheckoutError struct {
	status  int
	code    string
	message string
}

func (e *orderCheckoutError) Error() string {
	return e.message
}

// parseDateParam accepts YYYY-MM-DD or RFC3339 values from query strings
func parseDateParam(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
