package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/andrasetiawan/rentalku-api/config"
	"github.com/andrasetiawan/rentalku-api/middleware"
	"github.com/andrasetiawan/rentalku-api/models"
	"github.com/andrasetiawan/rentalku-api/services"
)

// CreateProductRequest represents the request body for adding a product
type CreateProductRequest struct {
	OutletID    uint    `json:"outlet_id"` // ignored for staff, who are bound to their outlet
	SKU         string  `json:"sku"`
	Name        string  `json:"name" binding:"required"`
	Category    string  `json:"category"`
	RentalPrice float64 `json:"rental_price" binding:"gte=0"`
	SalePrice   float64 `json:"sale_price" binding:"gte=0"`
	Deposit     float64 `json:"deposit" binding:"gte=0"`
	Stock       int     `json:"stock" binding:"gte=0"`
}

// UpdateProductRequest represents the request body for updating a product
type UpdateProductRequest struct {
	SKU         string   `json:"sku" binding:"omitempty"`
	Name        string   `json:"name" binding:"omitempty"`
	Category    string   `json:"category" binding:"omitempty"`
	RentalPrice *float64 `json:"rental_price" binding:"omitempty,gte=0"`
	SalePrice   *float64 `json:"sale_price" binding:"omitempty,gte=0"`
	Deposit     *float64 `json:"deposit" binding:"omitempty,gte=0"`
	Active      *bool    `json:"active"`
}

// AdjustStockRequest represents the request body for a manual stock adjustment
type AdjustStockRequest struct {
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"reason"`
}

// CreateProduct handles POST /api/v1/products - adds a product to an outlet
func CreateProduct(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateProductRequest
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

	db := config.GetDB()
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
				"message": "You cannot manage products for this outlet",
			},
		})
		return
	}

	product := models.Product{
		OutletID:    outlet.ID,
		SKU:         req.SKU,
		Name:        req.Name,
		Category:    req.Category,
		RentalPrice: req.RentalPrice,
		SalePrice:   req.SalePrice,
		Deposit:     req.Deposit,
		Stock:       req.Stock,
		Active:      true,
	}
	if err := db.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create product",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    product,
	})
}

// ListProducts handles GET /api/v1/products - lists products visible to the caller
func ListProducts(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	query := middleware.ScopeProducts(db.Model(&models.Product{}), user)
	if category := c.Query("category"); category != "" {
		query = query.Where("products.category = ?", category)
	}

	var products []models.Product
	if err := query.Order("products.name").Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list products",
			},
		})
		return
	}

	hydrateImageURLs(products)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    products,
	})
}

// GetProduct handles GET /api/v1/products/:id - fetches one product
func GetProduct(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var product models.Product
	if err := middleware.ScopeProducts(db.Model(&models.Product{}), user).
		Where("products.id = ?", c.Param("id")).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRODUCT_NOT_FOUND",
				"message": "Product not found",
			},
		})
		return
	}

	if product.ImageS3Key != nil {
		if storage := services.GetStorage(); storage != nil {
			if url, err := storage.GetPresignedURL(*product.ImageS3Key); err == nil {
				product.ImageURL = &url
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

// UpdateProduct handles PATCH /api/v1/products/:id - updates a product's details
func UpdateProduct(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req UpdateProductRequest
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
	var product models.Product
	if err := middleware.ScopeProducts(db.Model(&models.Product{}), user).
		Where("products.id = ?", c.Param("id")).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRODUCT_NOT_FOUND",
				"message": "Product not found",
			},
		})
		return
	}

	if req.SKU != "" {
		product.SKU = req.SKU
	}
	if req.Name != "" {
		product.Name = req.Name
	}
	if req.Category != "" {
		product.Category = req.Category
	}
	if req.RentalPrice != nil {
		product.RentalPrice = *req.RentalPrice
	}
	if req.SalePrice != nil {
		product.SalePrice = *req.SalePrice
	}
	if req.Deposit != nil {
		product.Deposit = *req.Deposit
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	if err := db.Save(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update product",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

// AdjustStock handles POST /api/v1/products/:id/stock - applies a manual
// stock correction. Adjustments below zero stock are rejected.
func AdjustStock(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req AdjustStockRequest
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
	var product models.Product
	if err := middleware.ScopeProducts(db.Model(&models.Product{}), user).
		Where("products.id = ?", c.Param("id")).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRODUCT_NOT_FOUND",
				"message": "Product not found",
			},
		})
		return
	}

	if product.Stock+req.Delta < 0 {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INSUFFICIENT_STOCK",
				"message": "Adjustment would make stock negative",
			},
		})
		return
	}

	if err := db.Model(&models.Product{}).Where("id = ?", product.ID).
		UpdateColumn("stock", gorm.Expr("stock + ?", req.Delta)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to adjust stock",
			},
		})
		return
	}

	product.Stock += req.Delta
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

// hydrateImageURLs fills the computed ImageURL field with presigned URLs
func hydrateImageURLs(products []models.Product) {
	storage := services.GetStorage()
	if storage == nil {
		return
	}
	for i := range products {
		if products[i].ImageS3Key == nil {
			continue
		}
		if url, err := storage.GetPresignedURL(*products[i].ImageS3Key); err == nil {
			products[i].ImageURL = &url
		}
	}
}
