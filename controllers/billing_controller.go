package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v80"

	"github.com/andrasetiawan/rentalku-api/config"
	"github.com/andrasetiawan/rentalku-api/logger"
	"github.com/andrasetiawan/rentalku-api/models"
	"github.com/andrasetiawan/rentalku-api/services"
	"go.uber.org/zap"
)

// CreateSubscriptionRequest represents the request body for starting a merchant subscription
type CreateSubscriptionRequest struct {
	Plan string `json:"plan" binding:"required,oneof=basic pro"`
}

// CreateSubscription handles POST /api/v1/billing/subscription - subscribes
// the caller's merchant to a plan via Stripe
func CreateSubscription(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if user.Role == models.RoleStaff || user.MerchantID == nil {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only merchant admins can manage billing",
			},
		})
		return
	}

	var req CreateSubscriptionRequest
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

	cfg := config.GetConfig()
	priceID := cfg.StripePriceBasic
	if req.Plan == models.PlanPro {
		priceID = cfg.StripePricePro
	}

	billing := services.GetBilling()
	if billing == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "BILLING_ERROR",
				"message": "Billing is not configured",
			},
		})
		return
	}

	db := config.GetDB()
	var merchant models.Merchant
	if err := db.First(&merchant, *user.MerchantID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MERCHANT_NOT_FOUND",
				"message": "Merchant not found",
			},
		})
		return
	}

	var sub models.Subscription
	err := db.Where("merchant_id = ?", merchant.ID).First(&sub).Error
	if err == nil && sub.Status == "active" {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CONFLICT",
				"message": "Merchant already has an active subscription",
			},
		})
		return
	}

	customerID := sub.StripeCustomerID
	if customerID == "" {
		customerID, err = billing.CreateCustomer(merchant.Name, merchant.Email)
		if err != nil {
			logger.Log.Error("stripe customer creation failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "BILLING_ERROR",
					"message": "Failed to create billing customer",
				},
			})
			return
		}
	}

	stripeSub, err := billing.CreateSubscription(customerID, priceID)
	if err != nil {
		logger.Log.Error("stripe subscription creation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "BILLING_ERROR",
				"message": "Failed to create subscription",
			},
		})
		return
	}

	periodEnd := time.Unix(stripeSub.CurrentPeriodEnd, 0)
	sub.MerchantID = merchant.ID
	sub.Plan = req.Plan
	sub.Status = string(stripeSub.Status)
	sub.StripeCustomerID = customerID
	sub.StripeSubscriptionID = stripeSub.ID
	sub.CurrentPeriodEnd = &periodEnd

	if err := db.Save(&sub).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save subscription",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    sub,
	})
}

// GetSubscription handles GET /api/v1/billing/subscription - returns the
// caller's merchant subscription
func GetSubscription(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if user.MerchantID == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SUBSCRIPTION_NOT_FOUND",
				"message": "No subscription for this user",
			},
		})
		return
	}

	db := config.GetDB()
	var sub models.Subscription
	if err := db.Where("merchant_id = ?", *user.MerchantID).First(&sub).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SUBSCRIPTION_NOT_FOUND",
				"message": "No subscription for this merchant",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    sub,
	})
}

// StripeWebhook handles POST /api/v1/billing/webhook - keeps local
// subscription state in sync with Stripe events. Unauthenticated; the
// webhook signature is the authentication.
func StripeWebhook(c *gin.Context) {
	billing := services.GetBilling()
	if billing == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "BILLING_ERROR",
				"message": "Billing is not configured",
			},
		})
		return
	}

	event, err := billing.ParseWebhook(c.Request)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_SIGNATURE",
				"message": "Webhook signature verification failed",
			},
		})
		return
	}

	db := config.GetDB()

	switch event.Type {
	case "invoice.paid":
		var invoice stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err == nil && invoice.Subscription != nil {
			db.Model(&models.Subscription{}).
				Where("stripe_subscription_id = ?", invoice.Subscription.ID).
				Update("status", "active")
		}
	case "customer.subscription.updated":
		var stripeSub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &stripeSub); err == nil {
			periodEnd := time.Unix(stripeSub.CurrentPeriodEnd, 0)
			db.Model(&models.Subscription{}).
				Where("stripe_subscription_id = ?", stripeSub.ID).
				Updates(map[string]interface{}{
					"status":             string(stripeSub.Status),
					"current_period_end": periodEnd,
				})
		}
	case "customer.subscription.deleted":
		var stripeSub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &stripeSub); err == nil {
			db.Model(&models.Subscription{}).
				Where("stripe_subscription_id = ?", stripeSub.ID).
				Update("status", "canceled")
		}
	default:
		logger.Log.Debug("unhandled stripe event", zap.String("type", string(event.Type)))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"received": true,
		},
	})
}
