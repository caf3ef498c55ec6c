package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/andrasetiawan/rentalku-api/config"
	"github.com/andrasetiawan/rentalku-api/middleware"
	"github.com/andrasetiawan/rentalku-api/models"
	"github.com/andrasetiawan/rentalku-api/services"
	"github.com/andrasetiawan/rentalku-api/utils"
)

// dashboardCacheTTL bounds how stale the dashboard summary may be
const dashboardCacheTTL = 30 * time.Second

// DashboardSummary is the flat aggregate returned by the dashboard endpoint
type DashboardSummary struct {
	TotalOrders     int64   `json:"total_orders"`
	ReservedOrders  int64   `json:"reserved_orders"`
	PickupedOrders  int64   `json:"pickuped_orders"`
	ReturnedOrders  int64   `json:"returned_orders"`
	CompletedOrders int64   `json:"completed_orders"`
	CancelledOrders int64   `json:"cancelled_orders"`
	TodayOrders     int64   `json:"today_orders"`
	TodayRevenue    float64 `json:"today_revenue"`
	TotalCustomers  int64   `json:"total_customers"`
	TotalProducts   int64   `json:"total_products"`
}

// GrowthMetrics compares the current period against the immediately
// preceding period of the same length
type GrowthMetrics struct {
	PeriodStart     time.Time `json:"period_start"`
	PeriodEnd       time.Time `json:"period_end"`
	CurrentOrders   int64     `json:"current_orders"`
	PreviousOrders  int64     `json:"previous_orders"`
	OrderGrowth     float64   `json:"order_growth"`
	CurrentRevenue  float64   `json:"current_revenue"`
	PreviousRevenue float64   `json:"previous_revenue"`
	RevenueGrowth   float64   `json:"revenue_growth"`
}

// GetDashboard handles GET /api/v1/analytics/dashboard - aggregate counts and
// today's revenue for the caller's scope. Sub-queries run in parallel; if any
// one fails the whole request fails. The serialized summary is cached briefly
// and served with an ETag so unchanged payloads return 304.
func GetDashboard(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	cacheKey := dashboardCacheKey(user)
	cache := services.GetSummaryCache()

	payload, hit, err := cache.Get(c.Request.Context(), cacheKey)
	if err != nil || !hit {
		summary, aggErr := aggregateDashboard(c.Request.Context(), user)
		if aggErr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to aggregate dashboard data",
				},
			})
			return
		}
		payload, err = json.Marshal(summary)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INTERNAL_ERROR",
					"message": "Failed to serialize dashboard data",
				},
			})
			return
		}
		_ = cache.Set(c.Request.Context(), cacheKey, payload, dashboardCacheTTL)
	}

	etag := utils.ETagFor(payload)
	c.Header("ETag", etag)
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    json.RawMessage(payload),
	})
}

// GetGrowthMetrics handles GET /api/v1/analytics/growth-metrics - order count
// and revenue for the requested period versus the prior period of the same
// length. Defaults to the last 30 days; overridable via startDate/endDate.
func GetGrowthMetrics(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	now := services.GetClock().Now()
	end := now
	if t, err := parseDateParam(c.Query("endDate")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid endDate",
			},
		})
		return
	} else if t != nil {
		end = *t
	}

	start := end.AddDate(0, 0, -30)
	if t, err := parseDateParam(c.Query("startDate")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid startDate",
			},
		})
		return
	} else if t != nil {
		start = *t
	}
	if end.Before(start) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "endDate must not be before startDate",
			},
		})
		return
	}

	window := end.Sub(start)
	prevEnd := start.Add(-time.Nanosecond)
	prevStart := start.Add(-window)

	db := config.GetDB()

	var currentCount, previousCount int64
	if err := middleware.ScopeOrders(db.Model(&models.Order{}), user).
		Where("orders.created_at BETWEEN ? AND ?", start, end).Count(&currentCount).Error; err != nil {
		respondAnalyticsDBError(c)
		return
	}
	if err := middleware.ScopeOrders(db.Model(&models.Order{}), user).
		Where("orders.created_at BETWEEN ? AND ?", prevStart, prevEnd).Count(&previousCount).Error; err != nil {
		respondAnalyticsDBError(c)
		return
	}

	// One fetch covers both windows; PeriodRevenue filters precisely by the
	// status-relevant date field.
	var orders []models.Order
	err := middleware.ScopeOrders(db.Model(&models.Order{}), user).
		Where("(orders.created_at BETWEEN ? AND ?) OR (orders.picked_up_at BETWEEN ? AND ?) OR (orders.returned_at BETWEEN ? AND ?)",
			prevStart, end, prevStart, end, prevStart, end).
		Find(&orders).Error
	if err != nil {
		respondAnalyticsDBError(c)
		return
	}

	currentRevenue := services.PeriodRevenue(orders, start, end)
	previousRevenue := services.PeriodRevenue(orders, prevStart, prevEnd)

	metrics := GrowthMetrics{
		PeriodStart:     start,
		PeriodEnd:       end,
		CurrentOrders:   currentCount,
		PreviousOrders:  previousCount,
		OrderGrowth:     services.GrowthPercent(float64(currentCount), float64(previousCount)),
		CurrentRevenue:  currentRevenue,
		PreviousRevenue: previousRevenue,
		RevenueGrowth:   services.GrowthPercent(currentRevenue, previousRevenue),
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    metrics,
	})
}

// aggregateDashboard fans out the independent count queries and merges the
// results. Queries are read-only and independent; ordering between them does
// not matter, but a single failure fails the aggregate.
func aggregateDashboard(ctx context.Context, user models.User) (*DashboardSummary, error) {
	db := config.GetDB()
	now := services.GetClock().Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1).Add(-time.Nanosecond)

	summary := &DashboardSummary{}

	statusTargets := map[models.Status]*int64{
		models.StatusReserved:  &summary.ReservedOrders,
		models.StatusPickuped:  &summary.PickupedOrders,
		models.StatusReturned:  &summary.ReturnedOrders,
		models.StatusCompleted: &summary.CompletedOrders,
		models.StatusCancelled: &summary.CancelledOrders,
	}

	g, _ := errgroup.WithContext(ctx)

	for status, target := range statusTargets {
		status, target := status, target
		g.Go(func() error {
			return middleware.ScopeOrders(db.Model(&models.Order{}), user).
				Where("orders.status = ?", status).Count(target).Error
		})
	}
	g.Go(func() error {
		return middleware.ScopeOrders(db.Model(&models.Order{}), user).Count(&summary.TotalOrders).Error
	})
	g.Go(func() error {
		return middleware.ScopeOrders(db.Model(&models.Order{}), user).
			Where("orders.created_at BETWEEN ? AND ?", dayStart, dayEnd).
			Count(&summary.TodayOrders).Error
	})
	g.Go(func() error {
		var orders []models.Order
		err := middleware.ScopeOrders(db.Model(&models.Order{}), user).
			Where("(orders.created_at BETWEEN ? AND ?) OR (orders.picked_up_at BETWEEN ? AND ?) OR (orders.returned_at BETWEEN ? AND ?)",
				dayStart, dayEnd, dayStart, dayEnd, dayStart, dayEnd).
			Find(&orders).Error
		if err != nil {
			return err
		}
		summary.TodayRevenue = services.PeriodRevenue(orders, dayStart, dayEnd)
		return nil
	})
	g.Go(func() error {
		return middleware.ScopeCustomers(db.Model(&models.Customer{}), user).Count(&summary.TotalCustomers).Error
	})
	g.Go(func() error {
		return middleware.ScopeProducts(db.Model(&models.Product{}), user).Count(&summary.TotalProducts).Error
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summary, nil
}

func dashboardCacheKey(user models.User) string {
	merchantID, outletID := uint(0), uint(0)
	if user.MerchantID != nil {
		merchantID = *user.MerchantID
	}
	if user.OutletID != nil {
		outletID = *user.OutletID
	}
	return fmt.Sprintf("dashboard:%s:%d:%d", user.Role, merchantID, outletID)
}

func respondAnalyticsDBError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "DATABASE_ERROR",
			"message": "Failed to query analytics data",
		},
	})
}
