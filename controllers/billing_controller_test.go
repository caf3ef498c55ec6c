package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v80"

	"github.com/andrasetiawan/rentalku-api/config"
	"github.com/andrasetiawan/rentalku-api/models"
	"github.com/andrasetiawan/rentalku-api/services"
)

func setupBillingConfig() {
	config.SetConfig(&config.Config{
		GoEnv:            "test",
		StripePriceBasic: "price_basic_test",
		StripePricePro:   "price_pro_test",
	})
}

func TestCreateSubscription(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	setupBillingConfig()

	mock := &services.MockBilling{CustomerID: "cus_test", SubscriptionID: "sub_test"}
	services.SetBilling(mock)
	defer resetServiceSingletons()

	tenant := seedTenant(t, db, "bill")

	router := setupTestRouter()
	router.POST("/api/v1/billing/subscription", mockAuthMiddleware(tenant.Admin.Auth0ID, "test-token"), CreateSubscription)

	body, _ := json.Marshal(map[string]interface{}{"plan": "pro"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/billing/subscription", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, mock.CreatedCustomers)

	var sub models.Subscription
	require.NoError(t, db.Where("merchant_id = ?", tenant.Merchant.ID).First(&sub).Error)
	assert.Equal(t, models.PlanPro, sub.Plan)
	assert.Equal(t, "active", sub.Status)
	assert.Equal(t, "cus_test", sub.StripeCustomerID)
	assert.Equal(t, "sub_test", sub.StripeSubscriptionID)
	require.NotNil(t, sub.CurrentPeriodEnd)
	assert.True(t, sub.CurrentPeriodEnd.After(time.Now()))

	// A second attempt while the subscription is active conflicts
	req = httptest.NewRequest(http.MethodPost, "/api/v1/billing/subscription", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateSubscriptionForbiddenForStaff(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	setupBillingConfig()
	services.SetBilling(&services.MockBilling{})
	defer resetServiceSingletons()

	tenant := seedTenant(t, db, "billstaff")

	router := setupTestRouter()
	router.POST("/api/v1/billing/subscription", mockAuthMiddleware(tenant.Staff.Auth0ID, "test-token"), CreateSubscription)

	body, _ := json.Marshal(map[string]interface{}{"plan": "basic"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/billing/subscription", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetSubscription(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	defer resetServiceSingletons()

	tenant := seedTenant(t, db, "billget")

	sub := models.Subscription{
		MerchantID:           tenant.Merchant.ID,
		Plan:                 models.PlanBasic,
		Status:               "active",
		StripeCustomerID:     "cus_get",
		StripeSubscriptionID: "sub_get",
	}
	require.NoError(t, db.Create(&sub).Error)

	router := setupTestRouter()
	router.GET("/api/v1/billing/subscription", mockAuthMiddleware(tenant.Admin.Auth0ID, "test-token"), GetSubscription)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/billing/subscription", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "basic", data["plan"])
	assert.Equal(t, "active", data["status"])
}

func TestStripeWebhook(t *testing.T) {
	tests := []struct {
		name           string
		eventType      string
		eventData      string
		initialStatus  string
		expectedStatus string
	}{
		{
			name:           "invoice paid activates subscription",
			eventType:      "invoice.paid",
			eventData:      `{"subscription": {"id": "sub_hook"}}`,
			initialStatus:  "incomplete",
			expectedStatus: "active",
		},
		{
			name:           "subscription updated mirrors status",
			eventType:      "customer.subscription.updated",
			eventData:      `{"id": "sub_hook", "status": "past_due", "current_period_end": 1893456000}`,
			initialStatus:  "active",
			expectedStatus: "past_due",
		},
		{
			name:           "subscription deleted cancels",
			eventType:      "customer.subscription.deleted",
			eventData:      `{"id": "sub_hook", "status": "canceled"}`,
			initialStatus:  "active",
			expectedStatus: "canceled",
		},
		{
			name:           "unhandled event leaves subscription alone",
			eventType:      "charge.refunded",
			eventData:      `{}`,
			initialStatus:  "active",
			expectedStatus: "active",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			config.SetDB(db)
			defer resetServiceSingletons()

			tenant := seedTenant(t, db, "hook")
			sub := models.Subscription{
				MerchantID:           tenant.Merchant.ID,
				Plan:                 models.PlanBasic,
				Status:               tt.initialStatus,
				StripeCustomerID:     "cus_hook",
				StripeSubscriptionID: "sub_hook",
			}
			require.NoError(t, db.Create(&sub).Error)

			services.SetBilling(&services.MockBilling{
				WebhookEvent: stripe.Event{
					Type: stripe.EventType(tt.eventType),
					Data: &stripe.EventData{Raw: json.RawMessage(tt.eventData)},
				},
			})

			router := setupTestRouter()
			router.POST("/api/v1/billing/webhook", StripeWebhook)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/billing/webhook", bytes.NewReader([]byte(tt.eventData)))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)

			var reloaded models.Subscription
			require.NoError(t, db.First(&reloaded, sub.ID).Error)
			assert.Equal(t, tt.expectedStatus, reloaded.Status)
		})
	}
}

func TestStripeWebhookBadSignature(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	defer resetServiceSingletons()

	services.SetBilling(&services.MockBilling{WebhookErr: assert.AnError})

	router := setupTestRouter()
	router.POST("/api/v1/billing/webhook", StripeWebhook)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/billing/webhook", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	errObj := response["error"].(map[string]interface{})
	assert.Equal(t, "INVALID_SIGNATURE", errObj["code"])
}
