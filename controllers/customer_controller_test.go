package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrasetiawan/rentalku-api/config"
	"github.com/andrasetiawan/rentalku-api/models"
)

func TestCreateCustomer(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	defer resetServiceSingletons()

	tenant := seedTenant(t, db, "cust")

	router := setupTestRouter()
	router.POST("/api/v1/customers", mockAuthMiddleware(tenant.Staff.Auth0ID, "test-token"), CreateCustomer)

	body, _ := json.Marshal(map[string]interface{}{
		"name":       "Budi Santoso",
		"phone":      "0812-3456-7890",
		"id_card_no": "3201234567890001",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var response struct {
		Data models.Customer `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	// Staff-created customers land under the staff's merchant automatically
	assert.Equal(t, tenant.Merchant.ID, response.Data.MerchantID)
	assert.Equal(t, "Budi Santoso", response.Data.Name)
}

func TestCreateCustomerRequiresPhone(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	defer resetServiceSingletons()

	tenant := seedTenant(t, db, "custbad")

	router := setupTestRouter()
	router.POST("/api/v1/customers", mockAuthMiddleware(tenant.Staff.Auth0ID, "test-token"), CreateCustomer)

	body, _ := json.Marshal(map[string]interface{}{"name": "No Phone"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListCustomersSearch(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	defer resetServiceSingletons()

	tenant := seedTenant(t, db, "csearch")
	seedTenant(t, db, "csearchother")

	extra := models.Customer{MerchantID: tenant.Merchant.ID, Name: "Siti Rahma", Phone: "0813-999"}
	require.NoError(t, db.Create(&extra).Error)

	router := setupTestRouter()
	router.GET("/api/v1/customers", mockAuthMiddleware(tenant.Admin.Auth0ID, "test-token"), ListCustomers)

	// Unfiltered list is scoped to the merchant
	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response["data"].([]interface{}), 2)

	// Name search narrows the result
	req = httptest.NewRequest(http.MethodGet, "/api/v1/customers?search=Siti", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "Siti Rahma", data[0].(map[string]interface{})["name"])
}

func TestUpdateCustomerScoped(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	defer resetServiceSingletons()

	tenantA := seedTenant(t, db, "cupda")
	tenantB := seedTenant(t, db, "cupdb")

	router := setupTestRouter()
	router.PATCH("/api/v1/customers/:id", mockAuthMiddleware(tenantA.Admin.Auth0ID, "test-token"), UpdateCustomer)

	// Own customer can be updated
	body, _ := json.Marshal(map[string]interface{}{"address": "Jl. Mawar 5"})
	req := httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/api/v1/customers/%d", tenantA.Customer.ID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Customer
	require.NoError(t, db.First(&reloaded, tenantA.Customer.ID).Error)
	assert.Equal(t, "Jl. Mawar 5", reloaded.Address)

	// Another merchant's customer is invisible
	req = httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/api/v1/customers/%d", tenantB.Customer.ID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
