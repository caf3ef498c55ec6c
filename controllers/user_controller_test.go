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

func TestCreateUserIdempotent(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	defer resetServiceSingletons()

	existing := models.User{
		Auth0ID: "auth0|existing",
		Name:    "Existing User",
		Email:   "existing@example.com",
		Role:    models.RoleStaff,
	}
	require.NoError(t, db.Create(&existing).Error)

	router := setupTestRouter()
	router.POST("/api/v1/users", mockAuthMiddleware(existing.Auth0ID, "test-token"), CreateUser)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// An existing profile is returned, not recreated
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreateUserFromAuth0Profile(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	defer resetServiceSingletons()

	auth0 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/userinfo" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sub":"auth0|first","email":"first@example.com","name":"First User"}`))
	}))
	defer auth0.Close()

	originalConfig := config.GetConfig()
	config.SetConfig(&config.Config{GoEnv: "test", Auth0Domain: auth0.URL})
	defer config.SetConfig(originalConfig)

	router := setupTestRouter()
	router.POST("/api/v1/users", mockAuthMiddleware("auth0|first", "test-token"), CreateUser)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	// The very first profile becomes the platform superadmin
	var created models.User
	require.NoError(t, db.Where("auth0_id = ?", "auth0|first").First(&created).Error)
	assert.Equal(t, models.RoleSuperadmin, created.Role)
	assert.Equal(t, "first@example.com", created.Email)

	// The next profile starts as unassigned staff
	router = setupTestRouter()
	router.POST("/api/v1/users", mockAuthMiddleware("auth0|second", "test-token"), CreateUser)

	auth0Second := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sub":"auth0|second","email":"second@example.com","name":"Second User"}`))
	}))
	defer auth0Second.Close()
	config.SetConfig(&config.Config{GoEnv: "test", Auth0Domain: auth0Second.URL})

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/users", nil))
	require.Equal(t, http.StatusCreated, w.Code)

	var second models.User
	require.NoError(t, db.Where("auth0_id = ?", "auth0|second").First(&second).Error)
	assert.Equal(t, models.RoleStaff, second.Role)
	assert.Nil(t, second.MerchantID)
}

func TestGetCurrentUser(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	defer resetServiceSingletons()

	tenant := seedTenant(t, db, "me")

	router := setupTestRouter()
	router.GET("/api/v1/users/me", mockAuthMiddleware(tenant.Staff.Auth0ID, "test-token"), GetCurrentUser)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, tenant.Staff.Email, data["email"])
	assert.Equal(t, models.RoleStaff, data["role"])
}

func TestGetCurrentUserWithoutProfile(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	defer resetServiceSingletons()

	router := setupTestRouter()
	router.GET("/api/v1/users/me", mockAuthMiddleware("auth0|nobody", "test-token"), GetCurrentUser)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	errObj := response["error"].(map[string]interface{})
	assert.Equal(t, "USER_NOT_FOUND", errObj["code"])
}

func TestListUsers(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	defer resetServiceSingletons()

	tenantA := seedTenant(t, db, "usra")
	tenantB := seedTenant(t, db, "usrb")

	superadmin := models.User{
		Auth0ID: "auth0|super-users",
		Name:    "Super",
		Email:   "super-users@example.com",
		Role:    models.RoleSuperadmin,
	}
	require.NoError(t, db.Create(&superadmin).Error)

	tests := []struct {
		name           string
		auth0ID        string
		expectedStatus int
		expectedCount  int
	}{
		{"superadmin lists all users", superadmin.Auth0ID, http.StatusOK, 5},
		{"admin lists own merchant only", tenantA.Admin.Auth0ID, http.StatusOK, 2},
		{"staff is forbidden", tenantB.Staff.Auth0ID, http.StatusForbidden, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			router.GET("/api/v1/users", mockAuthMiddleware(tt.auth0ID, "test-token"), ListUsers)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var response map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			data := response["data"].([]interface{})
			assert.Len(t, data, tt.expectedCount)
		})
	}
}

func TestUpdateUserRoleRules(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	defer resetServiceSingletons()

	tenant := seedTenant(t, db, "upd")

	superadmin := models.User{
		Auth0ID: "auth0|super-upd",
		Name:    "Super",
		Email:   "super-upd@example.com",
		Role:    models.RoleSuperadmin,
	}
	require.NoError(t, db.Create(&superadmin).Error)

	promotable := models.User{
		Auth0ID:    "auth0|promote-upd",
		Name:       "Promotable",
		Email:      "promote-upd@example.com",
		Role:       models.RoleStaff,
		MerchantID: &tenant.Merchant.ID,
		OutletID:   &tenant.Outlet.ID,
	}
	require.NoError(t, db.Create(&promotable).Error)

	tests := []struct {
		name           string
		auth0ID        string
		targetID       uint
		body           map[string]interface{}
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "admin promotes staff to admin",
			auth0ID:        tenant.Admin.Auth0ID,
			targetID:       promotable.ID,
			body:           map[string]interface{}{"role": "admin"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "admin cannot grant superadmin",
			auth0ID:        tenant.Admin.Auth0ID,
			targetID:       tenant.Staff.ID,
			body:           map[string]interface{}{"role": "superadmin"},
			expectedStatus: http.StatusForbidden,
			expectedCode:   "FORBIDDEN",
		},
		{
			name:           "superadmin grants superadmin",
			auth0ID:        superadmin.Auth0ID,
			targetID:       tenant.Admin.ID,
			body:           map[string]interface{}{"role": "superadmin"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "staff cannot update users",
			auth0ID:        tenant.Staff.Auth0ID,
			targetID:       tenant.Admin.ID,
			body:           map[string]interface{}{"name": "Hacked"},
			expectedStatus: http.StatusForbidden,
			expectedCode:   "FORBIDDEN",
		},
		{
			name:           "unknown role is rejected",
			auth0ID:        superadmin.Auth0ID,
			targetID:       tenant.Staff.ID,
			body:           map[string]interface{}{"role": "owner"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			router.PATCH("/api/v1/users/:id", mockAuthMiddleware(tt.auth0ID, "test-token"), UpdateUser)

			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/api/v1/users/%d", tt.targetID), bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedCode != "" {
				var response map[string]interface{}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
				errObj := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedCode, errObj["code"])
			}
		})
	}
}

func TestDeleteUserGuards(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	defer resetServiceSingletons()

	tenant := seedTenant(t, db, "del")

	superadmin := models.User{
		Auth0ID: "auth0|super-del",
		Name:    "Super",
		Email:   "super-del@example.com",
		Role:    models.RoleSuperadmin,
	}
	require.NoError(t, db.Create(&superadmin).Error)

	secondAdmin := models.User{
		Auth0ID:    "auth0|admin2-del",
		Name:       "Second Admin",
		Email:      "admin2-del@example.com",
		Role:       models.RoleAdmin,
		MerchantID: &tenant.Merchant.ID,
	}
	require.NoError(t, db.Create(&secondAdmin).Error)

	deleteUser := func(auth0ID string, targetID uint) *httptest.ResponseRecorder {
		router := setupTestRouter()
		router.DELETE("/api/v1/users/:id", mockAuthMiddleware(auth0ID, "test-token"), DeleteUser)
		req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/v1/users/%d", targetID), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	// The last superadmin can never be removed
	w := deleteUser(superadmin.Auth0ID, superadmin.ID)
	assert.Equal(t, http.StatusConflict, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	errObj := response["error"].(map[string]interface{})
	assert.Equal(t, "CONFLICT", errObj["code"])

	// With two admins on the merchant, one may go
	w = deleteUser(superadmin.Auth0ID, secondAdmin.ID)
	assert.Equal(t, http.StatusOK, w.Code)

	// The remaining admin is the merchant's last; deleting them would lock the tenant out
	w = deleteUser(superadmin.Auth0ID, tenant.Admin.ID)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Staff can always be removed
	w = deleteUser(tenant.Admin.Auth0ID, tenant.Staff.ID)
	assert.Equal(t, http.StatusOK, w.Code)
}
