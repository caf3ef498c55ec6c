package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrasetiawan/rentalku-api/config"
	"github.com/andrasetiawan/rentalku-api/models"
	"github.com/andrasetiawan/rentalku-api/services"
)

func multipartImageRequest(t *testing.T, url, field, filename string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, url, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadProductImage(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	storage := services.NewMockStorage()
	services.SetStorage(storage)
	defer resetServiceSingletons()

	tenant := seedTenant(t, db, "upl")

	router := setupTestRouter()
	router.POST("/api/v1/products/:id/image", mockAuthMiddleware(tenant.Staff.Auth0ID, "test-token"), UploadProductImage)

	url := fmt.Sprintf("/api/v1/products/%d/image", tenant.Product.ID)
	req := multipartImageRequest(t, url, "image", "tent.jpg", []byte("fake-jpeg-bytes"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, storage.UploadCalls)

	var product models.Product
	require.NoError(t, db.First(&product, tenant.Product.ID).Error)
	require.NotNil(t, product.ImageS3Key)
	assert.Contains(t, *product.ImageS3Key, "tent.jpg")

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Contains(t, data["image_url"], "https://mock-bucket.example.com/")
}

func TestUploadProductImageReplacesOldObject(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	storage := services.NewMockStorage()
	oldKey := "products/old/previous.png"
	storage.Objects[oldKey] = nil
	services.SetStorage(storage)
	defer resetServiceSingletons()

	tenant := seedTenant(t, db, "uplold")
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", tenant.Product.ID).
		Update("image_s3_key", oldKey).Error)

	router := setupTestRouter()
	router.POST("/api/v1/products/:id/image", mockAuthMiddleware(tenant.Staff.Auth0ID, "test-token"), UploadProductImage)

	url := fmt.Sprintf("/api/v1/products/%d/image", tenant.Product.ID)
	req := multipartImageRequest(t, url, "image", "new.png", []byte("fake-png-bytes"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	_, oldExists := storage.Objects[oldKey]
	assert.False(t, oldExists)
}

func TestUploadProductImageValidation(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	services.SetStorage(services.NewMockStorage())
	defer resetServiceSingletons()

	tenant := seedTenant(t, db, "uplbad")
	url := fmt.Sprintf("/api/v1/products/%d/image", tenant.Product.ID)

	router := setupTestRouter()
	router.POST("/api/v1/products/:id/image", mockAuthMiddleware(tenant.Staff.Auth0ID, "test-token"), UploadProductImage)

	// No file attached
	req := httptest.NewRequest(http.MethodPost, url, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Disallowed extension
	req = multipartImageRequest(t, url, "image", "archive.zip", []byte("not-an-image"))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	errObj := response["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION_ERROR", errObj["code"])
}
