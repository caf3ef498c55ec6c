package testutil

import (
	"net/http/httptest"
	"strings"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"

	"github.com/andrasetiawan/rentalku-api/middleware"
)

// MockValidatedClaims builds the claims object the JWT middleware would have
// produced for a token with the given subject and scopes
func MockValidatedClaims(subject string, scopes []string) *validator.ValidatedClaims {
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Subject: subject,
		},
		CustomClaims: &middleware.CustomClaims{
			Scope: strings.Join(scopes, " "),
		},
	}
}

// SetMockAuthContext seeds a gin context as if the caller had presented a
// valid token for the given user
func SetMockAuthContext(c *gin.Context, userID, accessToken string, scopes []string) {
	c.Set("user_id", userID)
	c.Set("access_token", accessToken)
	c.Set("validated_claims", MockValidatedClaims(userID, scopes))
}

// CreateTestContext returns a gin test context backed by a response recorder
func CreateTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return c, w
}
