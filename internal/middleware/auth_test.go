package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func performRequest(handler gin.HandlerFunc, authHeader string) (*httptest.ResponseRecorder, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", handler, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	router.ServeHTTP(w, req)
	return w, router
}

func TestUserAuthInjectsObjectID(t *testing.T) {
	userID := primitive.NewObjectID()
	token := signToken(t, jwt.MapClaims{
		"id":  userID.Hex(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}, testSecret)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	var got primitive.ObjectID
	router.GET("/protected", UserAuth(testSecret), func(c *gin.Context) {
		value, _ := c.Get("userId")
		got = value.(primitive.ObjectID)
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, got)
}

func TestUserAuthRejectsMissingHeader(t *testing.T) {
	w, _ := performRequest(UserAuth(testSecret), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserAuthRejectsMalformedHeader(t *testing.T) {
	w, _ := performRequest(UserAuth(testSecret), "Token abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserAuthRejectsExpiredToken(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"id":  primitive.NewObjectID().Hex(),
		"exp": time.Now().Add(-time.Minute).Unix(),
	}, testSecret)

	w, _ := performRequest(UserAuth(testSecret), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserAuthRejectsWrongSecret(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"id":  primitive.NewObjectID().Hex(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}, "other-secret")

	w, _ := performRequest(UserAuth(testSecret), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminAuthAcceptsAdminRole(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"email": "admin@example.com",
		"role":  "admin",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}, testSecret)

	w, _ := performRequest(AdminAuth(testSecret), "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminAuthForbidsUserRole(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"id":   primitive.NewObjectID().Hex(),
		"role": "user",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}, testSecret)

	w, _ := performRequest(AdminAuth(testSecret), "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
