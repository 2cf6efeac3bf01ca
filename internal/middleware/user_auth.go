package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"backend/internal/logger"
)

// UserAuth validates user bearer tokens and injects the userId into the
// gin context as a primitive.ObjectID.
func UserAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := ParseBearer(c.GetHeader("Authorization"), secret)
		if err != nil {
			logger.L().Warn("user token rejected", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not Authorized. Login Again."})
			return
		}

		userIDValue, ok := claims["id"].(string)
		if !ok || strings.TrimSpace(userIDValue) == "" {
			logger.L().Warn("user token missing id claim")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not Authorized. Login Again."})
			return
		}

		userID, err := primitive.ObjectIDFromHex(userIDValue)
		if err != nil {
			logger.L().Warn("user token id claim not an object id", zap.String("id", userIDValue))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not Authorized. Login Again."})
			return
		}

		c.Set("userId", userID)
		c.Next()
	}
}
