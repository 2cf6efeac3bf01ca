package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"backend/internal/apperr"
	"backend/internal/logger"
)

// respondError is the single translation point from error kind to HTTP
// status and user-facing body.
func respondError(c *gin.Context, route string, err error) {
	kind := apperr.KindOf(err)
	status := kind.HTTPStatus()

	message := err.Error()
	if kind == apperr.Internal {
		logger.L().Error("request failed", zap.String("route", route), zap.Error(err))
		message = "Internal Server Error."
	} else {
		logger.L().Warn("request rejected",
			zap.String("route", route),
			zap.Int("status", status),
			zap.String("message", message),
		)
	}

	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

func respondValidationError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			field := lowerCamel(fieldError.Field())
			switch fieldError.Tag() {
			case "required":
				details = append(details, fmt.Sprintf("%s is required", field))
			case "email":
				details = append(details, fmt.Sprintf("%s must be a valid email", field))
			case "min":
				details = append(details, fmt.Sprintf("%s is too short", field))
			default:
				details = append(details, fmt.Sprintf("%s is invalid", field))
			}
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Validation failed.",
			"details": details,
		})
		return
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body."})
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
