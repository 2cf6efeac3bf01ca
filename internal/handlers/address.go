package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"backend/internal/apperr"
	"backend/internal/logger"
	"backend/internal/models"
)

// GetAddresses returns the caller's address book.
func GetAddresses(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/user/addresses"

		userID, err := userIDFromContext(c)
		if err != nil {
			respondError(c, route, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		user, err := findUser(ctx, db, userID)
		if err != nil {
			respondError(c, route, err)
			return
		}

		addresses := user.Addresses
		if addresses == nil {
			addresses = []models.Address{}
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "addresses": addresses})
	}
}

// AddAddress appends a validated address to the caller's address book.
func AddAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/user/addresses"

		userID, err := userIDFromContext(c)
		if err != nil {
			respondError(c, route, err)
			return
		}

		var req addressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		address, err := buildAddress(req)
		if err != nil {
			respondError(c, route, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		user, err := findUser(ctx, db, userID)
		if err != nil {
			respondError(c, route, err)
			return
		}

		user.Addresses = append(user.Addresses, address)
		if err := saveAddresses(ctx, db, userID, user.Addresses); err != nil {
			respondError(c, route, err)
			return
		}

		logger.L().Info("address created", zap.String("addressId", address.ID))
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Address added successfully.", "address": address})
	}
}

// UpdateAddress applies only the provided fields to an existing entry.
func UpdateAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/user/addresses/:addressId"

		userID, err := userIDFromContext(c)
		if err != nil {
			respondError(c, route, err)
			return
		}

		addressID := strings.TrimSpace(c.Param("addressId"))
		if addressID == "" {
			respondError(c, route, apperr.New(apperr.InvalidArgument, "Address id is required."))
			return
		}

		var req addressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		user, err := findUser(ctx, db, userID)
		if err != nil {
			respondError(c, route, err)
			return
		}

		index := findAddressIndex(user.Addresses, addressID)
		if index == -1 {
			respondError(c, route, apperr.New(apperr.NotFound, "Address not found."))
			return
		}

		applyAddressUpdate(&user.Addresses[index], req)
		if err := saveAddresses(ctx, db, userID, user.Addresses); err != nil {
			respondError(c, route, err)
			return
		}

		logger.L().Info("address updated", zap.String("addressId", addressID))
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Address updated successfully.", "address": user.Addresses[index]})
	}
}

// DeleteAddress removes one entry from the caller's address book.
func DeleteAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/user/addresses/:addressId"

		userID, err := userIDFromContext(c)
		if err != nil {
			respondError(c, route, err)
			return
		}

		addressID := strings.TrimSpace(c.Param("addressId"))
		if addressID == "" {
			respondError(c, route, apperr.New(apperr.InvalidArgument, "Address id is required."))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		user, err := findUser(ctx, db, userID)
		if err != nil {
			respondError(c, route, err)
			return
		}

		index := findAddressIndex(user.Addresses, addressID)
		if index == -1 {
			respondError(c, route, apperr.New(apperr.NotFound, "Address not found."))
			return
		}

		user.Addresses = append(user.Addresses[:index], user.Addresses[index+1:]...)
		if err := saveAddresses(ctx, db, userID, user.Addresses); err != nil {
			respondError(c, route, err)
			return
		}

		logger.L().Info("address deleted", zap.String("addressId", addressID))
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Address deleted successfully."})
	}
}

// saveAddresses replaces the embedded list atomically on the user
// document.
func saveAddresses(ctx context.Context, db *mongo.Database, userID primitive.ObjectID, addresses []models.Address) error {
	_, err := db.Collection("users").UpdateByID(ctx, userID, bson.M{
		"$set": bson.M{
			"addresses": addresses,
			"updatedAt": time.Now(),
		},
	})
	if err != nil {
		return apperr.Wrap(apperr.Internal, "", err)
	}
	return nil
}
