package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"backend/internal/apperr"
	"backend/internal/models"
)

type addToCartRequest struct {
	ItemID string `json:"itemId" binding:"required"`
	Size   string `json:"size" binding:"required"`
}

type updateCartRequest struct {
	ItemID   string `json:"itemId" binding:"required"`
	Size     string `json:"size" binding:"required"`
	Quantity *int   `json:"quantity" binding:"required"`
}

// AddToCart increments the quantity for (itemId, size) on the caller's
// cart snapshot.
func AddToCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/cart/add"

		userID, err := userIDFromContext(c)
		if err != nil {
			respondError(c, route, err)
			return
		}

		var req addToCartRequest
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

		cart := addCartItem(user.CartData, req.ItemID, req.Size)
		if err := saveCart(ctx, db, userID, cart); err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Added to cart successfully."})
	}
}

// UpdateCart overwrites or removes a (itemId, size) entry.
func UpdateCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/cart/update"

		userID, err := userIDFromContext(c)
		if err != nil {
			respondError(c, route, err)
			return
		}

		var req updateCartRequest
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

		cart, err := setCartQuantity(user.CartData, req.ItemID, req.Size, *req.Quantity)
		if err != nil {
			respondError(c, route, err)
			return
		}

		if err := saveCart(ctx, db, userID, cart); err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cart updated successfully."})
	}
}

// GetCart returns the caller's cart snapshot.
func GetCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/cart/get"

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

		cart := user.CartData
		if cart == nil {
			cart = models.CartData{}
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "cartData": cart})
	}
}

func findUser(ctx context.Context, db *mongo.Database, userID primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.New(apperr.NotFound, "User not found.")
		}
		return nil, apperr.Wrap(apperr.Internal, "", err)
	}
	return &user, nil
}

// saveCart replaces the whole cart snapshot: last write wins, no
// per-entry locking.
func saveCart(ctx context.Context, db *mongo.Database, userID primitive.ObjectID, cart models.CartData) error {
	_, err := db.Collection("users").UpdateByID(ctx, userID, bson.M{
		"$set": bson.M{
			"cartData":  cart,
			"updatedAt": time.Now(),
		},
	})
	if err != nil {
		return apperr.Wrap(apperr.Internal, "", err)
	}
	return nil
}
