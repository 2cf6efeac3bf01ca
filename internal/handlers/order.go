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
	"backend/internal/config"
	"backend/internal/logger"
	"backend/internal/models"
	"backend/internal/payment"
	"backend/internal/ws"
)

// PlaceOrder converts the request into a cash-on-delivery order,
// clears the cart, and notifies the admin group.
func PlaceOrder(db *mongo.Database, events ws.OrderPublisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/order/place"

		userID, err := userIDFromContext(c)
		if err != nil {
			respondError(c, route, err)
			return
		}

		var req placeOrderRequest
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

		order, err := persistOrder(ctx, db, user, req, models.PaymentMethodCOD)
		if err != nil {
			respondError(c, route, err)
			return
		}

		events.NewOrder(newOrderEvent(order, user.Name))
		clearCart(ctx, db, userID)

		logger.L().Info("order placed",
			zap.String("orderId", order.ID.Hex()),
			zap.String("userId", userID.Hex()),
			zap.Float64("amount", order.Amount),
		)
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order placed successfully."})
	}
}

// PlaceOrderStripe persists a card-payment order and returns the hosted
// checkout redirect. The cart is cleared only after payment is
// verified.
func PlaceOrderStripe(db *mongo.Database, events ws.OrderPublisher, gateway payment.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/order/stripe"

		userID, err := userIDFromContext(c)
		if err != nil {
			respondError(c, route, err)
			return
		}

		var req placeOrderRequest
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

		order, err := persistOrder(ctx, db, user, req, models.PaymentMethodStripe)
		if err != nil {
			respondError(c, route, err)
			return
		}

		events.NewOrder(newOrderEvent(order, user.Name))

		origin := strings.TrimSpace(c.GetHeader("Origin"))
		if origin == "" {
			origin = config.AppEnv.FrontendURL
		}

		orderID := order.ID.Hex()
		session, err := gateway.CreateCheckoutSession(c.Request.Context(), payment.CheckoutParams{
			Reference:  orderID,
			Currency:   orderCurrency,
			SuccessURL: origin + "/verify?success=true&orderId=" + orderID,
			CancelURL:  origin + "/verify?success=false&orderId=" + orderID,
			Items:      buildStripeLineItems(order.Items),
		})
		if err != nil {
			respondError(c, route, apperr.Wrap(apperr.Internal, "", err))
			return
		}

		logger.L().Info("stripe order created",
			zap.String("orderId", orderID),
			zap.String("userId", userID.Hex()),
			zap.Float64("amount", order.Amount),
		)
		c.JSON(http.StatusOK, gin.H{"success": true, "session_url": session.URL})
	}
}

// VerifyPayment finalizes a card payment: success marks the order paid
// and clears the purchaser's cart, failure deletes the order outright.
func VerifyPayment(db *mongo.Database, events ws.OrderPublisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/order/verify"

		orderIDParam := strings.TrimSpace(c.Query("orderId"))
		successParam := strings.TrimSpace(c.Query("success"))
		if orderIDParam == "" || successParam == "" {
			respondError(c, route, apperr.New(apperr.InvalidArgument, "Missing required query parameters: orderId or success."))
			return
		}

		orderID, err := primitive.ObjectIDFromHex(orderIDParam)
		if err != nil {
			respondError(c, route, apperr.New(apperr.NotFound, "Order not found."))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		if err := db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
			if err == mongo.ErrNoDocuments {
				respondError(c, route, apperr.New(apperr.NotFound, "Order not found."))
				return
			}
			respondError(c, route, apperr.Wrap(apperr.Internal, "", err))
			return
		}

		if successParam != "true" {
			if _, err := db.Collection("orders").DeleteOne(ctx, bson.M{"_id": orderID}); err != nil {
				respondError(c, route, apperr.Wrap(apperr.Internal, "", err))
				return
			}
			logger.L().Info("stripe payment cancelled, order deleted", zap.String("orderId", orderIDParam))
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Payment failed or was cancelled."})
			return
		}

		if _, err := db.Collection("orders").UpdateByID(ctx, orderID, bson.M{
			"$set": bson.M{"payment": true},
		}); err != nil {
			respondError(c, route, apperr.Wrap(apperr.Internal, "", err))
			return
		}

		events.OrderUpdated(ws.OrderUpdatedEvent{
			OrderID: orderIDParam,
			Status:  order.Status,
			Payment: true,
		})
		clearCart(ctx, db, order.UserID)

		logger.L().Info("stripe payment verified", zap.String("orderId", orderIDParam))
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Payment verified and order placed successfully."})
	}
}

type updateStatusRequest struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// UpdateStatus sets the delivery-progress label on an order. Admin
// only; the label must be one of the known statuses.
func UpdateStatus(db *mongo.Database, events ws.OrderPublisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/order/update"

		var req updateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		req.OrderID = strings.TrimSpace(req.OrderID)
		req.Status = strings.TrimSpace(req.Status)
		if req.OrderID == "" || req.Status == "" {
			respondError(c, route, apperr.New(apperr.InvalidArgument, "Missing required fields: orderId or status."))
			return
		}
		if !models.ValidStatus(req.Status) {
			respondError(c, route, apperr.New(apperr.InvalidArgument, "Unknown order status."))
			return
		}

		orderID, err := primitive.ObjectIDFromHex(req.OrderID)
		if err != nil {
			respondError(c, route, apperr.New(apperr.NotFound, "Order not found."))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		if err := db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
			if err == mongo.ErrNoDocuments {
				respondError(c, route, apperr.New(apperr.NotFound, "Order not found."))
				return
			}
			respondError(c, route, apperr.Wrap(apperr.Internal, "", err))
			return
		}

		if _, err := db.Collection("orders").UpdateByID(ctx, orderID, bson.M{
			"$set": bson.M{"status": req.Status},
		}); err != nil {
			respondError(c, route, apperr.Wrap(apperr.Internal, "", err))
			return
		}

		events.OrderUpdated(ws.OrderUpdatedEvent{
			OrderID: req.OrderID,
			Status:  req.Status,
			Payment: order.Payment,
		})

		logger.L().Info("order status updated",
			zap.String("orderId", req.OrderID),
			zap.String("status", req.Status),
		)
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order status updated successfully."})
	}
}

// AllOrders returns every order with the purchaser's name and email
// joined in. Admin only.
func AllOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/order/all"

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		orders, err := listOrders(ctx, db, bson.M{})
		if err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
	}
}

// UserOrders returns the caller's orders.
func UserOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/order/userorders"

		userID, err := userIDFromContext(c)
		if err != nil {
			respondError(c, route, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		orders, err := listOrders(ctx, db, bson.M{"userId": userID})
		if err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
	}
}

type orderUserInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type orderResponse struct {
	models.Order
	User *orderUserInfo `json:"user,omitempty"`
}

// listOrders fetches orders for the filter and joins purchaser
// name/email in one batched lookup.
func listOrders(ctx context.Context, db *mongo.Database, filter bson.M) ([]orderResponse, error) {
	cursor, err := db.Collection("orders").Find(ctx, filter)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "", err)
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "", err)
	}

	userIDs := make([]primitive.ObjectID, 0, len(orders))
	seen := make(map[primitive.ObjectID]bool, len(orders))
	for _, order := range orders {
		if !seen[order.UserID] {
			seen[order.UserID] = true
			userIDs = append(userIDs, order.UserID)
		}
	}

	usersByID := make(map[primitive.ObjectID]models.User, len(userIDs))
	if len(userIDs) > 0 {
		userCursor, err := db.Collection("users").Find(ctx, bson.M{"_id": bson.M{"$in": userIDs}})
		if err != nil {
			return nil, apperr.Wrap(apperr.Internal, "", err)
		}
		defer userCursor.Close(ctx)

		var users []models.User
		if err := userCursor.All(ctx, &users); err != nil {
			return nil, apperr.Wrap(apperr.Internal, "", err)
		}
		for _, user := range users {
			usersByID[user.ID] = user
		}
	}

	responses := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		resp := orderResponse{Order: order}
		if user, ok := usersByID[order.UserID]; ok {
			resp.User = &orderUserInfo{
				ID:    user.ID.Hex(),
				Name:  user.Name,
				Email: user.Email,
			}
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

// persistOrder resolves the address, appends it to the user when new,
// and inserts the order document.
func persistOrder(ctx context.Context, db *mongo.Database, user *models.User, req placeOrderRequest, method string) (models.Order, error) {
	address, appended, err := resolveOrderAddress(user, req.Address)
	if err != nil {
		return models.Order{}, err
	}

	if appended {
		user.Addresses = append(user.Addresses, address)
		if err := saveAddresses(ctx, db, user.ID, user.Addresses); err != nil {
			return models.Order{}, err
		}
	}

	order, err := buildOrder(user.ID, req, address, method)
	if err != nil {
		return models.Order{}, err
	}

	res, err := db.Collection("orders").InsertOne(ctx, order)
	if err != nil {
		return models.Order{}, apperr.Wrap(apperr.Internal, "", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		order.ID = id
	}
	return order, nil
}

// clearCart empties the user's cart snapshot. Failures after the order
// is persisted are logged, not rolled back.
func clearCart(ctx context.Context, db *mongo.Database, userID primitive.ObjectID) {
	if err := saveCart(ctx, db, userID, models.CartData{}); err != nil {
		logger.L().Error("failed to clear cart after order", zap.String("userId", userID.Hex()), zap.Error(err))
	}
}
