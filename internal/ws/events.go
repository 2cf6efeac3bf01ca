package ws

import (
	"time"

	"backend/internal/models"
)

const (
	EventNewOrder     = "newOrder"
	EventOrderUpdated = "orderUpdated"
)

// NewOrderEvent is the full order snapshot pushed to admins once per
// created order.
type NewOrderEvent struct {
	OrderID       string             `json:"orderId"`
	UserName      string             `json:"userName"`
	Amount        float64            `json:"amount"`
	PaymentMethod string             `json:"paymentMethod"`
	Status        string             `json:"status"`
	Date          time.Time          `json:"date"`
	Items         []models.OrderItem `json:"items"`
	Address       models.Address     `json:"address"`
}

// OrderUpdatedEvent is pushed on every status change or payment
// verification.
type OrderUpdatedEvent struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
	Payment bool   `json:"payment"`
}

// OrderPublisher is what the order handlers depend on. Delivery is
// at-most-once: publishing never blocks and never reports failures.
type OrderPublisher interface {
	NewOrder(event NewOrderEvent)
	OrderUpdated(event OrderUpdatedEvent)
}
