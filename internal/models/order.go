package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderItem is a point-in-time copy of a catalog selection. Name and
// price are captured at order time; later catalog edits never change a
// placed order.
type OrderItem struct {
	ProductID string  `bson:"productId" json:"productId"`
	Name      string  `bson:"name" json:"name"`
	Size      string  `bson:"size" json:"size"`
	Price     float64 `bson:"price" json:"price"`
	Quantity  int     `bson:"quantity" json:"quantity"`
}

// Order is the persisted order document. Address is a snapshot copied
// from the user's address book, not a live reference.
type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	Items         []OrderItem        `bson:"items" json:"items"`
	Address       Address            `bson:"address" json:"address"`
	Amount        float64            `bson:"amount" json:"amount"`
	PaymentMethod string             `bson:"paymentMethod" json:"paymentMethod"`
	Payment       bool               `bson:"payment" json:"payment"`
	Status        string             `bson:"status" json:"status"`
	Date          time.Time          `bson:"date" json:"date"`
}

const (
	PaymentMethodCOD    = "COD"
	PaymentMethodStripe = "Stripe"
)

// Delivery progression labels, advanced by admin action.
const (
	StatusOrderPlaced    = "Order Placed"
	StatusPacking        = "Packing"
	StatusShipped        = "Shipped"
	StatusOutForDelivery = "Out for delivery"
	StatusDelivered      = "Delivered"
)

// KnownStatuses lists the labels accepted by the admin status update.
var KnownStatuses = []string{
	StatusOrderPlaced,
	StatusPacking,
	StatusShipped,
	StatusOutForDelivery,
	StatusDelivered,
}

// ValidStatus reports whether s is one of the known labels.
func ValidStatus(s string) bool {
	for _, known := range KnownStatuses {
		if s == known {
			return true
		}
	}
	return false
}
