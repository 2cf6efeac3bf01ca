package handlers

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/apperr"
	"backend/internal/models"
	"backend/internal/payment"
	"backend/internal/ws"
)

const (
	orderCurrency  = "vnd"
	deliveryCharge = 10000
)

type orderItemRequest struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Size      string  `json:"size"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// orderAddressRequest either references an existing address book entry
// by id or carries the fields of a new one.
type orderAddressRequest struct {
	AddressID string `json:"addressId"`
	addressRequest
}

type placeOrderRequest struct {
	Items   []orderItemRequest  `json:"items" binding:"required"`
	Amount  float64             `json:"amount" binding:"required"`
	Address orderAddressRequest `json:"address" binding:"required"`
}

// resolveOrderAddress picks the order's address snapshot. With an
// addressId it must already exist on the user; otherwise a new entry is
// validated and returned with appended=true so the caller persists it.
func resolveOrderAddress(user *models.User, req orderAddressRequest) (models.Address, bool, error) {
	if id := strings.TrimSpace(req.AddressID); id != "" {
		index := findAddressIndex(user.Addresses, id)
		if index == -1 {
			return models.Address{}, false, apperr.New(apperr.NotFound, "Address not found.")
		}
		return user.Addresses[index], false, nil
	}

	address, err := buildAddress(req.addressRequest)
	if err != nil {
		return models.Address{}, false, err
	}
	return address, true, nil
}

// buildOrder copies the requested items into an order document with the
// default status and unpaid state.
func buildOrder(userID primitive.ObjectID, req placeOrderRequest, address models.Address, method string) (models.Order, error) {
	if len(req.Items) == 0 {
		return models.Order{}, apperr.New(apperr.InvalidArgument, "At least one item is required.")
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		if strings.TrimSpace(item.ProductID) == "" {
			return models.Order{}, apperr.New(apperr.InvalidArgument, "Item productId is required.")
		}
		if item.Quantity <= 0 {
			return models.Order{}, apperr.New(apperr.InvalidArgument, "Item quantity must be greater than zero.")
		}
		items = append(items, models.OrderItem{
			ProductID: strings.TrimSpace(item.ProductID),
			Name:      strings.TrimSpace(item.Name),
			Size:      strings.TrimSpace(item.Size),
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}

	return models.Order{
		UserID:        userID,
		Items:         items,
		Address:       address,
		Amount:        req.Amount,
		PaymentMethod: method,
		Payment:       false,
		Status:        models.StatusOrderPlaced,
		Date:          time.Now(),
	}, nil
}

// buildStripeLineItems converts order items to checkout rows in minor
// currency units and appends the fixed delivery charge.
func buildStripeLineItems(items []models.OrderItem) []payment.LineItem {
	lineItems := make([]payment.LineItem, 0, len(items)+1)
	for _, item := range items {
		lineItems = append(lineItems, payment.LineItem{
			Name:       item.Name,
			UnitAmount: int64(item.Price * 100),
			Quantity:   int64(item.Quantity),
		})
	}
	lineItems = append(lineItems, payment.LineItem{
		Name:       "Delivery Charges",
		UnitAmount: deliveryCharge * 100,
		Quantity:   1,
	})
	return lineItems
}

func newOrderEvent(order models.Order, userName string) ws.NewOrderEvent {
	return ws.NewOrderEvent{
		OrderID:       order.ID.Hex(),
		UserName:      userName,
		Amount:        order.Amount,
		PaymentMethod: order.PaymentMethod,
		Status:        order.Status,
		Date:          order.Date,
		Items:         order.Items,
		Address:       order.Address,
	}
}
