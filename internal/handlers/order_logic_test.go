package handlers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/apperr"
	"backend/internal/models"
)

func orderTestUser() *models.User {
	return &models.User{
		ID:   primitive.NewObjectID(),
		Name: "Alice",
		Addresses: []models.Address{
			{ID: "addr-1", FirstName: "Alice", LastName: "Nguyen", Email: "a@x.com",
				Street: "1 Main St", City: "Hanoi", Zipcode: "100000", Country: "Vietnam", Phone: "0901234567"},
		},
	}
}

func validPlaceOrderRequest() placeOrderRequest {
	return placeOrderRequest{
		Items: []orderItemRequest{
			{ProductID: "p1", Name: "Round Neck Tee", Size: "M", Price: 250000, Quantity: 2},
		},
		Amount:  510000,
		Address: orderAddressRequest{AddressID: "addr-1"},
	}
}

func TestResolveOrderAddressExistingIDNeverAppends(t *testing.T) {
	user := orderTestUser()

	address, appended, err := resolveOrderAddress(user, orderAddressRequest{AddressID: "addr-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if appended {
		t.Fatal("expected no append when addressId references an existing entry")
	}
	if address.ID != "addr-1" || address.City != "Hanoi" {
		t.Fatalf("expected the stored address, got %+v", address)
	}
}

func TestResolveOrderAddressUnknownID(t *testing.T) {
	user := orderTestUser()

	_, _, err := resolveOrderAddress(user, orderAddressRequest{AddressID: "missing"})
	if apperr.KindOf(err) != apperr.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestResolveOrderAddressNewAddressAppends(t *testing.T) {
	user := orderTestUser()

	req := orderAddressRequest{addressRequest: validAddressRequest()}
	address, appended, err := resolveOrderAddress(user, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !appended {
		t.Fatal("expected appended=true for a new address")
	}
	if address.ID == "" {
		t.Fatal("expected a generated id on the new address")
	}
}

func TestResolveOrderAddressNewAddressValidation(t *testing.T) {
	user := orderTestUser()

	req := validAddressRequest()
	req.Street = ""
	_, _, err := resolveOrderAddress(user, orderAddressRequest{addressRequest: req})
	if apperr.KindOf(err) != apperr.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestBuildOrderDefaults(t *testing.T) {
	user := orderTestUser()
	req := validPlaceOrderRequest()

	order, err := buildOrder(user.ID, req, user.Addresses[0], models.PaymentMethodCOD)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != models.StatusOrderPlaced {
		t.Fatalf("expected default status %q, got %q", models.StatusOrderPlaced, order.Status)
	}
	if order.Payment {
		t.Fatal("expected payment=false on a fresh order")
	}
	if order.Amount != req.Amount {
		t.Fatalf("expected amount %v, got %v", req.Amount, order.Amount)
	}
	if order.Address.ID != "addr-1" {
		t.Fatal("expected the resolved address snapshot on the order")
	}
}

func TestBuildOrderRejectsEmptyItems(t *testing.T) {
	req := validPlaceOrderRequest()
	req.Items = nil

	_, err := buildOrder(primitive.NewObjectID(), req, models.Address{}, models.PaymentMethodCOD)
	if apperr.KindOf(err) != apperr.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestBuildOrderRejectsNonPositiveQuantity(t *testing.T) {
	req := validPlaceOrderRequest()
	req.Items[0].Quantity = 0

	_, err := buildOrder(primitive.NewObjectID(), req, models.Address{}, models.PaymentMethodCOD)
	if apperr.KindOf(err) != apperr.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestBuildStripeLineItemsAppendsDeliveryCharge(t *testing.T) {
	items := []models.OrderItem{
		{Name: "Round Neck Tee", Price: 250000, Quantity: 2},
		{Name: "Hoodie", Price: 400000, Quantity: 1},
	}

	lineItems := buildStripeLineItems(items)
	if len(lineItems) != 3 {
		t.Fatalf("expected 3 line items, got %d", len(lineItems))
	}
	if lineItems[0].UnitAmount != 25000000 {
		t.Fatalf("expected unit amount in minor units, got %d", lineItems[0].UnitAmount)
	}
	if lineItems[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", lineItems[0].Quantity)
	}

	delivery := lineItems[2]
	if delivery.Name != "Delivery Charges" || delivery.UnitAmount != deliveryCharge*100 || delivery.Quantity != 1 {
		t.Fatalf("unexpected delivery line item: %+v", delivery)
	}
}

func TestNewOrderEventMirrorsPersistedOrder(t *testing.T) {
	user := orderTestUser()
	req := validPlaceOrderRequest()

	order, err := buildOrder(user.ID, req, user.Addresses[0], models.PaymentMethodCOD)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	order.ID = primitive.NewObjectID()

	event := newOrderEvent(order, user.Name)
	if event.Amount != order.Amount {
		t.Fatalf("event amount %v must equal order amount %v", event.Amount, order.Amount)
	}
	if event.Status != order.Status {
		t.Fatalf("event status %q must equal order status %q", event.Status, order.Status)
	}
	if event.OrderID != order.ID.Hex() {
		t.Fatal("event orderId must match the persisted order")
	}
	if event.UserName != "Alice" {
		t.Fatalf("expected purchaser display name, got %q", event.UserName)
	}
	if len(event.Items) != len(order.Items) {
		t.Fatal("event items must mirror the order items")
	}
}
