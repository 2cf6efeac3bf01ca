package handlers

import (
	"backend/internal/apperr"
	"backend/internal/models"
)

// addCartItem increments the quantity for (itemID, size), creating the
// nested entries as needed. Returns the mutated snapshot.
func addCartItem(cart models.CartData, itemID, size string) models.CartData {
	if cart == nil {
		cart = models.CartData{}
	}
	sizes, ok := cart[itemID]
	if !ok {
		sizes = map[string]int{}
		cart[itemID] = sizes
	}
	sizes[size]++
	return cart
}

// setCartQuantity overwrites the quantity for an existing (itemID, size)
// entry. A quantity <= 0 removes the entry, and the product key with it
// when no sizes remain. The entry must already exist.
func setCartQuantity(cart models.CartData, itemID, size string, quantity int) (models.CartData, error) {
	if cart == nil {
		return nil, apperr.New(apperr.InvalidArgument, "Cart is empty.")
	}
	sizes, ok := cart[itemID]
	if !ok {
		return nil, apperr.New(apperr.InvalidArgument, "Item or size not found in cart.")
	}
	if _, ok := sizes[size]; !ok {
		return nil, apperr.New(apperr.InvalidArgument, "Item or size not found in cart.")
	}

	if quantity > 0 {
		sizes[size] = quantity
		return cart, nil
	}

	delete(sizes, size)
	if len(sizes) == 0 {
		delete(cart, itemID)
	}
	return cart, nil
}
