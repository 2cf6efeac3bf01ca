package payment

import "context"

// LineItem is a single charge row on the hosted payment page. The unit
// amount is in minor currency units.
type LineItem struct {
	Name       string
	UnitAmount int64
	Quantity   int64
}

type CheckoutParams struct {
	Reference  string
	Currency   string
	SuccessURL string
	CancelURL  string
	Items      []LineItem
}

type CheckoutSession struct {
	ID  string
	URL string
}

// Gateway creates hosted payment sessions with the card processor.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
}
