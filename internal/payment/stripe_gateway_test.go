package payment

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockRoundTripper lets tests intercept the outgoing HTTP request.
type MockRoundTripper func(req *http.Request) *http.Response

func (f MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

type MockRoundTripperWithError func(req *http.Request) (*http.Response, error)

func (f MockRoundTripperWithError) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func checkoutParams() CheckoutParams {
	return CheckoutParams{
		Reference:  "64f000000000000000000001",
		Currency:   "vnd",
		SuccessURL: "http://localhost:3000/verify?success=true&orderId=64f000000000000000000001",
		CancelURL:  "http://localhost:3000/verify?success=false&orderId=64f000000000000000000001",
		Items: []LineItem{
			{Name: "Round Neck Tee", UnitAmount: 250000 * 100, Quantity: 2},
			{Name: "Delivery Charges", UnitAmount: 10000 * 100, Quantity: 1},
		},
	}
}

func TestStripeGateway_CreateCheckoutSession(t *testing.T) {
	apiKey := "sk_test_secret"
	gw := NewStripeGateway(apiKey).(*stripeGateway)

	t.Run("Success", func(t *testing.T) {
		respBody := `{"id":"cs_test_123","url":"https://checkout.stripe.com/c/pay/cs_test_123"}`

		var captured url.Values
		gw.httpClient.Transport = MockRoundTripper(func(req *http.Request) *http.Response {
			assert.Equal(t, http.MethodPost, req.Method)
			assert.Equal(t, "https://api.stripe.com/v1/checkout/sessions", req.URL.String())

			user, _, ok := req.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, apiKey, user)

			body, err := io.ReadAll(req.Body)
			require.NoError(t, err)
			captured, err = url.ParseQuery(string(body))
			require.NoError(t, err)

			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(bytes.NewBufferString(respBody)),
				Header:     make(http.Header),
			}
		})

		session, err := gw.CreateCheckoutSession(context.Background(), checkoutParams())
		require.NoError(t, err)
		assert.Equal(t, "cs_test_123", session.ID)
		assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_123", session.URL)

		assert.Equal(t, "payment", captured.Get("mode"))
		assert.Equal(t, "vnd", captured.Get("line_items[0][price_data][currency]"))
		assert.Equal(t, "Round Neck Tee", captured.Get("line_items[0][price_data][product_data][name]"))
		assert.Equal(t, "25000000", captured.Get("line_items[0][price_data][unit_amount]"))
		assert.Equal(t, "2", captured.Get("line_items[0][quantity]"))
		assert.Equal(t, "Delivery Charges", captured.Get("line_items[1][price_data][product_data][name]"))
		assert.Equal(t, "1", captured.Get("line_items[1][quantity]"))
		assert.Contains(t, captured.Get("success_url"), "success=true")
		assert.Contains(t, captured.Get("cancel_url"), "success=false")
	})

	t.Run("StripeError", func(t *testing.T) {
		respBody := `{"error":{"type":"invalid_request_error","message":"Invalid currency"}}`

		gw.httpClient.Transport = MockRoundTripper(func(req *http.Request) *http.Response {
			return &http.Response{
				StatusCode: http.StatusBadRequest,
				Body:       io.NopCloser(bytes.NewBufferString(respBody)),
				Header:     make(http.Header),
			}
		})

		session, err := gw.CreateCheckoutSession(context.Background(), checkoutParams())
		assert.Nil(t, session)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid currency")
	})

	t.Run("TransportError", func(t *testing.T) {
		gw.httpClient.Transport = MockRoundTripperWithError(func(req *http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		})

		session, err := gw.CreateCheckoutSession(context.Background(), checkoutParams())
		assert.Nil(t, session)
		assert.Error(t, err)
	})
}
