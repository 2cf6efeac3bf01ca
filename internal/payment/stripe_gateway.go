package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"backend/internal/logger"
)

const stripeBaseURL = "https://api.stripe.com"

type stripeGateway struct {
	apiKey     string
	httpClient *http.Client
}

// NewStripeGateway builds a Gateway over the Stripe Checkout Sessions
// API.
func NewStripeGateway(apiKey string) Gateway {
	if apiKey == "" {
		logger.L().Warn("Stripe API key is empty")
	}

	return &stripeGateway{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type stripeSessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type stripeErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// CreateCheckoutSession requests a hosted payment page for the given
// line items and returns its redirect URL.
func (s *stripeGateway) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error) {
	log := logger.L().With(
		zap.String("reference", params.Reference),
		zap.Int("line_items", len(params.Items)),
	)

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	if params.Reference != "" {
		form.Set("client_reference_id", params.Reference)
	}

	for i, item := range params.Items {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[price_data][currency]", params.Currency)
		form.Set(prefix+"[price_data][product_data][name]", item.Name)
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(item.UnitAmount, 10))
		form.Set(prefix+"[quantity]", strconv.FormatInt(item.Quantity, 10))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, stripeBaseURL+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		log.Error("failed building checkout session request", zap.Error(err))
		return nil, err
	}

	req.SetBasicAuth(s.apiKey, "")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Error("stripe request failed", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("failed reading stripe response", zap.Error(err))
		return nil, fmt.Errorf("failed to read stripe response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var stripeErr stripeErrorResponse
		if json.Unmarshal(bodyBytes, &stripeErr) == nil && stripeErr.Error.Message != "" {
			log.Error("stripe returned error",
				zap.Int("status", resp.StatusCode),
				zap.String("type", stripeErr.Error.Type),
				zap.String("message", stripeErr.Error.Message),
			)
			return nil, fmt.Errorf("stripe error: %s", stripeErr.Error.Message)
		}
		log.Error("stripe returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", bodyBytes),
		)
		return nil, fmt.Errorf("stripe error: %s", string(bodyBytes))
	}

	var session stripeSessionResponse
	if err := json.Unmarshal(bodyBytes, &session); err != nil {
		log.Error("failed decoding stripe response", zap.Error(err))
		return nil, err
	}

	log.Info("checkout session created", zap.String("session_id", session.ID))

	return &CheckoutSession{
		ID:  session.ID,
		URL: session.URL,
	}, nil
}
