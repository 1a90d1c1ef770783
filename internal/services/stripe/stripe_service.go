package stripe

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// StripeService creates hosted Checkout sessions. Only session creation is
// done here; capture and webhooks are handled by Stripe's side and the
// payment confirmation endpoint.
type StripeService struct {
	Client    *http.Client
	SecretKey string
	BaseURL   string
}

func NewStripeService(secretKey string) *StripeService {
	return &StripeService{
		Client:    &http.Client{Timeout: 15 * time.Second},
		SecretKey: secretKey,
		BaseURL:   "https://api.stripe.com",
	}
}

type CheckoutSession struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	PaymentStatus string `json:"payment_status"`
	AmountTotal   int64  `json:"amount_total"`
}

type stripeError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// CreateCheckoutSession opens a payment session for one booking. amount is in
// the currency's smallest unit (cents).
func (s *StripeService) CreateCheckoutSession(
	bookingRef string,
	itemName string,
	amount int64,
	customerEmail string,
	successURL, cancelURL string,
) (*CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("client_reference_id", bookingRef)
	form.Set("customer_email", customerEmail)
	form.Set("success_url", successURL)
	form.Set("cancel_url", cancelURL)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", "usd")
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(amount, 10))
	form.Set("line_items[0][price_data][product_data][name]", itemName)

	req, err := http.NewRequest(http.MethodPost,
		s.BaseURL+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.SecretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		var se stripeError
		if err := json.Unmarshal(body, &se); err == nil && se.Error.Message != "" {
			return nil, fmt.Errorf("stripe: %s", se.Error.Message)
		}
		return nil, fmt.Errorf("stripe: unexpected status %d", resp.StatusCode)
	}

	var session CheckoutSession
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// GetCheckoutSession fetches a session to confirm its payment status after
// the customer returns from the hosted page.
func (s *StripeService) GetCheckoutSession(sessionID string) (*CheckoutSession, error) {
	req, err := http.NewRequest(http.MethodGet,
		s.BaseURL+"/v1/checkout/sessions/"+url.PathEscape(sessionID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.SecretKey)

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		var se stripeError
		if err := json.Unmarshal(body, &se); err == nil && se.Error.Message != "" {
			return nil, fmt.Errorf("stripe: %s", se.Error.Message)
		}
		return nil, fmt.Errorf("stripe: unexpected status %d", resp.StatusCode)
	}

	var session CheckoutSession
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}
