// Package stripe is a client for the two Checkout endpoints this service
// needs: create a session and retrieve one to verify payment.
package stripe

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
)

type Client struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

// CheckoutParams describes a single fixed-amount session. Email and
// WebsiteURL go into session metadata so the pairing can be recovered at
// report time without local storage.
type CheckoutParams struct {
	Email       string
	WebsiteURL  string
	AmountCents int
	Currency    string
	ProductName string
	SuccessURL  string
	CancelURL   string
}

// CheckoutSession is the subset of the session object this service reads.
type CheckoutSession struct {
	ID            string            `json:"id"`
	URL           string            `json:"url"`
	PaymentStatus string            `json:"payment_status"`
	CustomerEmail string            `json:"customer_email"`
	Metadata      map[string]string `json:"metadata"`
}

const PaymentStatusPaid = "paid"

func NewClient(secretKey, baseURL string, timeout time.Duration) *Client {
	return &Client{
		secretKey:  secretKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CreateCheckoutSession creates one session per call. No idempotency key is
// sent; a repeated click creates a new session.
func (c *Client) CreateCheckoutSession(ctx context.Context, params *CheckoutParams) (*CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	form.Set("customer_email", params.Email)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", params.Currency)
	form.Set("line_items[0][price_data][unit_amount]", strconv.Itoa(params.AmountCents))
	form.Set("line_items[0][price_data][product_data][name]", params.ProductName)
	form.Set("metadata[email]", params.Email)
	form.Set("metadata[website_url]", params.WebsiteURL)

	endpoint := fmt.Sprintf("%s/checkout/sessions", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	return c.doSession(req)
}

// GetCheckoutSession retrieves a session to verify its payment status.
func (c *Client) GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	endpoint := fmt.Sprintf("%s/checkout/sessions/%s", c.baseURL, url.PathEscape(sessionID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	return c.doSession(req)
}

func (c *Client) doSession(req *http.Request) (*CheckoutSession, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var stripeErr struct {
			Error struct {
				Message string `json:"message"`
				Type    string `json:"type"`
			} `json:"error"`
		}
		if json.Unmarshal(body, &stripeErr) == nil && stripeErr.Error.Message != "" {
			return nil, fmt.Errorf("stripe %s (status %d): %s", stripeErr.Error.Type, resp.StatusCode, stripeErr.Error.Message)
		}
		return nil, fmt.Errorf("stripe request failed (status %d): %s", resp.StatusCode, string(body))
	}

	var session CheckoutSession
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}
