package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Client wraps the payment processor's REST API. Only the two calls the app
// needs are implemented: create a customer and create a hosted checkout
// session.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

const defaultBaseURL = "https://api.stripe.com/v1"

// NewClient creates a billing client from PAYMENTS_API_KEY.
// Returns nil, nil if the key is not set (billing routes then 503).
func NewClient() (*Client, error) {
	key := os.Getenv("PAYMENTS_API_KEY")
	if key == "" {
		return nil, nil
	}
	base := os.Getenv("PAYMENTS_API_URL")
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		apiKey:  key,
		baseURL: base,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// CheckoutSession is the subset of the processor's response the app uses.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreateCustomer registers the user with the processor and returns the
// processor-side customer id.
func (c *Client) CreateCustomer(ctx context.Context, userID, username string) (string, error) {
	form := url.Values{}
	form.Set("metadata[user_id]", userID)
	form.Set("description", username)

	var out struct {
		ID string `json:"id"`
	}
	if err := c.post(ctx, "/customers", form, &out); err != nil {
		return "", fmt.Errorf("create customer: %w", err)
	}
	return out.ID, nil
}

// CreateCheckoutSession opens a hosted checkout page for the given customer
// and price, returning the redirect URL.
func (c *Client) CreateCheckoutSession(ctx context.Context, customerID, priceID, successURL, cancelURL string) (*CheckoutSession, error) {
	form := url.Values{}
	form.Set("customer", customerID)
	form.Set("mode", "subscription")
	form.Set("line_items[0][price]", priceID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("success_url", successURL)
	form.Set("cancel_url", cancelURL)

	var out CheckoutSession
	if err := c.post(ctx, "/checkout/sessions", form, &out); err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, form url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("processor request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("processor returned HTTP %d: %s", resp.StatusCode, apiErr.Error.Message)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
