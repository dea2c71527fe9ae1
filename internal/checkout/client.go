// Package checkout creates storefront checkout sessions from the cart.
package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"buywidget/internal/domain"
)

const cartCreateMutation = `
mutation cartCreate($input: CartInput!) {
  cartCreate(input: $input) {
    cart { id checkoutUrl }
    userErrors { field message }
  }
}
`

// Line is one checkout request entry.
type Line struct {
	Quantity      int    `json:"quantity"`
	MerchandiseID string `json:"merchandiseId"`
}

// Endpoint identifies the storefront a session is created on.
type Endpoint struct {
	Domain      string
	APIVersion  string
	AccessToken string
}

func (e Endpoint) URL() string {
	return fmt.Sprintf("https://%s/api/%s/graphql.json", e.Domain, e.APIVersion)
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type cartCreateResponse struct {
	Data *struct {
		CartCreate *struct {
			Cart *struct {
				ID          string `json:"id"`
				CheckoutURL string `json:"checkoutUrl"`
			} `json:"cart"`
			UserErrors []struct {
				Field   json.RawMessage `json:"field"`
				Message string          `json:"message"`
			} `json:"userErrors"`
		} `json:"cartCreate"`
	} `json:"data"`
}

// Client talks to the Storefront GraphQL API.
type Client struct {
	http *http.Client
}

// NewClient wraps hc; nil means http.DefaultClient.
func NewClient(hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{http: hc}
}

// CreateSession issues a single cartCreate mutation and returns the checkout
// URL. Remote user errors come back as *domain.CheckoutUserError.
func (c *Client) CreateSession(ctx context.Context, ep Endpoint, lines []Line) (string, error) {
	body, err := json.Marshal(graphQLRequest{
		Query:     cartCreateMutation,
		Variables: map[string]any{"input": map[string]any{"lines": lines}},
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.URL(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Storefront-Access-Token", ep.AccessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("post cartCreate: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	var parsed cartCreateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}

	if parsed.Data == nil || parsed.Data.CartCreate == nil {
		return "", domain.ErrNoCheckoutURL
	}
	cc := parsed.Data.CartCreate
	if len(cc.UserErrors) > 0 {
		msgs := make([]string, 0, len(cc.UserErrors))
		for _, ue := range cc.UserErrors {
			msgs = append(msgs, ue.Message)
		}
		return "", &domain.CheckoutUserError{Messages: msgs}
	}
	if cc.Cart == nil || strings.TrimSpace(cc.Cart.CheckoutURL) == "" {
		return "", domain.ErrNoCheckoutURL
	}
	return cc.Cart.CheckoutURL, nil
}
