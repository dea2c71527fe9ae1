package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"buywidget/internal/domain"
)

func storefront(t *testing.T, handler http.HandlerFunc) (*Client, Endpoint) {
	t.Helper()
	srv := httptest.NewTLSServer(handler)
	t.Cleanup(srv.Close)
	ep := Endpoint{
		Domain:      strings.TrimPrefix(srv.URL, "https://"),
		APIVersion:  "2024-01",
		AccessToken: "public-token",
	}
	return NewClient(srv.Client()), ep
}

func TestCreateSession_SendsCartCreate(t *testing.T) {
	var got graphQLRequest
	client, ep := storefront(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/2024-01/graphql.json" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-Shopify-Storefront-Access-Token") != "public-token" {
			t.Errorf("missing access token header")
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected content type %q", r.Header.Get("Content-Type"))
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_, _ = w.Write([]byte(`{"data":{"cartCreate":{"cart":{"id":"c1","checkoutUrl":"https://shop.example.com/cart/c/abc?key=1"},"userErrors":[]}}}`))
	})

	url, err := client.CreateSession(context.Background(), ep, []Line{{Quantity: 2, MerchandiseID: "v1"}, {Quantity: 1, MerchandiseID: "v2"}})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if url != "https://shop.example.com/cart/c/abc?key=1" {
		t.Fatalf("unexpected url %q", url)
	}
	if !strings.Contains(got.Query, "cartCreate") {
		t.Fatalf("expected cartCreate mutation, got %q", got.Query)
	}
	input := got.Variables["input"].(map[string]any)
	lines := input["lines"].([]any)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %v", lines)
	}
	first := lines[0].(map[string]any)
	if first["merchandiseId"] != "v1" || first["quantity"].(float64) != 2 {
		t.Fatalf("unexpected first line %v", first)
	}
}

func TestCreateSession_UserErrors(t *testing.T) {
	client, ep := storefront(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"cartCreate":{"cart":null,"userErrors":[{"field":["input","lines"],"message":"Out of stock"},{"field":null,"message":"Limit reached"}]}}}`))
	})
	_, err := client.CreateSession(context.Background(), ep, []Line{{Quantity: 1, MerchandiseID: "v1"}})
	var userErr *domain.CheckoutUserError
	if !errors.As(err, &userErr) {
		t.Fatalf("expected user error, got %v", err)
	}
	if userErr.Error() != "Out of stock, Limit reached" {
		t.Fatalf("unexpected message %q", userErr.Error())
	}
}

func TestCreateSession_NoCheckoutURL(t *testing.T) {
	client, ep := storefront(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"cartCreate":{"cart":{"id":"c1","checkoutUrl":""},"userErrors":[]}}}`))
	})
	_, err := client.CreateSession(context.Background(), ep, nil)
	if !errors.Is(err, domain.ErrNoCheckoutURL) {
		t.Fatalf("expected ErrNoCheckoutURL, got %v", err)
	}
}

func TestCreateSession_MalformedBody(t *testing.T) {
	client, ep := storefront(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	})
	_, err := client.CreateSession(context.Background(), ep, nil)
	if err == nil || errors.Is(err, domain.ErrNoCheckoutURL) {
		t.Fatalf("expected decode error, got %v", err)
	}
}
