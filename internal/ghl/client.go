package ghl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the LeadConnector API host.
const DefaultBaseURL = "https://services.leadconnectorhq.com"

// APIVersion is sent as the Version header on every request.
const APIVersion = "2021-07-28"

// Client calls the GHL API on behalf of one location. The HTTP client is
// expected to add the bearer token, as oauth2.Config.Client does.
type Client struct {
	http    *http.Client
	baseURL string
}

// NewClient creates a client. An empty baseURL selects DefaultBaseURL.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{http: httpClient, baseURL: strings.TrimRight(baseURL, "/")}
}

// APIError is a non-2xx response from GHL.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ghl api returned status %d: %s", e.StatusCode, e.Message)
}

// Location is the subset of a GHL location the app uses.
type Location struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Website   string `json:"website"`
	Timezone  string `json:"timezone"`
	CompanyID string `json:"companyId"`
}

// Product is a GHL store product backing a listing.
type Product struct {
	ID               string `json:"_id,omitempty"`
	LocationID       string `json:"locationId"`
	Name             string `json:"name"`
	Description      string `json:"description,omitempty"`
	ProductType      string `json:"productType"`
	Image            string `json:"image,omitempty"`
	AvailableInStore bool   `json:"availableInStore"`
	Slug             string `json:"slug,omitempty"`
}

// Price is a product price in the location's currency.
type Price struct {
	ID         string  `json:"_id,omitempty"`
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Currency   string  `json:"currency"`
	Amount     float64 `json:"amount"`
	LocationID string  `json:"locationId"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Version", APIVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ghl request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode ghl response: %w", err)
	}
	return nil
}

// GetLocation fetches a location by id.
func (c *Client) GetLocation(ctx context.Context, locationID string) (*Location, error) {
	var resp struct {
		Location Location `json:"location"`
	}
	if err := c.do(ctx, http.MethodGet, "/locations/"+url.PathEscape(locationID), nil, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Location.ID == "" {
		resp.Location.ID = locationID
	}
	return &resp.Location, nil
}

// ListProducts returns the store products of a location.
func (c *Client) ListProducts(ctx context.Context, locationID string, limit int) ([]Product, error) {
	q := url.Values{"locationId": {locationID}}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	var resp struct {
		Products []Product `json:"products"`
	}
	if err := c.do(ctx, http.MethodGet, "/products/", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// CreateProduct creates a product and returns it with its id.
func (c *Client) CreateProduct(ctx context.Context, p Product) (*Product, error) {
	if p.ProductType == "" {
		p.ProductType = "DIGITAL"
	}
	var out Product
	if err := c.do(ctx, http.MethodPost, "/products/", nil, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProduct replaces the editable fields of an existing product.
func (c *Client) UpdateProduct(ctx context.Context, productID string, p Product) (*Product, error) {
	if p.ProductType == "" {
		p.ProductType = "DIGITAL"
	}
	var out Product
	if err := c.do(ctx, http.MethodPut, "/products/"+url.PathEscape(productID), nil, p, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		out.ID = productID
	}
	return &out, nil
}

// DeleteProduct removes a product.
func (c *Client) DeleteProduct(ctx context.Context, locationID, productID string) error {
	q := url.Values{"locationId": {locationID}}
	return c.do(ctx, http.MethodDelete, "/products/"+url.PathEscape(productID), q, nil, nil)
}

// CreatePrice attaches a one-time price to a product.
func (c *Client) CreatePrice(ctx context.Context, productID string, p Price) (*Price, error) {
	if p.Type == "" {
		p.Type = "one_time"
	}
	if p.Currency == "" {
		p.Currency = "USD"
	}
	var out Price
	if err := c.do(ctx, http.MethodPost, "/products/"+url.PathEscape(productID)+"/price", nil, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
