package ghl

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/oauth2"
)

func TestGetLocation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/locations/loc1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Version") != APIVersion {
			t.Errorf("expected Version header %s, got %q", APIVersion, r.Header.Get("Version"))
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"location": map[string]string{"id": "loc1", "name": "Acme Plumbing"},
		})
	}))
	defer srv.Close()

	loc, err := NewClient(srv.Client(), srv.URL).GetLocation(t.Context(), "loc1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc.Name != "Acme Plumbing" {
		t.Errorf("expected Acme Plumbing, got %q", loc.Name)
	}
}

func TestCreateProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/products/" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var p Product
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if p.ProductType != "DIGITAL" {
			t.Errorf("expected default product type, got %q", p.ProductType)
		}
		p.ID = "prod_1"
		json.NewEncoder(w).Encode(p)
	}))
	defer srv.Close()

	p, err := NewClient(srv.Client(), srv.URL).CreateProduct(t.Context(), Product{LocationID: "loc1", Name: "Listing"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != "prod_1" {
		t.Errorf("expected prod_1, got %q", p.ID)
	}
}

func TestAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "token expired", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewClient(srv.Client(), srv.URL).ListProducts(t.Context(), "loc1", 10)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", apiErr.StatusCode)
	}
}

func TestIdentityFromToken(t *testing.T) {
	tok := (&oauth2.Token{AccessToken: "a"}).WithExtra(map[string]interface{}{
		"locationId": "loc1",
		"companyId":  "comp1",
		"userId":     "user1",
	})
	id, err := IdentityFromToken(tok)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.LocationID != "loc1" || id.CompanyID != "comp1" || id.UserID != "user1" {
		t.Errorf("unexpected identity %+v", id)
	}

	if _, err := IdentityFromToken(&oauth2.Token{AccessToken: "a"}); err == nil {
		t.Error("expected error without locationId")
	}
}

func TestOAuthConfig(t *testing.T) {
	if OAuthConfig("", "secret", "", nil) != nil {
		t.Error("expected nil config without client id")
	}
	cfg := OAuthConfig("id", "secret", "http://localhost/cb", nil)
	if cfg.Endpoint.AuthURL != AuthURL || len(cfg.Scopes) != len(DefaultScopes) {
		t.Errorf("unexpected config %+v", cfg)
	}
}
