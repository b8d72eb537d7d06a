package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

// fakeGHL serves the marketplace token endpoint and the API calls made
// during and after the install callback.
func fakeGHL(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/oauth/token":
			if err := r.ParseForm(); err != nil {
				t.Errorf("parse token form: %v", err)
			}
			if r.PostForm.Get("code") != "good-code" {
				http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]interface{}{
				"access_token":  "access-1",
				"refresh_token": "refresh-1",
				"token_type":    "Bearer",
				"expires_in":    3600,
				"scope":         "products.readonly products.write",
				"locationId":    "loc1",
				"companyId":     "comp1",
				"userId":        "user1",
			})
		case r.URL.Path == "/locations/loc1":
			if got := r.Header.Get("Authorization"); got != "Bearer access-1" {
				t.Errorf("expected bearer token, got %q", got)
			}
			json.NewEncoder(w).Encode(map[string]interface{}{
				"location": map[string]string{"id": "loc1", "name": "Acme Plumbing"},
			})
		case r.URL.Path == "/products/" && r.Method == http.MethodGet:
			json.NewEncoder(w).Encode(map[string]interface{}{
				"products": []map[string]string{{"_id": "prod1", "name": "Drain cleaning", "locationId": "loc1"}},
			})
		case r.URL.Path == "/products/" && r.Method == http.MethodPost:
			json.NewEncoder(w).Encode(map[string]string{"_id": "prod2", "locationId": "loc1"})
		case strings.HasSuffix(r.URL.Path, "/price"):
			json.NewEncoder(w).Encode(map[string]string{"_id": "price1"})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newGHLTestApp(t *testing.T) (*App, *httptest.Server) {
	t.Helper()
	ghlSrv := fakeGHL(t)
	app, srv := newTestApp(t, func(c *Config) {
		c.GHLClientID = "client-id"
		c.GHLClientSecret = "client-secret"
		c.GHLAPIBase = ghlSrv.URL
	})
	app.GHLOAuth.Endpoint.AuthURL = ghlSrv.URL + "/oauth/chooselocation"
	app.GHLOAuth.Endpoint.TokenURL = ghlSrv.URL + "/oauth/token"
	app.GHLOAuth.RedirectURL = srv.URL + "/api/oauth/ghl/callback"
	return app, srv
}

// startOAuth follows the install redirect and returns the issued state.
func startOAuth(t *testing.T, c *testClient) string {
	t.Helper()
	resp := c.do(http.MethodGet, "/api/oauth/ghl/start", nil)
	expectStatus(t, resp, http.StatusTemporaryRedirect)
	resp.Body.Close()

	loc, err := url.Parse(resp.Header.Get("Location"))
	if err != nil {
		t.Fatalf("parse redirect: %v", err)
	}
	if loc.Query().Get("client_id") != "client-id" {
		t.Errorf("expected client_id in redirect, got %s", loc)
	}
	state := loc.Query().Get("state")
	if state == "" {
		t.Fatal("expected state in redirect")
	}
	return state
}

// callbackError runs the callback and returns the error code it redirects
// with.
func callbackError(t *testing.T, c *testClient, query url.Values) string {
	t.Helper()
	resp := c.do(http.MethodGet, "/api/oauth/ghl/callback?"+query.Encode(), nil)
	expectStatus(t, resp, http.StatusSeeOther)
	resp.Body.Close()

	loc, err := url.Parse(resp.Header.Get("Location"))
	if err != nil {
		t.Fatalf("parse redirect: %v", err)
	}
	if loc.Path != "/oauth/error" {
		t.Fatalf("expected redirect to /oauth/error, got %s", loc)
	}
	return loc.Query().Get("code")
}

func TestGHLInstallFlow(t *testing.T) {
	_, srv := newGHLTestApp(t)
	c := newTestClient(t, srv)

	state := startOAuth(t, c)
	resp := c.do(http.MethodGet, "/api/oauth/ghl/callback?"+url.Values{"code": {"good-code"}, "state": {state}}.Encode(), nil)
	expectStatus(t, resp, http.StatusSeeOther)
	resp.Body.Close()
	if got := resp.Header.Get("Location"); got != "/oauth/success?provider=ghl" {
		t.Fatalf("unexpected redirect %q", got)
	}

	resp = c.do(http.MethodGet, "/oauth/success?provider=ghl", nil)
	expectStatus(t, resp, http.StatusOK)
	if body := readBody(t, resp); !strings.Contains(body, "Acme Plumbing") {
		t.Error("expected account name on the success page")
	}

	// The callback bound the browser to the installed location
	var status ConnectionStatus
	c.doJSON(http.MethodGet, "/api/oauth/ghl/status", nil, http.StatusOK, &status)
	if !status.Connected || !status.Configured {
		t.Fatalf("expected connected status, got %+v", status)
	}
	if status.Connection.AccountName != "Acme Plumbing" || status.Connection.CompanyID != "comp1" {
		t.Errorf("unexpected connection %+v", status.Connection)
	}

	var products []map[string]interface{}
	c.doJSON(http.MethodGet, "/api/ghl/products", nil, http.StatusOK, &products)
	if len(products) != 1 || products[0]["name"] != "Drain cleaning" {
		t.Errorf("unexpected products %v", products)
	}
}

func TestGHLCallbackErrors(t *testing.T) {
	_, srv := newGHLTestApp(t)

	t.Run("access denied", func(t *testing.T) {
		c := newTestClient(t, srv)
		startOAuth(t, c)
		code := callbackError(t, c, url.Values{"error": {"access_denied"}})
		if code != OAuthErrAccessDenied {
			t.Errorf("expected %s, got %s", OAuthErrAccessDenied, code)
		}
	})

	t.Run("provider error", func(t *testing.T) {
		c := newTestClient(t, srv)
		startOAuth(t, c)
		code := callbackError(t, c, url.Values{"error": {"server_error"}})
		if code != OAuthErrCallback {
			t.Errorf("expected %s, got %s", OAuthErrCallback, code)
		}
	})

	t.Run("state mismatch", func(t *testing.T) {
		c := newTestClient(t, srv)
		startOAuth(t, c)
		code := callbackError(t, c, url.Values{"code": {"good-code"}, "state": {"forged"}})
		if code != OAuthErrCallback {
			t.Errorf("expected %s, got %s", OAuthErrCallback, code)
		}
	})

	t.Run("state is single use", func(t *testing.T) {
		c := newTestClient(t, srv)
		state := startOAuth(t, c)
		callbackError(t, c, url.Values{"state": {state}})
		code := callbackError(t, c, url.Values{"code": {"good-code"}, "state": {state}})
		if code != OAuthErrCallback {
			t.Errorf("expected replayed state to fail with %s, got %s", OAuthErrCallback, code)
		}
	})

	t.Run("no code", func(t *testing.T) {
		c := newTestClient(t, srv)
		state := startOAuth(t, c)
		code := callbackError(t, c, url.Values{"state": {state}})
		if code != OAuthErrNoCode {
			t.Errorf("expected %s, got %s", OAuthErrNoCode, code)
		}
	})

	t.Run("token exchange", func(t *testing.T) {
		c := newTestClient(t, srv)
		state := startOAuth(t, c)
		code := callbackError(t, c, url.Values{"code": {"bad-code"}, "state": {state}})
		if code != OAuthErrTokenExchange {
			t.Errorf("expected %s, got %s", OAuthErrTokenExchange, code)
		}
	})
}

func TestOAuthErrorPage(t *testing.T) {
	_, srv := newTestApp(t)
	c := newTestClient(t, srv)

	tests := []struct {
		code     string
		message  string
		retryURL string
	}{
		{OAuthErrAccessDenied, oauthErrorMessages[OAuthErrAccessDenied], "/api/oauth/ghl/start"},
		{OAuthErrNoCode, oauthErrorMessages[OAuthErrNoCode], "/api/oauth/ghl/start"},
		{"something_new", oauthErrorMessages[OAuthErrCallback], "/api/oauth/ghl/start"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			resp := c.do(http.MethodGet, "/oauth/error?"+url.Values{"code": {tt.code}}.Encode(), nil)
			expectStatus(t, resp, http.StatusOK)
			body := readBody(t, resp)
			if !strings.Contains(body, tt.message) {
				t.Errorf("expected message %q in page", tt.message)
			}
			if !strings.Contains(body, tt.retryURL) {
				t.Errorf("expected retry link %q in page", tt.retryURL)
			}
		})
	}

	resp := c.do(http.MethodGet, "/oauth/error?code=user_info_failed&provider=google_drive", nil)
	expectStatus(t, resp, http.StatusOK)
	if body := readBody(t, resp); !strings.Contains(body, "/api/google-drive/connect") {
		t.Error("expected drive retry link")
	}
}

func TestGHLNotConfigured(t *testing.T) {
	_, srv := newTestApp(t)
	c := newTestClient(t, srv)

	resp := c.do(http.MethodGet, "/api/oauth/ghl/start", nil)
	expectStatus(t, resp, http.StatusServiceUnavailable)
	resp.Body.Close()

	c.login("loc1")
	var status ConnectionStatus
	c.doJSON(http.MethodGet, "/api/oauth/ghl/status", nil, http.StatusOK, &status)
	if status.Connected || status.Configured {
		t.Errorf("expected unconfigured status, got %+v", status)
	}
}

func TestGHLProductsRequireConnection(t *testing.T) {
	_, srv := newGHLTestApp(t)
	c := newTestClient(t, srv)
	c.login("loc1")

	resp := c.do(http.MethodGet, "/api/ghl/products", nil)
	expectStatus(t, resp, http.StatusPreconditionFailed)
	resp.Body.Close()
}
