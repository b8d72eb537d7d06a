package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"directoryEngine/internal/models"
	"directoryEngine/internal/wizard"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// newTestApp starts the full router against a fresh database. Options run
// before the router is built.
func newTestApp(t *testing.T, opts ...func(*Config)) (*App, *httptest.Server) {
	t.Helper()

	cfg := DefaultConfig()
	cfg.SessionSecret = testSecret
	cfg.DatabasePath = filepath.Join(t.TempDir(), "test.db")
	for _, opt := range opts {
		opt(cfg)
	}

	app, err := NewApp(t.Context(), cfg, NewLogger("ERROR", io.Discard))
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	srv := httptest.NewServer(app.Routes())
	app.Config.BaseURL = srv.URL

	t.Cleanup(func() {
		srv.Close()
		app.Close()
	})
	return app, srv
}

// testClient keeps cookies between requests and never follows redirects.
type testClient struct {
	t    *testing.T
	base string
	http *http.Client
	csrf string
}

func newTestClient(t *testing.T, srv *httptest.Server) *testClient {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return &testClient{
		t:    t,
		base: srv.URL,
		http: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// login binds the client to a location and fetches a CSRF token.
func (c *testClient) login(locationID string) {
	c.t.Helper()
	resp := c.do(http.MethodPost, "/api/dev/session", map[string]string{"locationId": locationID})
	expectStatus(c.t, resp, http.StatusOK)
	resp.Body.Close()

	var tok struct {
		Token string `json:"token"`
	}
	resp = c.do(http.MethodGet, "/api/csrf-token", nil)
	expectStatus(c.t, resp, http.StatusOK)
	decodeBody(c.t, resp, &tok)
	if tok.Token == "" {
		c.t.Fatal("expected a CSRF token")
	}
	c.csrf = tok.Token
}

func (c *testClient) do(method, path string, body interface{}) *http.Response {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, c.base+path, reader)
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.csrf != "" {
		req.Header.Set("X-CSRF-Token", c.csrf)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

// doJSON sends a request, checks the status and decodes the reply into out
// when out is non-nil.
func (c *testClient) doJSON(method, path string, body interface{}, status int, out interface{}) {
	c.t.Helper()
	resp := c.do(method, path, body)
	expectStatus(c.t, resp, status)
	if out == nil {
		resp.Body.Close()
		return
	}
	decodeBody(c.t, resp, out)
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		t.Fatalf("%s %s: expected status %d, got %d: %s",
			resp.Request.Method, resp.Request.URL.Path, want, resp.StatusCode, strings.TrimSpace(string(body)))
	}
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode %s: %v", resp.Request.URL.Path, err)
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(data)
}

// directoryRequest is a valid popup directory with a phone metadata field.
func directoryRequest(name string) wizard.CreateDirectoryRequest {
	cfg := models.DefaultDirectoryConfig()
	cfg.FormEmbedURL = "https://forms.example.com/widget/form/abc"
	cfg.ShowMetadata = true
	cfg.MetadataFields = []string{"phone"}
	return wizard.CreateDirectoryRequest{
		DirectoryName: name,
		Description:   "Local trades",
		Config:        cfg,
		Styling:       models.DefaultStyling(),
	}
}

func createDirectory(c *testClient, name string) models.Directory {
	c.t.Helper()
	var dir models.Directory
	c.doJSON(http.MethodPost, "/api/directories", directoryRequest(name), http.StatusCreated, &dir)
	return dir
}

func TestHealth(t *testing.T) {
	_, srv := newTestApp(t)
	c := newTestClient(t, srv)

	var body map[string]string
	c.doJSON(http.MethodGet, "/healthz", nil, http.StatusOK, &body)
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %v", body)
	}
}

func TestAPIRequiresSession(t *testing.T) {
	_, srv := newTestApp(t)
	c := newTestClient(t, srv)

	resp := c.do(http.MethodGet, "/api/directories", nil)
	expectStatus(t, resp, http.StatusUnauthorized)
	resp.Body.Close()
}

func TestAPIRequiresCSRFToken(t *testing.T) {
	_, srv := newTestApp(t)
	c := newTestClient(t, srv)
	c.login("loc1")

	c.csrf = ""
	resp := c.do(http.MethodPost, "/api/directories", directoryRequest("Plumbers"))
	expectStatus(t, resp, http.StatusForbidden)
	resp.Body.Close()

	// Safe methods pass without the header
	c.doJSON(http.MethodGet, "/api/directories", nil, http.StatusOK, nil)
}

func TestLogoutEndsSession(t *testing.T) {
	_, srv := newTestApp(t)
	c := newTestClient(t, srv)
	c.login("loc1")

	c.doJSON(http.MethodPost, "/api/logout", nil, http.StatusOK, nil)
	resp := c.do(http.MethodGet, "/api/directories", nil)
	expectStatus(t, resp, http.StatusUnauthorized)
	resp.Body.Close()
}

func TestDevRoutesDisabledInProduction(t *testing.T) {
	_, srv := newTestApp(t, func(c *Config) { c.Environment = "production" })
	c := newTestClient(t, srv)

	resp := c.do(http.MethodPost, "/api/dev/session", map[string]string{"locationId": "loc1"})
	if resp.StatusCode == http.StatusOK {
		t.Error("expected dev session route to be unavailable in production")
	}
	resp.Body.Close()
}
