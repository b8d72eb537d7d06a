package main

import (
	"net/http"
	"strings"
	"testing"

	"directoryEngine/internal/models"
)

func TestPublicFormRender(t *testing.T) {
	_, srv := newTestApp(t)
	c := newTestClient(t, srv)
	c.login("loc1")
	createDirectory(c, "Plumbers")

	public := newTestClient(t, srv)
	resp := public.do(http.MethodGet, "/form/loc1/Plumbers?listing=acme-42", nil)
	expectStatus(t, resp, http.StatusOK)
	body := readBody(t, resp)

	for _, want := range []string{"Plumbers", `data-meta="phone"`, `value="acme-42"`} {
		if !strings.Contains(body, want) {
			t.Errorf("expected form page to contain %q", want)
		}
	}
	if strings.Contains(body, srv.URL+"/form/") {
		t.Error("expected a relative submit URL")
	}
}

func TestPublicFormUnknownDirectory(t *testing.T) {
	_, srv := newTestApp(t)
	c := newTestClient(t, srv)

	resp := c.do(http.MethodGet, "/form/loc1/Nope", nil)
	expectStatus(t, resp, http.StatusNotFound)
	resp.Body.Close()
}

func TestPublicFormInactiveDirectory(t *testing.T) {
	_, srv := newTestApp(t)
	c := newTestClient(t, srv)
	c.login("loc1")
	dir := createDirectory(c, "Plumbers")

	inactive := false
	c.doJSON(http.MethodPut, "/api/directories/"+dir.ID, DirectoryUpdate{Active: &inactive}, http.StatusOK, nil)

	resp := newTestClient(t, srv).do(http.MethodGet, "/form/loc1/Plumbers", nil)
	expectStatus(t, resp, http.StatusNotFound)
	resp.Body.Close()
}

func TestPublicSubmissionReview(t *testing.T) {
	_, srv := newTestApp(t)
	admin := newTestClient(t, srv)
	admin.login("loc1")
	createDirectory(admin, "Plumbers")

	public := newTestClient(t, srv)
	var created map[string]string
	public.doJSON(http.MethodPost, "/form/loc1/Plumbers/submit", PublicSubmission{
		Title:       "Joe's Pipes",
		Description: "Emergency repairs",
		Price:       49,
		Metadata:    map[string]string{"phone": "555-0100", "listing": "acme-42"},
	}, http.StatusCreated, &created)
	if created["id"] == "" || created["status"] != string(models.SyncPending) {
		t.Fatalf("unexpected submission response %v", created)
	}

	// Pending submissions are not published listings yet
	var pending []models.Listing
	admin.doJSON(http.MethodGet, "/api/submissions", nil, http.StatusOK, &pending)
	if len(pending) != 1 {
		t.Fatalf("expected one pending submission, got %d", len(pending))
	}
	sub := pending[0]
	if sub.Active || sub.DirectoryName != "Plumbers" {
		t.Errorf("expected inactive listing in Plumbers, got %+v", sub)
	}
	if sub.Metadata["phone"] != "555-0100" || sub.Metadata["listing"] != "acme-42" {
		t.Errorf("unexpected metadata %v", sub.Metadata)
	}
	if !strings.HasPrefix(sub.Slug, "joe-s-pipes-") {
		t.Errorf("unexpected slug %q", sub.Slug)
	}

	var approved models.Listing
	admin.doJSON(http.MethodPost, "/api/submissions/"+sub.ID+"/review",
		ReviewRequest{Action: ReviewApprove}, http.StatusOK, &approved)
	if !approved.Active {
		t.Error("expected approved listing to be active")
	}

	admin.doJSON(http.MethodGet, "/api/submissions", nil, http.StatusOK, &pending)
	if len(pending) != 0 {
		t.Errorf("expected no pending submissions, got %d", len(pending))
	}

	resp := admin.do(http.MethodPost, "/api/submissions/"+sub.ID+"/review", ReviewRequest{Action: ReviewReject})
	expectStatus(t, resp, http.StatusConflict)
	resp.Body.Close()
}

func TestPublicSubmissionReject(t *testing.T) {
	_, srv := newTestApp(t)
	admin := newTestClient(t, srv)
	admin.login("loc1")
	createDirectory(admin, "Plumbers")

	var created map[string]string
	newTestClient(t, srv).doJSON(http.MethodPost, "/form/loc1/Plumbers/submit",
		PublicSubmission{Title: "Spam"}, http.StatusCreated, &created)

	admin.doJSON(http.MethodPost, "/api/submissions/"+created["id"]+"/review",
		ReviewRequest{Action: "REJECT", Reason: "spam"}, http.StatusOK, nil)

	resp := admin.do(http.MethodGet, "/api/listings/"+created["id"], nil)
	expectStatus(t, resp, http.StatusNotFound)
	resp.Body.Close()

	resp = admin.do(http.MethodPost, "/api/submissions/"+created["id"]+"/review", ReviewRequest{Action: "publish"})
	expectStatus(t, resp, http.StatusNotFound)
	resp.Body.Close()
}

func TestPublicSubmissionRejectsBadInput(t *testing.T) {
	_, srv := newTestApp(t)
	admin := newTestClient(t, srv)
	admin.login("loc1")
	createDirectory(admin, "Plumbers")

	tests := []struct {
		name string
		sub  PublicSubmission
	}{
		{"missing title", PublicSubmission{}},
		{"script in title", PublicSubmission{Title: "<script>alert(1)</script>"}},
		{"handler in description", PublicSubmission{Title: "Pipes", Description: `<img src=x onerror="x()">`}},
		{"unknown metadata", PublicSubmission{Title: "Pipes", Metadata: map[string]string{"fax": "555"}}},
		{"control characters", PublicSubmission{Title: "Pipes\x00"}},
	}

	public := newTestClient(t, srv)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := public.do(http.MethodPost, "/form/loc1/Plumbers/submit", tt.sub)
			expectStatus(t, resp, http.StatusBadRequest)
			resp.Body.Close()
		})
	}

	var pending []models.Listing
	admin.doJSON(http.MethodGet, "/api/submissions", nil, http.StatusOK, &pending)
	if len(pending) != 0 {
		t.Errorf("expected rejected input to store nothing, got %d", len(pending))
	}
}

func TestPublicSubmissionRateLimited(t *testing.T) {
	_, srv := newTestApp(t, func(c *Config) {
		c.FormRatePerMinute = 1
		c.FormRateBurst = 1
	})
	admin := newTestClient(t, srv)
	admin.login("loc1")
	createDirectory(admin, "Plumbers")

	public := newTestClient(t, srv)
	public.doJSON(http.MethodPost, "/form/loc1/Plumbers/submit", PublicSubmission{Title: "First"}, http.StatusCreated, nil)

	resp := public.do(http.MethodPost, "/form/loc1/Plumbers/submit", PublicSubmission{Title: "Second"})
	expectStatus(t, resp, http.StatusTooManyRequests)
	if resp.Header.Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
	resp.Body.Close()
}

func TestPublicSubmissionPreflight(t *testing.T) {
	_, srv := newTestApp(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/form/loc1/Plumbers/submit", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Origin", "https://store.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")

	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected wildcard origin, got %q", got)
	}
}
