package main

import (
	"net/http"
	"strings"
	"testing"

	"directoryEngine/internal/models"
	"directoryEngine/internal/wizard"
	"github.com/gorilla/websocket"
)

func startWizard(c *testClient, variant string) WizardResponse {
	c.t.Helper()
	var resp WizardResponse
	c.doJSON(http.MethodPost, "/api/wizard?variant="+variant, nil, http.StatusCreated, &resp)
	return resp
}

func fieldValue(view wizard.View, key string) (string, bool) {
	for _, f := range view.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

func TestWizardNavigation(t *testing.T) {
	_, srv := newTestApp(t)
	c := newTestClient(t, srv)
	c.login("loc1")

	wiz := startWizard(c, wizard.VariantQuick)
	if wiz.Variant != wizard.VariantQuick || wiz.View.Index != 0 || !wiz.View.First {
		t.Fatalf("unexpected initial wizard %+v", wiz)
	}
	total := wiz.View.Total

	base := "/api/wizard/" + wiz.ID
	c.doJSON(http.MethodPost, base+"/prev", nil, http.StatusOK, &wiz)
	if wiz.View.Index != 0 {
		t.Errorf("expected prev on first slide to stay at 0, got %d", wiz.View.Index)
	}

	c.doJSON(http.MethodPost, base+"/next", nil, http.StatusOK, &wiz)
	if wiz.View.Index != 1 || wiz.View.Slide.Kind != wizard.KindAction {
		t.Errorf("expected action slide, got %+v", wiz.View.Slide)
	}

	c.doJSON(http.MethodPost, base+"/goto/99", nil, http.StatusOK, &wiz)
	if wiz.View.Index != total-1 || !wiz.View.Last {
		t.Errorf("expected goto past the end to clamp to %d, got %d", total-1, wiz.View.Index)
	}
	if wiz.View.Code == nil {
		t.Error("expected review slide to carry generated code")
	}
}

func TestWizardPatch(t *testing.T) {
	_, srv := newTestApp(t)
	c := newTestClient(t, srv)
	c.login("loc1")

	wiz := startWizard(c, wizard.VariantFull)
	base := "/api/wizard/" + wiz.ID

	c.doJSON(http.MethodPatch, base, map[string]interface{}{
		"directoryName":  "Plumbers",
		"showMetadata":   true,
		"metadataFields": []string{"phone", "email"},
	}, http.StatusOK, &wiz)
	if v, _ := fieldValue(wiz.View, "directoryName"); v != "Plumbers" {
		t.Errorf("expected patched directoryName, got %q", v)
	}

	// A bad key rejects the whole patch
	resp := c.do(http.MethodPatch, base, map[string]interface{}{
		"directoryName": "Changed",
		"nope":          "x",
	})
	expectStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close()

	c.doJSON(http.MethodGet, base, nil, http.StatusOK, &wiz)
	if v, _ := fieldValue(wiz.View, "directoryName"); v != "Plumbers" {
		t.Errorf("expected directoryName to survive a failed patch, got %q", v)
	}
}

func TestWizardSubmit(t *testing.T) {
	_, srv := newTestApp(t)
	c := newTestClient(t, srv)
	c.login("loc1")

	wiz := startWizard(c, wizard.VariantQuick)
	base := "/api/wizard/" + wiz.ID
	c.doJSON(http.MethodPatch, base, map[string]interface{}{
		"directoryName": "Plumbers",
		"formEmbedUrl":  `<iframe src="https://forms.example.com/f/1" width="500" height="700"></iframe>`,
	}, http.StatusOK, nil)
	c.doJSON(http.MethodPost, base+"/goto/3", nil, http.StatusOK, nil)

	var done WizardResponse
	c.doJSON(http.MethodPost, base+"/submit", nil, http.StatusCreated, &done)
	if !done.Done || done.Directory == nil {
		t.Fatalf("expected finished wizard with a directory, got %+v", done)
	}
	if done.Directory.DirectoryName != "Plumbers" || !done.Directory.Code.IsValid {
		t.Errorf("unexpected directory %+v", done.Directory)
	}
	if done.View.Index != 0 {
		t.Errorf("expected wizard to reset after submit, got index %d", done.View.Index)
	}

	var list []models.Directory
	c.doJSON(http.MethodGet, "/api/directories", nil, http.StatusOK, &list)
	if len(list) != 1 {
		t.Errorf("expected one stored directory, got %d", len(list))
	}
}

func TestWizardSubmitFailureKeepsState(t *testing.T) {
	_, srv := newTestApp(t)
	c := newTestClient(t, srv)
	c.login("loc1")
	createDirectory(c, "Plumbers")

	wiz := startWizard(c, wizard.VariantQuick)
	base := "/api/wizard/" + wiz.ID
	c.doJSON(http.MethodPatch, base, map[string]interface{}{
		"directoryName": "Plumbers",
		"formEmbedUrl":  "https://forms.example.com/f/1",
	}, http.StatusOK, nil)
	c.doJSON(http.MethodPost, base+"/goto/3", nil, http.StatusOK, nil)

	resp := c.do(http.MethodPost, base+"/submit", nil)
	expectStatus(t, resp, http.StatusConflict)
	resp.Body.Close()

	c.doJSON(http.MethodGet, base, nil, http.StatusOK, &wiz)
	if wiz.Done || wiz.View.Index != 3 {
		t.Errorf("expected wizard to stay on slide 3, got %+v", wiz.View)
	}
	c.doJSON(http.MethodPost, base+"/goto/0", nil, http.StatusOK, &wiz)
	if v, _ := fieldValue(wiz.View, "directoryName"); v != "Plumbers" {
		t.Errorf("expected entered name to be kept, got %q", v)
	}
}

func TestWizardSubmitValidation(t *testing.T) {
	_, srv := newTestApp(t)
	c := newTestClient(t, srv)
	c.login("loc1")

	wiz := startWizard(c, wizard.VariantQuick)
	resp := c.do(http.MethodPost, "/api/wizard/"+wiz.ID+"/submit", nil)
	expectStatus(t, resp, http.StatusBadRequest)

	var body struct {
		Field string `json:"field"`
	}
	decodeBody(t, resp, &body)
	if body.Field != "directoryName" {
		t.Errorf("expected field directoryName, got %q", body.Field)
	}
}

func TestWizardSubmitRequiresReviewSlide(t *testing.T) {
	_, srv := newTestApp(t)
	c := newTestClient(t, srv)
	c.login("loc1")

	wiz := startWizard(c, wizard.VariantQuick)
	base := "/api/wizard/" + wiz.ID
	c.doJSON(http.MethodPatch, base, map[string]interface{}{
		"directoryName": "Plumbers",
		"formEmbedUrl":  "https://forms.example.com/f/1",
	}, http.StatusOK, nil)

	resp := c.do(http.MethodPost, base+"/submit", nil)
	expectStatus(t, resp, http.StatusBadRequest)
	var body struct {
		Field string `json:"field"`
	}
	decodeBody(t, resp, &body)
	if body.Field != "review" {
		t.Errorf("expected field review, got %q", body.Field)
	}

	var list []models.Directory
	c.doJSON(http.MethodGet, "/api/directories", nil, http.StatusOK, &list)
	if len(list) != 0 {
		t.Errorf("expected nothing stored, got %d directories", len(list))
	}
}

func TestWizardOwnedByLocation(t *testing.T) {
	_, srv := newTestApp(t)
	owner := newTestClient(t, srv)
	owner.login("loc1")
	wiz := startWizard(owner, wizard.VariantFull)

	other := newTestClient(t, srv)
	other.login("loc2")
	resp := other.do(http.MethodGet, "/api/wizard/"+wiz.ID, nil)
	expectStatus(t, resp, http.StatusNotFound)
	resp.Body.Close()

	owner.doJSON(http.MethodDelete, "/api/wizard/"+wiz.ID, nil, http.StatusOK, nil)
	resp = owner.do(http.MethodGet, "/api/wizard/"+wiz.ID, nil)
	expectStatus(t, resp, http.StatusNotFound)
	resp.Body.Close()
}

func TestWizardLive(t *testing.T) {
	_, srv := newTestApp(t)
	c := newTestClient(t, srv)
	c.login("loc1")
	wiz := startWizard(c, wizard.VariantQuick)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/wizard/" + wiz.ID + "/live"
	dialer := websocket.Dialer{Jar: c.http.Jar}
	conn, resp, err := dialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	resp.Body.Close()

	var msg liveResponse
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read initial view: %v", err)
	}
	if msg.Type != "view" || msg.Wizard.ID != wiz.ID {
		t.Fatalf("unexpected initial message %+v", msg)
	}

	send := func(req liveRequest) liveResponse {
		t.Helper()
		if err := conn.WriteJSON(req); err != nil {
			t.Fatalf("write: %v", err)
		}
		var out liveResponse
		if err := conn.ReadJSON(&out); err != nil {
			t.Fatalf("read: %v", err)
		}
		return out
	}

	msg = send(liveRequest{Op: "set", Key: "directoryName", Value: "Plumbers"})
	if v, _ := fieldValue(msg.Wizard.View, "directoryName"); msg.Type != "view" || v != "Plumbers" {
		t.Errorf("expected updated view, got %+v", msg)
	}

	msg = send(liveRequest{Op: "set", Key: "buttonRadius", Value: "-1"})
	if msg.Type != "error" || msg.Wizard == nil {
		t.Errorf("expected error with current view, got %+v", msg)
	}

	msg = send(liveRequest{Op: "submit"})
	if msg.Type != "error" || msg.Field != "buttonType" {
		t.Errorf("expected missing form URL to fail on buttonType, got %+v", msg)
	}

	msg = send(liveRequest{Op: "bogus"})
	if msg.Type != "error" {
		t.Errorf("expected unknown op error, got %+v", msg)
	}
}
