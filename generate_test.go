package main

import (
	"net/http"
	"strings"
	"testing"

	"directoryEngine/internal/codegen"
	"directoryEngine/internal/models"
)

func TestParseEmbedEndpoint(t *testing.T) {
	_, srv := newTestApp(t)
	c := newTestClient(t, srv)

	resp := c.do(http.MethodPost, "/api/parse-embed", ParseEmbedRequest{Embed: "   "})
	expectStatus(t, resp, http.StatusUnprocessableEntity)
	resp.Body.Close()

	var parsed models.ParsedEmbedData
	c.doJSON(http.MethodPost, "/api/parse-embed", ParseEmbedRequest{
		Embed: `<iframe src="https://forms.example.com/widget/form/abc" style="border:none"></iframe>`,
	}, http.StatusOK, &parsed)
	if parsed.Src != "https://forms.example.com/widget/form/abc" {
		t.Errorf("unexpected src %q", parsed.Src)
	}
	if parsed.Width != 500 || parsed.Height != 600 {
		t.Errorf("expected default dimensions, got %dx%d", parsed.Width, parsed.Height)
	}
}

func TestGeneratePopupEndpoint(t *testing.T) {
	_, srv := newTestApp(t)
	c := newTestClient(t, srv)

	var code models.GeneratedCode
	c.doJSON(http.MethodPost, "/api/generate/popup", PopupRequest{ButtonText: "Book"}, http.StatusOK, &code)
	if code.IsValid || code.HeaderCode != "" || code.FooterCode != "" {
		t.Errorf("expected empty invalid code without a form URL, got %+v", code)
	}

	c.doJSON(http.MethodPost, "/api/generate/popup", PopupRequest{
		ButtonText:   "Book",
		ButtonRadius: 8,
		FormEmbedURL: "https://forms.example.com/widget/form/abc",
	}, http.StatusOK, &code)
	if !code.IsValid {
		t.Fatal("expected valid popup code")
	}
	if !strings.Contains(code.FooterCode, "Book") {
		t.Error("expected button text in footer code")
	}
}

func TestGenerateEmbeddedEndpoint(t *testing.T) {
	_, srv := newTestApp(t)
	c := newTestClient(t, srv)

	var code models.GeneratedCode
	c.doJSON(http.MethodPost, "/api/generate/embedded", EmbeddedRequest{
		FormEmbedURL: `<iframe src="https://forms.example.com/f/2" width="640" height="480"></iframe>`,
	}, http.StatusOK, &code)
	if !code.IsValid {
		t.Fatal("expected valid embedded code")
	}
	if !strings.Contains(code.HeaderCode, "480") {
		t.Error("expected parsed height in the embedded form styles")
	}
}

func TestGenerateDirectoryDefaults(t *testing.T) {
	_, srv := newTestApp(t)
	c := newTestClient(t, srv)

	// The default configuration has no form, so nothing is generated
	var code models.GeneratedCode
	c.doJSON(http.MethodPost, "/api/generate/directory", DirectoryCodeRequest{}, http.StatusOK, &code)
	if code.IsValid {
		t.Error("expected default configuration without a form to be invalid")
	}

	cfg := models.DefaultDirectoryConfig()
	cfg.FormEmbedURL = "https://forms.example.com/widget/form/abc"
	c.doJSON(http.MethodPost, "/api/generate/directory", DirectoryCodeRequest{Config: &cfg}, http.StatusOK, &code)
	if !code.IsValid {
		t.Error("expected valid code once a form is set")
	}
}

func TestMetadataCatalog(t *testing.T) {
	_, srv := newTestApp(t)
	c := newTestClient(t, srv)

	var all []codegen.MetadataField
	c.doJSON(http.MethodGet, "/api/metadata-fields", nil, http.StatusOK, &all)
	if len(all) == 0 {
		t.Fatal("expected a non-empty catalog")
	}

	var picked []codegen.MetadataField
	c.doJSON(http.MethodGet, "/api/metadata-fields?ids=shoe_size,phone,PHONE", nil, http.StatusOK, &picked)
	if len(picked) != 2 {
		t.Fatalf("expected duplicates to collapse, got %+v", picked)
	}
	if picked[0].ID != "shoe_size" || picked[0].Label != "Shoe Size" {
		t.Errorf("unexpected custom field %+v", picked[0])
	}
	if picked[1].ID != "phone" || picked[1].Label != "Phone" {
		t.Errorf("unexpected catalog field %+v", picked[1])
	}
}

func TestDevPreview(t *testing.T) {
	_, srv := newTestApp(t)
	c := newTestClient(t, srv)

	resp := c.do(http.MethodGet, "/api/dev/preview", nil)
	expectStatus(t, resp, http.StatusOK)
	if body := readBody(t, resp); !strings.Contains(body, "Sample listing") {
		t.Error("expected the mock listing title in the preview")
	}
}
