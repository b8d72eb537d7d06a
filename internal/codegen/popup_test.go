package codegen

import (
	"fmt"
	"strings"
	"testing"
)

func TestGenerateActionButtonPopupValid(t *testing.T) {
	urls := []string{
		"https://api.leadconnectorhq.com/widget/form/abc123",
		"https://x.test/f?a=1&b=2",
		"  https://forms.example.com/listing  ",
	}

	for _, url := range urls {
		code := GenerateActionButtonPopup(PopupOptions{
			Button:          ButtonOptions{Text: "Apply", Color: "#ff0000", Radius: 8},
			CustomFieldName: "listing",
			FormURL:         url,
		})
		literal := strings.TrimSpace(url)
		if !code.IsValid {
			t.Errorf("expected valid code for %q", url)
		}
		if code.HeaderCode == "" || code.FooterCode == "" {
			t.Fatalf("expected non-empty code for %q", url)
		}
		if !strings.Contains(code.HeaderCode, literal) {
			t.Errorf("header code does not contain form URL %q", literal)
		}
		if !strings.Contains(code.FooterCode, literal) {
			t.Errorf("footer code does not contain form URL %q", literal)
		}
	}
}

func TestGenerateActionButtonPopupEmpty(t *testing.T) {
	for _, url := range []string{"", "   ", "\n"} {
		code := GenerateActionButtonPopup(PopupOptions{FormURL: url})
		if code.IsValid {
			t.Errorf("expected invalid code for %q", url)
		}
		if code.HeaderCode != "" || code.FooterCode != "" {
			t.Errorf("expected empty code for %q, got header=%q footer=%q", url, code.HeaderCode, code.FooterCode)
		}
	}
}

func TestPopupValidForSnippetWithoutSrc(t *testing.T) {
	for _, raw := range []string{"<iframe></iframe>", `<iframe src=""></iframe>`} {
		popup := GenerateActionButtonPopup(PopupOptions{FormURL: raw})
		if !popup.IsValid || popup.HeaderCode == "" || popup.FooterCode == "" {
			t.Errorf("expected valid popup code for %q", raw)
		}
		if !strings.Contains(popup.HeaderCode, "width: 500px;\n  height: 600px;") {
			t.Errorf("expected default dimensions for %q", raw)
		}

		embedded := GenerateEmbeddedForm(EmbeddedFormOptions{FormURL: raw})
		if !embedded.IsValid || embedded.FooterCode == "" {
			t.Errorf("expected valid embedded code for %q", raw)
		}
		if !strings.Contains(embedded.FooterCode, "deSetHiddenField(FIELD_NAME, id);") {
			t.Error("expected embedded form to write the listing id to the page form")
		}
	}
}

func TestPopupSpacing(t *testing.T) {
	raw := `<iframe src="https://x.test/f" width="400" height="500"></iframe>`

	spaced := GenerateActionButtonPopup(PopupOptions{FormURL: raw, ExtraSpacing: true})
	want := fmt.Sprintf("width: %dpx;\n  height: %dpx;", 400+PopupSpacing, 500+PopupSpacing)
	if !strings.Contains(spaced.HeaderCode, want) {
		t.Errorf("expected spaced popup dimensions %q in header", want)
	}

	plain := GenerateActionButtonPopup(PopupOptions{FormURL: raw})
	if !strings.Contains(plain.HeaderCode, "width: 400px;\n  height: 500px;") {
		t.Error("expected parsed popup dimensions without spacing")
	}
}

func TestPopupHiddenField(t *testing.T) {
	code := GenerateActionButtonPopup(PopupOptions{FormURL: "https://x.test/f", CustomFieldName: "listing_id"})
	if !strings.Contains(code.FooterCode, `var FIELD_NAME = "listing_id";`) {
		t.Error("expected field name in footer code")
	}
	if !strings.Contains(code.FooterCode, `deSetHiddenField(FIELD_NAME, id);`) {
		t.Error("expected listing id to be written to the page form")
	}
	if !strings.Contains(code.FooterCode, `addEventListener("click"`) {
		t.Error("expected click handler in footer code")
	}
}

func TestPopupProductControls(t *testing.T) {
	hidden := GenerateActionButtonPopup(PopupOptions{FormURL: "https://x.test/f"})
	if !strings.Contains(hidden.HeaderCode, ".hl-quantity-input-container") {
		t.Error("expected quantity selector to be hidden by default")
	}
	if !strings.Contains(hidden.HeaderCode, "#buy-now-btn") {
		t.Error("expected buy-now button to be hidden by default")
	}

	shown := GenerateActionButtonPopup(PopupOptions{
		FormURL:                "https://x.test/f",
		EnableQuantitySelector: true,
		EnableBuyNow:           true,
	})
	if strings.Contains(shown.HeaderCode, ".hl-quantity-input-container") || strings.Contains(shown.HeaderCode, "#buy-now-btn") {
		t.Error("expected product controls to stay visible when enabled")
	}
}

func TestPopupEscapesUserValues(t *testing.T) {
	code := GenerateActionButtonPopup(PopupOptions{
		Button: ButtonOptions{
			Text:  `</script><script>alert(1)</script>`,
			Color: `red;}</style><script>`,
		},
		CustomFieldName: `x"; alert(1); "`,
		FormURL:         "https://x.test/f",
	})

	if strings.Contains(code.FooterCode, "</script>") {
		t.Error("footer code contains an unescaped closing script tag")
	}
	if strings.Contains(code.FooterCode, `"x"; alert(1)`) {
		t.Error("field name broke out of its string literal")
	}
	if strings.Contains(code.HeaderCode, "</style>") || strings.Contains(code.HeaderCode, "red;}") {
		t.Error("button color broke out of its declaration")
	}
}
