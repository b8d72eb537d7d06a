// Package codegen turns a directory configuration into the CSS and
// JavaScript snippets pasted into GoHighLevel's custom code fields.
package codegen

import (
	"fmt"
	"strings"

	"directoryEngine/internal/models"
)

// PopupSpacing is added to both popup dimensions when extra spacing is on.
const PopupSpacing = 100

// Button defaults
const (
	DefaultButtonText      = "Get More Info"
	DefaultButtonColor     = "#2563eb"
	DefaultButtonTextColor = "#ffffff"
)

// ButtonOptions styles the action button injected on a listing page.
type ButtonOptions struct {
	Text      string
	Color     string
	TextColor string
	Radius    int
}

// ButtonOptionsFrom converts stored styling into generator options.
func ButtonOptionsFrom(s models.ButtonStyle) ButtonOptions {
	return ButtonOptions{Text: s.Text, Color: s.Color, TextColor: s.TextColor, Radius: s.Radius}
}

func (b ButtonOptions) text() string {
	if t := strings.TrimSpace(b.Text); t != "" {
		return t
	}
	return DefaultButtonText
}

func (b ButtonOptions) radius() int {
	if b.Radius < 0 {
		return 0
	}
	return b.Radius
}

// buttonCSS is shared by every button-driven action.
func buttonCSS(b ButtonOptions) string {
	return fmt.Sprintf(`/* Directory Engine: action button */
.de-action-button {
  display: inline-block;
  margin-top: 16px;
  padding: 12px 28px;
  background-color: %s !important;
  color: %s !important;
  border: none;
  border-radius: %dpx !important;
  font-size: 16px;
  font-weight: 600;
  text-decoration: none;
  cursor: pointer;
  transition: opacity 0.2s ease;
}
.de-action-button:hover {
  opacity: 0.88;
}`,
		EscapeCSSValue(b.Color, DefaultButtonColor),
		EscapeCSSValue(b.TextColor, DefaultButtonTextColor),
		b.radius())
}

// productControlsCSS hides GHL's quantity selector and buy-now button
// unless the directory keeps them.
func productControlsCSS(enableQuantity, enableBuyNow bool) string {
	var parts []string
	if !enableQuantity {
		parts = append(parts, `.hl-product-detail-selectors .quantity-container,
.hl-quantity-input-container {
  display: none !important;
}`)
	}
	if !enableBuyNow {
		parts = append(parts, `.hl-product-buy-button,
#buy-now-btn {
  display: none !important;
}`)
	}
	return strings.Join(parts, "\n")
}

// installButtonJS is the shared preamble that finds the listing id and
// mounts the action button. onClick is a JS function expression.
const installButtonJS = `  function deListingId() {
    var parts = window.location.pathname.split("/").filter(Boolean);
    return parts.length ? decodeURIComponent(parts[parts.length - 1]) : "";
  }

  function deWithListing(url, field, id) {
    if (!field || !id) return url;
    var sep = url.indexOf("?") === -1 ? "?" : "&";
    return url + sep + encodeURIComponent(field) + "=" + encodeURIComponent(id);
  }

  function deInstall(text, onClick) {
    if (document.querySelector(".de-action-button")) return;
    var target = document.querySelector(".hl-product-detail-buttons") ||
      document.querySelector(".hl-product-detail-description") ||
      document.querySelector(".product-detail-container") ||
      document.body;
    var button = document.createElement("button");
    button.type = "button";
    button.className = "de-action-button";
    button.textContent = text;
    button.addEventListener("click", onClick);
    target.appendChild(button);
  }

  function deReady(fn) {
    if (document.readyState === "loading") {
      document.addEventListener("DOMContentLoaded", fn);
    } else {
      fn();
    }
  }
`

// RedirectOptions configures a button that navigates to another page.
type RedirectOptions struct {
	Button          ButtonOptions
	CustomFieldName string
	URL             string
	NewTab          bool
	EnableQuantity  bool
	EnableBuyNow    bool
}

// GenerateRedirectButton emits a button that opens URL with the listing id
// appended as a query parameter.
func GenerateRedirectButton(opts RedirectOptions) models.GeneratedCode {
	url := strings.TrimSpace(opts.URL)
	if url == "" {
		return models.GeneratedCode{}
	}

	target := "_self"
	if opts.NewTab {
		target = "_blank"
	}

	css := joinParts(buttonCSS(opts.Button), productControlsCSS(opts.EnableQuantity, opts.EnableBuyNow))
	js := fmt.Sprintf(`/* Directory Engine: redirect button */
(function () {
  var REDIRECT_URL = "%s";
  var FIELD_NAME = "%s";

%s
  deReady(function () {
    deInstall("%s", function () {
      window.open(deWithListing(REDIRECT_URL, FIELD_NAME, deListingId()), "%s");
    });
  });
})();`,
		EscapeJSString(url),
		EscapeJSString(opts.CustomFieldName),
		installButtonJS,
		EscapeJSString(opts.Button.text()),
		target)

	return models.GeneratedCode{HeaderCode: css, FooterCode: js, IsValid: true}
}

// DownloadOptions configures a button that downloads a file.
type DownloadOptions struct {
	Button         ButtonOptions
	FileURL        string
	FileName       string
	EnableQuantity bool
	EnableBuyNow   bool
}

// GenerateDownloadButton emits a button that downloads FileURL.
func GenerateDownloadButton(opts DownloadOptions) models.GeneratedCode {
	fileURL := strings.TrimSpace(opts.FileURL)
	if fileURL == "" {
		return models.GeneratedCode{}
	}

	css := joinParts(buttonCSS(opts.Button), productControlsCSS(opts.EnableQuantity, opts.EnableBuyNow))
	js := fmt.Sprintf(`/* Directory Engine: download button */
(function () {
  var FILE_URL = "%s";
  var FILE_NAME = "%s";

%s
  deReady(function () {
    deInstall("%s", function () {
      var link = document.createElement("a");
      link.href = FILE_URL;
      link.download = FILE_NAME || "";
      link.rel = "noopener";
      document.body.appendChild(link);
      link.click();
      document.body.removeChild(link);
    });
  });
})();`,
		EscapeJSString(fileURL),
		EscapeJSString(opts.FileName),
		installButtonJS,
		EscapeJSString(opts.Button.text()))

	return models.GeneratedCode{HeaderCode: css, FooterCode: js, IsValid: true}
}

// joinParts concatenates non-empty fragments with a blank line between them.
func joinParts(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}
