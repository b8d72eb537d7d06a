package codegen

import (
	"fmt"
	"strings"

	"directoryEngine/internal/embed"
	"directoryEngine/internal/models"
)

// PopupOptions configures the action-button popup. FormURL may be a plain
// URL or a pasted iframe embed snippet.
type PopupOptions struct {
	Button                 ButtonOptions
	CustomFieldName        string
	FormURL                string
	ExtraSpacing           bool
	EnableQuantitySelector bool
	EnableBuyNow           bool
}

// resolveForm parses the form URL and applies spacing. A snippet whose src
// cannot be found is used as the source as-is.
func resolveForm(formURL string, extraSpacing bool) models.ParsedEmbedData {
	data := models.ParsedEmbedData{
		Src:    strings.TrimSpace(formURL),
		Width:  embed.DefaultWidth,
		Height: embed.DefaultHeight,
	}
	if parsed := embed.Parse(formURL); parsed != nil {
		data.Width, data.Height = parsed.Width, parsed.Height
		if parsed.Src != "" {
			data.Src = parsed.Src
		}
	}
	if extraSpacing {
		data = data.WithSpacing(PopupSpacing)
	}
	return data
}

// hiddenFieldJS writes the listing id into a hidden input of the page's
// own form, creating the input when the form lacks it.
const hiddenFieldJS = `  function deSetHiddenField(name, value) {
    var form = document.querySelector("form");
    if (!form || !name) return;
    var input = form.elements.namedItem(name);
    if (!input) {
      input = document.createElement("input");
      input.type = "hidden";
      input.name = name;
      form.appendChild(input);
    }
    input.value = value;
  }
`

// GenerateActionButtonPopup builds the CSS and JS for a button that opens
// the form in a centered modal iframe. The result is invalid, with both
// halves empty, when FormURL is blank.
func GenerateActionButtonPopup(opts PopupOptions) models.GeneratedCode {
	if strings.TrimSpace(opts.FormURL) == "" {
		return models.GeneratedCode{}
	}
	form := resolveForm(opts.FormURL, opts.ExtraSpacing)

	radius := opts.Button.radius()
	popupCSS := fmt.Sprintf(`/* Directory Engine: popup */
.de-popup-overlay {
  position: fixed;
  top: 0;
  left: 0;
  width: 100%%;
  height: 100%%;
  background: rgba(0, 0, 0, 0.6);
  display: none;
  align-items: center;
  justify-content: center;
  z-index: 99999;
}
.de-popup-overlay.de-open {
  display: flex;
}
.de-popup-content {
  position: relative;
  width: %dpx;
  height: %dpx;
  max-width: 95vw;
  max-height: 95vh;
  background: #ffffff;
  border-radius: %dpx;
  box-shadow: 0 20px 60px rgba(0, 0, 0, 0.3);
  overflow: hidden;
}
.de-popup-close {
  position: absolute;
  top: 8px;
  right: 12px;
  border: none;
  background: transparent;
  font-size: 28px;
  line-height: 1;
  cursor: pointer;
  color: #555555;
}
iframe[src*="%s"] {
  width: 100%%;
  height: 100%%;
  border: none;
}`,
		form.Width, form.Height, radius, EscapeCSSString(form.Src))

	css := joinParts(
		buttonCSS(opts.Button),
		popupCSS,
		productControlsCSS(opts.EnableQuantitySelector, opts.EnableBuyNow),
	)

	js := fmt.Sprintf(`/* Directory Engine: popup */
(function () {
  var FORM_URL = "%s";
  var FIELD_NAME = "%s";

%s
%s
  function deOpenPopup() {
    var id = deListingId();
    var overlay = document.createElement("div");
    overlay.className = "de-popup-overlay de-open";

    var content = document.createElement("div");
    content.className = "de-popup-content";

    var close = document.createElement("button");
    close.type = "button";
    close.className = "de-popup-close";
    close.setAttribute("aria-label", "Close");
    close.innerHTML = "&times;";

    var frame = document.createElement("iframe");
    frame.src = deWithListing(FORM_URL, FIELD_NAME, id);
    frame.setAttribute("allowtransparency", "true");

    function dismiss() {
      document.removeEventListener("keydown", onKey);
      if (overlay.parentNode) overlay.parentNode.removeChild(overlay);
    }
    function onKey(e) {
      if (e.key === "Escape") dismiss();
    }

    close.addEventListener("click", dismiss);
    overlay.addEventListener("click", function (e) {
      if (e.target === overlay) dismiss();
    });
    document.addEventListener("keydown", onKey);

    content.appendChild(close);
    content.appendChild(frame);
    overlay.appendChild(content);
    document.body.appendChild(overlay);
    deSetHiddenField(FIELD_NAME, id);

    frame.addEventListener("load", function () {
      try {
        frame.contentWindow.postMessage({ type: "de-listing", field: FIELD_NAME, value: id }, "*");
      } catch (err) {}
    });
  }

  deReady(function () {
    deInstall("%s", deOpenPopup);
  });
})();`,
		EscapeJSString(form.Src),
		EscapeJSString(opts.CustomFieldName),
		installButtonJS,
		hiddenFieldJS,
		EscapeJSString(opts.Button.text()))

	return models.GeneratedCode{HeaderCode: css, FooterCode: js, IsValid: true}
}
